package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type PairConfig struct {
	Symbol string `yaml:"symbol"`
}

type PairsConfig struct {
	Pairs []PairConfig `yaml:"pairs"`
}

// LoadPairAllowlist reads the trading-pair allowlist from a yaml file.
// An empty file path means no restriction.
func LoadPairAllowlist(pairsFile string) ([]string, error) {
	if pairsFile == "" {
		return nil, nil
	}

	var pairsPath string
	if filepath.IsAbs(pairsFile) {
		pairsPath = pairsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		pairsPath = filepath.Join(wd, pairsFile)
	}

	data, err := os.ReadFile(pairsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", pairsFile, err)
	}

	var config PairsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", pairsFile, err)
	}

	pairs := make([]string, len(config.Pairs))
	for i, pair := range config.Pairs {
		if pair.Symbol == "" {
			return nil, fmt.Errorf("pair at index %d missing symbol", i)
		}
		pairs[i] = pair.Symbol
	}

	return pairs, nil
}

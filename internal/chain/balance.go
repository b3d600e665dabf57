package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrInvalidAddress is returned for input that is not a hex address.
var ErrInvalidAddress = errors.New("invalid address")

// Client wraps a blockchain RPC endpoint for balance lookups.
type Client struct {
	eth *ethclient.Client
}

func NewClient(rpcEndpoint string) (*Client, error) {
	if rpcEndpoint == "" {
		return nil, fmt.Errorf("RPC endpoint cannot be empty")
	}

	eth, err := ethclient.Dial(rpcEndpoint)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to RPC endpoint: %w", err)
	}

	return &Client{eth: eth}, nil
}

// Balance returns the latest ether balance of an address as a decimal
// string in ether units.
func (c *Client) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	if !common.IsHexAddress(address) {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}

	wei, err := c.eth.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		zap.L().Error("Balance lookup failed", zap.String("address", address), zap.Error(err))
		return decimal.Zero, fmt.Errorf("unable to fetch balance: %w", err)
	}

	// wei -> ether
	return decimal.NewFromBigInt(wei, -18), nil
}

func (c *Client) Close() {
	c.eth.Close()
}

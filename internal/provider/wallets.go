package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"peoplebot-go/internal/models"

	"go.uber.org/zap"
)

// ListWallets fetches the full wallet list for one account type.
func (c *Client) ListWallets(ctx context.Context, accountType string) ([]models.ProviderWallet, error) {
	env, err := c.call(ctx, http.MethodGet, "/account/wallets?type="+accountType, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to list wallets: %w", err)
	}
	if env.Err {
		return nil, fmt.Errorf("%w: wallet list request refused: %s", ErrUnavailable, env.Msg)
	}

	var wallets []models.ProviderWallet
	if err := json.Unmarshal(env.Res, &wallets); err != nil {
		return nil, fmt.Errorf("%w: unexpected wallet list payload: %v", ErrProtocol, err)
	}

	zap.L().Debug("Provider wallet list fetched",
		zap.String("account_type", accountType),
		zap.Int("count", len(wallets)))
	return wallets, nil
}

// ImportWallet hands private key material to the provider's import
// endpoint. The key is never logged or persisted on this side.
func (c *Client) ImportWallet(ctx context.Context, accountType, privateKey string) error {
	body := map[string]any{
		"type":        accountType,
		"privateKeys": []string{privateKey},
	}

	env, err := c.call(ctx, http.MethodPost, "/account/wallet", body)
	if err != nil {
		return fmt.Errorf("unable to import wallet: %w", err)
	}
	if env.Err {
		return fmt.Errorf("%w: wallet import refused: %s", ErrUnavailable, env.Msg)
	}

	zap.L().Info("Wallet imported with provider", zap.String("account_type", accountType))
	return nil
}

// DeleteWallet removes a wallet from the provider account. Unknown ids
// surface as ErrNotFound.
func (c *Client) DeleteWallet(ctx context.Context, walletId string) error {
	env, err := c.call(ctx, http.MethodDelete, "/account/wallet/"+walletId, nil)
	if err != nil {
		return fmt.Errorf("unable to delete wallet %s: %w", walletId, err)
	}
	if env.Err {
		// The provider flags unknown ids in the envelope rather than the
		// status line. Other refusals (auth, rate limit) are not 404s.
		if strings.Contains(strings.ToLower(env.Msg), "not found") {
			return fmt.Errorf("%w: wallet %s", ErrNotFound, walletId)
		}
		return fmt.Errorf("%w: wallet delete refused: %s", ErrUnavailable, env.Msg)
	}

	zap.L().Info("Wallet deleted with provider", zap.String("wallet_id", walletId))
	return nil
}

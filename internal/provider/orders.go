package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"peoplebot-go/internal/models"

	"go.uber.org/zap"
)

// SubmitOrder submits a swap order and returns the provider-assigned
// order id. An explicit failure flag or a missing id both map to
// ErrTradeRejected; transport problems map to ErrUnavailable.
func (c *Client) SubmitOrder(ctx context.Context, order models.OrderRequest) (string, error) {
	env, err := c.call(ctx, http.MethodPost, "/automation/swap_order", order)
	if err != nil {
		return "", fmt.Errorf("unable to submit order: %w", err)
	}
	if env.Err {
		return "", fmt.Errorf("%w: %s", ErrTradeRejected, env.Msg)
	}

	var res struct {
		Id string `json:"id"`
	}
	if len(env.Res) > 0 {
		if err := json.Unmarshal(env.Res, &res); err != nil {
			return "", fmt.Errorf("%w: unexpected order payload: %v", ErrProtocol, err)
		}
	}
	if res.Id == "" {
		// Accepted envelope without a result payload counts as a rejection.
		return "", fmt.Errorf("%w: provider returned no order id", ErrTradeRejected)
	}

	zap.L().Info("Order accepted by provider",
		zap.String("order_id", res.Id),
		zap.String("wallet_id", order.WalletId),
		zap.String("pair", order.Pair),
		zap.String("type", order.Type))
	return res.Id, nil
}

// GetOrder fetches settlement detail for an accepted order. A nil detail
// with nil error means the provider has no detail yet.
func (c *Client) GetOrder(ctx context.Context, orderId string) (*models.OrderDetail, error) {
	env, err := c.call(ctx, http.MethodGet, "/automation/swap_order/"+orderId, nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderId)
		}
		return nil, fmt.Errorf("unable to fetch order %s: %w", orderId, err)
	}
	if env.Err {
		return nil, fmt.Errorf("%w: order lookup refused: %s", ErrUnavailable, env.Msg)
	}

	// res is null while the order has not settled.
	if len(env.Res) == 0 || string(env.Res) == "null" {
		return nil, nil
	}

	var detail models.OrderDetail
	if err := json.Unmarshal(env.Res, &detail); err != nil {
		return nil, fmt.Errorf("%w: unexpected order detail payload: %v", ErrProtocol, err)
	}

	return &detail, nil
}

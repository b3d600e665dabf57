package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"peoplebot-go/internal/models"
	"peoplebot-go/internal/store"

	"go.uber.org/zap"
)

// CreateTransaction inserts a new pending trade record. The trade id is
// the primary key, so a second submission with the same id fails with
// store.ErrDuplicateTrade instead of creating a second record.
func (s *Service) CreateTransaction(ctx context.Context, tx models.Transaction) error {
	_, err := s.db.ExecContext(ctx, queryInsertTransaction, tx.TradeId, tx.WalletId, tx.Pair, tx.Type)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrDuplicateTrade
		}
		zap.L().Error("Failed to insert transaction", zap.String("trade_id", tx.TradeId), zap.Error(err))
		return fmt.Errorf("unable to insert transaction: %w", err)
	}

	zap.L().Info("Transaction recorded",
		zap.String("trade_id", tx.TradeId),
		zap.String("wallet_id", tx.WalletId),
		zap.String("pair", tx.Pair),
		zap.String("type", tx.Type))
	return nil
}

// UpdateTradeDetail applies provider settlement detail to the matching
// record in place. Keyed on the unique trade id, so repeated calls with
// identical detail are idempotent and can never duplicate the record.
func (s *Service) UpdateTradeDetail(ctx context.Context, params store.TradeDetailParams) error {
	result, err := s.db.ExecContext(ctx, queryUpdateTradeDetail,
		nullable(params.TxPriceUsd), nullable(params.SwapHash), nullable(params.State), params.TradeId)
	if err != nil {
		zap.L().Error("Failed to update trade detail", zap.String("trade_id", params.TradeId), zap.Error(err))
		return fmt.Errorf("unable to update trade detail: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to check trade detail update: %w", err)
	}
	if rows == 0 {
		return store.ErrNotFound
	}

	zap.L().Info("Trade detail applied",
		zap.String("trade_id", params.TradeId),
		zap.String("state", params.State))
	return nil
}

// nullable maps an empty string to SQL NULL so absent settlement fields
// stay unset instead of becoming empty strings.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Service) GetTransactionByTradeId(ctx context.Context, tradeId string) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.db.QueryRowContext(ctx, queryGetTransactionByTradeId, tradeId).Scan(
		&tx.TradeId, &tx.WalletId, &tx.Pair, &tx.Type,
		&tx.TxPriceUsd, &tx.SwapHash, &tx.State, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("unable to query transaction: %w", err)
	}
	return &tx, nil
}

func (s *Service) GetTransactionsByWallet(ctx context.Context, walletId string) ([]models.Transaction, error) {
	return s.queryTransactions(ctx, queryGetTransactionsByWallet, walletId)
}

func (s *Service) GetPendingTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.queryTransactions(ctx, queryGetPendingTransactions, limit)
}

func (s *Service) queryTransactions(ctx context.Context, query string, arg any) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		zap.L().Error("Failed to query transactions", zap.Error(err))
		return nil, fmt.Errorf("unable to query transactions: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		err := rows.Scan(&tx.TradeId, &tx.WalletId, &tx.Pair, &tx.Type,
			&tx.TxPriceUsd, &tx.SwapHash, &tx.State, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan transaction row: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}

package store

import (
	"context"
	"errors"

	"peoplebot-go/internal/models"
)

// Sentinel errors shared across store implementations.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateTrade = errors.New("duplicate trade id")
	ErrDuplicateUser  = errors.New("username already taken")
)

// TradeDetailParams carries provider settlement detail for an in-place
// transaction update keyed on trade id.
type TradeDetailParams struct {
	TradeId    string
	TxPriceUsd string
	SwapHash   string
	State      string
}

// RecordStore defines the durable store contract for users, wallet
// snapshots, transactions, and bots. All reads and writes go through the
// store's own atomic primitives; no in-process locking is assumed.
type RecordStore interface {
	// --- Users ---
	CreateUser(ctx context.Context, userId, username, passwordHash string) (*models.User, error)
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	SetUserChatId(ctx context.Context, userId, chatId string) error

	// --- Wallet snapshot ---
	// ReplaceWalletSnapshot overwrites the user's cached wallet list
	// completely. No incremental diff, no merge.
	ReplaceWalletSnapshot(ctx context.Context, userId string, wallets []models.Wallet) error
	GetWalletSnapshot(ctx context.Context, userId string) ([]models.Wallet, error)

	// --- Transactions ---
	// CreateTransaction inserts a new pending transaction. Returns
	// ErrDuplicateTrade if a record with the same trade id exists.
	CreateTransaction(ctx context.Context, tx models.Transaction) error
	// UpdateTradeDetail enriches the matching transaction in place.
	// Returns ErrNotFound if no record carries the trade id.
	UpdateTradeDetail(ctx context.Context, params TradeDetailParams) error
	GetTransactionByTradeId(ctx context.Context, tradeId string) (*models.Transaction, error)
	GetTransactionsByWallet(ctx context.Context, walletId string) ([]models.Transaction, error)
	// GetPendingTransactions returns transactions still missing settlement
	// detail, oldest first, up to limit.
	GetPendingTransactions(ctx context.Context, limit int) ([]models.Transaction, error)

	// --- Bots ---
	CreateBot(ctx context.Context, botId, userId, name, config string) (*models.Bot, error)
	GetBotsByUser(ctx context.Context, userId string) ([]models.Bot, error)

	// --- Lifecycle ---
	Close()
}

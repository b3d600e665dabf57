package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered user in the system
type User struct {
	Id           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	ChatId       string    `db:"chat_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Wallet is the local projection of a provider-held custodial wallet.
// The provider is authoritative; local copies form a disposable snapshot
// rebuilt wholesale from the provider on every refresh.
type Wallet struct {
	Id      string `db:"wallet_id" json:"id"`
	Name    string `db:"name" json:"name"`
	Type    string `db:"type" json:"type"`
	Address string `db:"address" json:"address"`
}

// Transaction records a submitted trade. It is created exactly once per
// accepted order submission with the enrichment fields unset, and later
// enriched in place once provider-side settlement detail is available.
type Transaction struct {
	TradeId    string              `db:"trade_id"`
	WalletId   string              `db:"wallet_id"`
	Pair       string              `db:"pair"`
	Type       string              `db:"type"` // "buy" or "sell"
	TxPriceUsd decimal.NullDecimal `db:"tx_price_usd"`
	SwapHash   sql.NullString      `db:"swap_hash"`
	State      sql.NullString      `db:"state"`
	CreatedAt  time.Time           `db:"created_at"`
	UpdatedAt  time.Time           `db:"updated_at"`
}

// Enriched reports whether settlement detail has been applied yet.
func (t Transaction) Enriched() bool {
	return t.State.Valid
}

// Bot is a user-owned trading bot definition.
type Bot struct {
	Id        string    `db:"id"`
	UserId    string    `db:"user_id"`
	Name      string    `db:"name"`
	Config    string    `db:"config"` // opaque JSON blob
	CreatedAt time.Time `db:"created_at"`
}

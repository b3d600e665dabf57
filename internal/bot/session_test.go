package bot

import (
	"database/sql"
	"strings"
	"sync"
	"testing"

	"peoplebot-go/internal/models"

	"github.com/shopspring/decimal"
)

// fakeTransport records sent messages and close calls.
type fakeTransport struct {
	mu     sync.Mutex
	sent   []string
	closed bool
}

func (t *fakeTransport) SendText(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, text)
	return nil
}

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

func (t *fakeTransport) lastSent() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.sent) == 0 {
		return ""
	}
	return t.sent[len(t.sent)-1]
}

func (t *fakeTransport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func TestRegistry_InstallReplacesPriorSession(t *testing.T) {
	registry := NewRegistry()

	first := &fakeTransport{}
	firstSession := NewSession("user1", first)
	registry.Install("user1", firstSession)

	second := &fakeTransport{}
	secondSession := NewSession("user1", second)
	registry.Install("user1", secondSession)

	// The prior session is torn down, the new one is active.
	if !first.isClosed() {
		t.Errorf("Expected prior transport closed on replacement")
	}
	if second.isClosed() {
		t.Errorf("New transport must stay open")
	}

	active, ok := registry.Lookup("user1")
	if !ok || active != secondSession {
		t.Errorf("Expected second session active, got %v", active)
	}
}

func TestRegistry_RemoveOnlyDropsCurrentSession(t *testing.T) {
	registry := NewRegistry()

	firstSession := NewSession("user1", &fakeTransport{})
	registry.Install("user1", firstSession)

	secondSession := NewSession("user1", &fakeTransport{})
	registry.Install("user1", secondSession)

	// The stale session's teardown must not evict its replacement.
	registry.Remove("user1", firstSession)

	active, ok := registry.Lookup("user1")
	if !ok || active != secondSession {
		t.Errorf("Expected second session still active after stale remove")
	}

	registry.Remove("user1", secondSession)
	if _, ok := registry.Lookup("user1"); ok {
		t.Errorf("Expected no session after removing the active one")
	}
}

func TestRegistry_TradeSettledDeliversToActiveSession(t *testing.T) {
	registry := NewRegistry()

	transport := &fakeTransport{}
	registry.Install("user1", NewSession("user1", transport))

	tx := models.Transaction{
		TradeId: "t1",
		Pair:    "ETH/USDT",
		Type:    "buy",
		TxPriceUsd: decimal.NullDecimal{
			Decimal: decimal.RequireFromString("1850.25"),
			Valid:   true,
		},
		SwapHash: sql.NullString{String: "0xhash", Valid: true},
		State:    sql.NullString{String: "success", Valid: true},
	}
	registry.TradeSettled("user1", tx)

	msg := transport.lastSent()
	if msg == "" {
		t.Fatalf("Expected a settlement message")
	}
	for _, want := range []string{"t1", "buy", "ETH/USDT", "1850.25", "0xhash"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected message to contain %q, got %q", want, msg)
		}
	}
}

func TestRegistry_TradeSettledNoSessionIsNoOp(t *testing.T) {
	registry := NewRegistry()

	// Must not panic with no active session.
	registry.TradeSettled("user1", models.Transaction{TradeId: "t1"})
}

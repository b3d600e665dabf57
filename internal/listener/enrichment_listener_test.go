package listener

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"peoplebot-go/internal/database"
	"peoplebot-go/internal/models"
	"peoplebot-go/internal/service"

	_ "github.com/mattn/go-sqlite3"
)

type stubTradeAPI struct {
	mu     sync.Mutex
	detail *models.OrderDetail
}

func (p *stubTradeAPI) ListWallets(ctx context.Context, accountType string) ([]models.ProviderWallet, error) {
	return nil, nil
}

func (p *stubTradeAPI) ImportWallet(ctx context.Context, accountType, privateKey string) error {
	return nil
}

func (p *stubTradeAPI) DeleteWallet(ctx context.Context, walletId string) error {
	return nil
}

func (p *stubTradeAPI) SubmitOrder(ctx context.Context, order models.OrderRequest) (string, error) {
	return "t1", nil
}

func (p *stubTradeAPI) GetOrder(ctx context.Context, orderId string) (*models.OrderDetail, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.detail, nil
}

func (p *stubTradeAPI) setDetail(detail *models.OrderDetail) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detail = detail
}

func TestEnrichmentListener_EnrichesPendingTrade(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()
	// Each in-memory sqlite connection is a separate empty database, so
	// pin the pool to one connection to share the schema with the
	// listener's goroutines.
	db.SetMaxOpenConns(1)

	dbService, err := database.NewServiceWithDB(db)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	stub := &stubTradeAPI{}
	svc := service.New(dbService, stub, stub, models.ProviderConfig{Chain: "eth", AccountType: "evm"})

	ctx := context.Background()

	// A pending trade whose settlement detail was not ready at submission.
	err = dbService.CreateTransaction(ctx, models.Transaction{
		TradeId:  "t1",
		WalletId: "w1",
		Pair:     "ETH/USDT",
		Type:     "buy",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	stub.setDetail(&models.OrderDetail{
		Id:         "t1",
		TxPriceUsd: "1850.25",
		SwapHash:   "0xhash",
		State:      "success",
	})

	l := NewEnrichmentListener(svc, models.EnricherConfig{
		PollingInterval: 10 * time.Millisecond,
		CleanupInterval: time.Minute,
		MaxPending:      10,
	})
	l.Start(ctx)
	defer l.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		tx, err := svc.TransactionByTradeId(ctx, "t1")
		if err != nil {
			t.Fatalf("TransactionByTradeId failed: %v", err)
		}
		if tx.Enriched() {
			if tx.State.String != "success" {
				t.Errorf("Expected state success, got %s", tx.State.String)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for listener to enrich the trade")
}

func TestEnrichmentListener_StopTerminates(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()

	dbService, err := database.NewServiceWithDB(db)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	stub := &stubTradeAPI{}
	svc := service.New(dbService, stub, stub, models.ProviderConfig{Chain: "eth", AccountType: "evm"})

	l := NewEnrichmentListener(svc, models.EnricherConfig{
		PollingInterval: 10 * time.Millisecond,
		CleanupInterval: time.Minute,
		MaxPending:      10,
	})
	l.Start(context.Background())

	done := make(chan struct{})
	go func() {
		l.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Stop did not return")
	}
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"peoplebot-go/internal/database"
	"peoplebot-go/internal/models"
	"peoplebot-go/internal/provider"

	_ "github.com/mattn/go-sqlite3"
)

// stubProvider implements WalletAPI and TradeAPI with canned responses.
// Guarded by a mutex because enrichment runs on a detached goroutine.
type stubProvider struct {
	mu sync.Mutex

	wallets   []models.ProviderWallet
	listErr   error
	importErr error
	deleteErr error

	submitId  string
	submitErr error
	detail    *models.OrderDetail
	detailErr error

	importedKeys []string
	deletedIds   []string
}

var (
	_ WalletAPI = (*stubProvider)(nil)
	_ TradeAPI  = (*stubProvider)(nil)
)

func (p *stubProvider) ListWallets(ctx context.Context, accountType string) ([]models.ProviderWallet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.wallets, nil
}

func (p *stubProvider) ImportWallet(ctx context.Context, accountType, privateKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.importErr != nil {
		return p.importErr
	}
	p.importedKeys = append(p.importedKeys, privateKey)
	return nil
}

func (p *stubProvider) DeleteWallet(ctx context.Context, walletId string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deletedIds = append(p.deletedIds, walletId)
	return nil
}

func (p *stubProvider) SubmitOrder(ctx context.Context, order models.OrderRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.submitErr != nil {
		return "", p.submitErr
	}
	return p.submitId, nil
}

func (p *stubProvider) GetOrder(ctx context.Context, orderId string) (*models.OrderDetail, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.detailErr != nil {
		return nil, p.detailErr
	}
	return p.detail, nil
}

func (p *stubProvider) setWallets(wallets []models.ProviderWallet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wallets = wallets
}

func (p *stubProvider) setDetail(detail *models.OrderDetail) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detail = detail
}

// chanNotifier records settlement notifications on a channel so tests
// can wait for the detached enrichment goroutine.
type chanNotifier struct {
	settled chan models.Transaction
}

func (n *chanNotifier) TradeSettled(userId string, tx models.Transaction) {
	n.settled <- tx
}

func newTestService(t *testing.T, p *stubProvider, opts ...Option) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	dbService, err := database.NewServiceWithDB(db)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cfg := models.ProviderConfig{Chain: "eth", AccountType: "evm"}
	svc := New(dbService, p, p, cfg, opts...)

	cleanup := func() {
		db.Close()
	}
	return svc, cleanup
}

func TestListWallets_AppliesDerivedNames(t *testing.T) {
	stub := &stubProvider{
		wallets: []models.ProviderWallet{
			{Id: "w1", Name: "Main", Type: "evm", Address: "0xaaa111"},
			{Id: "w2", Name: "", Type: "evm", Address: "0xabc123def"},
		},
	}
	svc, cleanup := newTestService(t, stub)
	defer cleanup()

	wallets, err := svc.ListWallets(context.Background(), "user1")
	if err != nil {
		t.Fatalf("ListWallets failed: %v", err)
	}
	if len(wallets) != 2 {
		t.Fatalf("Expected 2 wallets, got %d", len(wallets))
	}
	if wallets[0].Name != "Main" {
		t.Errorf("Expected provider name kept, got %s", wallets[0].Name)
	}
	if wallets[1].Name != "Wallet 0xabc1" {
		t.Errorf("Expected derived name 'Wallet 0xabc1', got %q", wallets[1].Name)
	}
}

func TestListWallets_ReplacesSnapshot(t *testing.T) {
	stub := &stubProvider{
		wallets: []models.ProviderWallet{
			{Id: "w1", Name: "Main", Type: "evm", Address: "0xaaa"},
			{Id: "w2", Name: "Side", Type: "evm", Address: "0xbbb"},
		},
	}
	svc, cleanup := newTestService(t, stub)
	defer cleanup()

	ctx := context.Background()

	if _, err := svc.ListWallets(ctx, "user1"); err != nil {
		t.Fatalf("First ListWallets failed: %v", err)
	}

	// Provider drops w2; the local snapshot must follow.
	stub.setWallets([]models.ProviderWallet{
		{Id: "w1", Name: "Main", Type: "evm", Address: "0xaaa"},
	})

	wallets, err := svc.ListWallets(ctx, "user1")
	if err != nil {
		t.Fatalf("Second ListWallets failed: %v", err)
	}
	if len(wallets) != 1 || wallets[0].Id != "w1" {
		t.Errorf("Expected snapshot reduced to w1, got %+v", wallets)
	}
}

func TestListWallets_ProviderUnavailable(t *testing.T) {
	stub := &stubProvider{listErr: provider.ErrUnavailable}
	svc, cleanup := newTestService(t, stub)
	defer cleanup()

	_, err := svc.ListWallets(context.Background(), "user1")
	if !errors.Is(err, provider.ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got: %v", err)
	}
}

func TestImportWallet_EmptyKey(t *testing.T) {
	stub := &stubProvider{}
	svc, cleanup := newTestService(t, stub)
	defer cleanup()

	_, err := svc.ImportWallet(context.Background(), "user1", "  ", "My Wallet")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got: %v", err)
	}
	if len(stub.importedKeys) != 0 {
		t.Errorf("Expected no provider call for empty key")
	}
}

func TestImportWallet_RefreshesAfterImport(t *testing.T) {
	stub := &stubProvider{
		wallets: []models.ProviderWallet{
			{Id: "w1", Name: "", Type: "evm", Address: "0xdeadbeef"},
		},
	}
	svc, cleanup := newTestService(t, stub)
	defer cleanup()

	wallets, err := svc.ImportWallet(context.Background(), "user1", "0xkey", "ignored")
	if err != nil {
		t.Fatalf("ImportWallet failed: %v", err)
	}
	if len(stub.importedKeys) != 1 || stub.importedKeys[0] != "0xkey" {
		t.Errorf("Expected key forwarded to provider, got %v", stub.importedKeys)
	}
	if len(wallets) != 1 || wallets[0].Id != "w1" {
		t.Errorf("Expected refreshed snapshot with w1, got %+v", wallets)
	}
}

func TestDeleteWallet_ProviderFailureLeavesSnapshot(t *testing.T) {
	stub := &stubProvider{
		wallets: []models.ProviderWallet{
			{Id: "w1", Name: "Main", Type: "evm", Address: "0xaaa"},
		},
	}
	svc, cleanup := newTestService(t, stub)
	defer cleanup()

	ctx := context.Background()

	if _, err := svc.ListWallets(ctx, "user1"); err != nil {
		t.Fatalf("ListWallets failed: %v", err)
	}

	stub.mu.Lock()
	stub.deleteErr = provider.ErrNotFound
	stub.mu.Unlock()

	_, err := svc.DeleteWallet(ctx, "user1", "no-such-wallet")
	if !errors.Is(err, provider.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got: %v", err)
	}

	// Failed delete must not touch the snapshot.
	snapshot, err := svc.store.GetWalletSnapshot(ctx, "user1")
	if err != nil {
		t.Fatalf("GetWalletSnapshot failed: %v", err)
	}
	if len(snapshot) != 1 || snapshot[0].Id != "w1" {
		t.Errorf("Expected snapshot unchanged after failed delete, got %+v", snapshot)
	}
}

func TestExecuteTrade_PersistsPendingRecord(t *testing.T) {
	stub := &stubProvider{submitId: "t1"}
	svc, cleanup := newTestService(t, stub)
	defer cleanup()

	ctx := context.Background()

	tradeId, err := svc.ExecuteTrade(ctx, ExecuteTradeParams{
		UserId:          "user1",
		WalletId:        "w1",
		Pair:            "ETH/USDT",
		Type:            "buy",
		AmountOrPercent: "0.5",
		MaxSlippage:     1,
	})
	if err != nil {
		t.Fatalf("ExecuteTrade failed: %v", err)
	}
	if tradeId != "t1" {
		t.Errorf("Expected trade id t1, got %s", tradeId)
	}

	// The pending record is persisted before ExecuteTrade returns.
	tx, err := svc.TransactionByTradeId(ctx, "t1")
	if err != nil {
		t.Fatalf("TransactionByTradeId failed: %v", err)
	}
	if tx.Enriched() {
		t.Errorf("Expected pending record, got enriched")
	}
	if tx.WalletId != "w1" || tx.Pair != "ETH/USDT" || tx.Type != "buy" {
		t.Errorf("Unexpected record fields: %+v", tx)
	}
}

func TestExecuteTrade_RejectedLeavesNoTrace(t *testing.T) {
	stub := &stubProvider{submitErr: provider.ErrTradeRejected}
	svc, cleanup := newTestService(t, stub)
	defer cleanup()

	ctx := context.Background()

	_, err := svc.ExecuteTrade(ctx, ExecuteTradeParams{
		UserId:          "user1",
		WalletId:        "w1",
		Pair:            "ETH/USDT",
		Type:            "sell",
		AmountOrPercent: "100%",
	})
	if !errors.Is(err, provider.ErrTradeRejected) {
		t.Fatalf("Expected ErrTradeRejected, got: %v", err)
	}

	pending, err := svc.PendingTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("PendingTransactions failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no records after rejected trade, got %d", len(pending))
	}
}

func TestExecuteTrade_InvalidType(t *testing.T) {
	stub := &stubProvider{submitId: "t1"}
	svc, cleanup := newTestService(t, stub)
	defer cleanup()

	_, err := svc.ExecuteTrade(context.Background(), ExecuteTradeParams{
		UserId:          "user1",
		WalletId:        "w1",
		Pair:            "ETH/USDT",
		Type:            "hold",
		AmountOrPercent: "1",
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for bad type, got: %v", err)
	}
}

func TestExecuteTrade_PairAllowlist(t *testing.T) {
	stub := &stubProvider{submitId: "t1"}
	svc, cleanup := newTestService(t, stub, WithPairAllowlist([]string{"ETH/USDT"}))
	defer cleanup()

	ctx := context.Background()

	_, err := svc.ExecuteTrade(ctx, ExecuteTradeParams{
		UserId:          "user1",
		WalletId:        "w1",
		Pair:            "DOGE/USDT",
		Type:            "buy",
		AmountOrPercent: "1",
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for disallowed pair, got: %v", err)
	}

	if _, err := svc.ExecuteTrade(ctx, ExecuteTradeParams{
		UserId:          "user1",
		WalletId:        "w1",
		Pair:            "ETH/USDT",
		Type:            "buy",
		AmountOrPercent: "1",
	}); err != nil {
		t.Errorf("Expected allowlisted pair to pass, got: %v", err)
	}
}

func TestExecuteTrade_NotifiesOnSettlement(t *testing.T) {
	stub := &stubProvider{
		submitId: "t1",
		detail: &models.OrderDetail{
			Id:         "t1",
			TxPriceUsd: "1850.25",
			SwapHash:   "0xhash",
			State:      "success",
		},
	}
	notifier := &chanNotifier{settled: make(chan models.Transaction, 1)}
	svc, cleanup := newTestService(t, stub, WithNotifier(notifier))
	defer cleanup()

	_, err := svc.ExecuteTrade(context.Background(), ExecuteTradeParams{
		UserId:          "user1",
		WalletId:        "w1",
		Pair:            "ETH/USDT",
		Type:            "buy",
		AmountOrPercent: "0.5",
		Notify:          true,
	})
	if err != nil {
		t.Fatalf("ExecuteTrade failed: %v", err)
	}

	select {
	case tx := <-notifier.settled:
		if tx.TradeId != "t1" {
			t.Errorf("Expected notification for t1, got %s", tx.TradeId)
		}
		if !tx.Enriched() {
			t.Errorf("Expected notification for enriched record")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Timed out waiting for settlement notification")
	}
}

func TestEnrichTransaction_Idempotent(t *testing.T) {
	stub := &stubProvider{submitId: "t1"}
	svc, cleanup := newTestService(t, stub)
	defer cleanup()

	ctx := context.Background()

	if _, err := svc.ExecuteTrade(ctx, ExecuteTradeParams{
		UserId:          "user1",
		WalletId:        "w1",
		Pair:            "ETH/USDT",
		Type:            "buy",
		AmountOrPercent: "0.5",
	}); err != nil {
		t.Fatalf("ExecuteTrade failed: %v", err)
	}

	stub.setDetail(&models.OrderDetail{
		Id:         "t1",
		TxPriceUsd: "1850.25",
		SwapHash:   "0xhash",
		State:      "success",
	})

	// Running enrichment twice must yield the same single enriched record.
	for i := 0; i < 2; i++ {
		if err := svc.EnrichTransaction(ctx, "t1"); err != nil {
			t.Fatalf("EnrichTransaction run %d failed: %v", i+1, err)
		}
	}

	txs, err := svc.ListTransactions(ctx, "w1")
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("Expected 1 record after repeated enrichment, got %d", len(txs))
	}
	if !txs[0].Enriched() {
		t.Errorf("Expected record enriched")
	}
	if txs[0].SwapHash.String != "0xhash" {
		t.Errorf("Expected swap hash 0xhash, got %s", txs[0].SwapHash.String)
	}
}

func TestEnrichTransaction_NoDetailIsNoOp(t *testing.T) {
	stub := &stubProvider{submitId: "t1"}
	svc, cleanup := newTestService(t, stub)
	defer cleanup()

	ctx := context.Background()

	if _, err := svc.ExecuteTrade(ctx, ExecuteTradeParams{
		UserId:          "user1",
		WalletId:        "w1",
		Pair:            "ETH/USDT",
		Type:            "buy",
		AmountOrPercent: "0.5",
	}); err != nil {
		t.Fatalf("ExecuteTrade failed: %v", err)
	}

	// Provider has no detail yet; enrichment succeeds without changes.
	if err := svc.EnrichTransaction(ctx, "t1"); err != nil {
		t.Fatalf("EnrichTransaction failed: %v", err)
	}

	tx, err := svc.TransactionByTradeId(ctx, "t1")
	if err != nil {
		t.Fatalf("TransactionByTradeId failed: %v", err)
	}
	if tx.Enriched() {
		t.Errorf("Expected record still pending with no provider detail")
	}
}

func TestListTransactions_EmptyWalletId(t *testing.T) {
	stub := &stubProvider{}
	svc, cleanup := newTestService(t, stub)
	defer cleanup()

	_, err := svc.ListTransactions(context.Background(), "")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got: %v", err)
	}
}

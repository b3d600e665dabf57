package database

import (
	"context"
	"testing"

	"peoplebot-go/internal/models"
)

func TestReplaceWalletSnapshot_OverwritesCompletely(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"

	first := []models.Wallet{
		{Id: "w1", Name: "Main", Type: "evm", Address: "0xaaa"},
		{Id: "w2", Name: "Side", Type: "evm", Address: "0xbbb"},
	}
	if err := service.ReplaceWalletSnapshot(ctx, userId, first); err != nil {
		t.Fatalf("First ReplaceWalletSnapshot failed: %v", err)
	}

	// Second snapshot drops w2 and renames w1; nothing from the first
	// snapshot may survive.
	second := []models.Wallet{
		{Id: "w1", Name: "Renamed", Type: "evm", Address: "0xaaa"},
		{Id: "w3", Name: "Fresh", Type: "evm", Address: "0xccc"},
	}
	if err := service.ReplaceWalletSnapshot(ctx, userId, second); err != nil {
		t.Fatalf("Second ReplaceWalletSnapshot failed: %v", err)
	}

	got, err := service.GetWalletSnapshot(ctx, userId)
	if err != nil {
		t.Fatalf("GetWalletSnapshot failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 wallets, got %d", len(got))
	}
	if got[0].Id != "w1" || got[0].Name != "Renamed" {
		t.Errorf("Expected first wallet w1/Renamed, got %s/%s", got[0].Id, got[0].Name)
	}
	if got[1].Id != "w3" {
		t.Errorf("Expected second wallet w3, got %s", got[1].Id)
	}
	for _, w := range got {
		if w.Id == "w2" {
			t.Errorf("Wallet w2 survived a snapshot replace")
		}
	}
}

func TestReplaceWalletSnapshot_EmptyClearsAll(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"

	initial := []models.Wallet{{Id: "w1", Name: "Main", Type: "evm", Address: "0xaaa"}}
	if err := service.ReplaceWalletSnapshot(ctx, userId, initial); err != nil {
		t.Fatalf("ReplaceWalletSnapshot failed: %v", err)
	}

	if err := service.ReplaceWalletSnapshot(ctx, userId, nil); err != nil {
		t.Fatalf("ReplaceWalletSnapshot with empty list failed: %v", err)
	}

	got, err := service.GetWalletSnapshot(ctx, userId)
	if err != nil {
		t.Fatalf("GetWalletSnapshot failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty snapshot, got %d wallets", len(got))
	}
}

func TestGetWalletSnapshot_PreservesOrder(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"

	wallets := []models.Wallet{
		{Id: "w3", Name: "Third", Type: "evm", Address: "0xccc"},
		{Id: "w1", Name: "First", Type: "evm", Address: "0xaaa"},
		{Id: "w2", Name: "Second", Type: "evm", Address: "0xbbb"},
	}
	if err := service.ReplaceWalletSnapshot(ctx, userId, wallets); err != nil {
		t.Fatalf("ReplaceWalletSnapshot failed: %v", err)
	}

	got, err := service.GetWalletSnapshot(ctx, userId)
	if err != nil {
		t.Fatalf("GetWalletSnapshot failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 wallets, got %d", len(got))
	}
	for i, w := range wallets {
		if got[i].Id != w.Id {
			t.Errorf("Expected wallet %s at position %d, got %s", w.Id, i, got[i].Id)
		}
	}
}

func TestGetWalletSnapshot_IsolatedPerUser(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	if err := service.ReplaceWalletSnapshot(ctx, "user1", []models.Wallet{{Id: "w1", Name: "A", Type: "evm", Address: "0xaaa"}}); err != nil {
		t.Fatalf("ReplaceWalletSnapshot for user1 failed: %v", err)
	}
	if err := service.ReplaceWalletSnapshot(ctx, "user2", []models.Wallet{{Id: "w2", Name: "B", Type: "evm", Address: "0xbbb"}}); err != nil {
		t.Fatalf("ReplaceWalletSnapshot for user2 failed: %v", err)
	}

	got, err := service.GetWalletSnapshot(ctx, "user1")
	if err != nil {
		t.Fatalf("GetWalletSnapshot failed: %v", err)
	}
	if len(got) != 1 || got[0].Id != "w1" {
		t.Errorf("Expected only w1 for user1, got %+v", got)
	}
}

package store

import (
	"testing"
)

// Compile-time checks that the interface is importable and usable.
func TestRecordStoreInterfaceExists(t *testing.T) {
	// This test simply validates that the RecordStore interface compiles
	// and the sentinel errors are accessible.
	_ = ErrNotFound
	_ = ErrDuplicateTrade
	_ = ErrDuplicateUser
	_ = TradeDetailParams{}

	// Ensure the interface is non-nil type.
	var _ RecordStore
}

package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/washpoint/backend/internal/domain/loyalty"
	"github.com/washpoint/backend/internal/domain/shared"
	"github.com/washpoint/backend/internal/infrastructure/persistence/models"
)

// GormWalletLedger implements loyalty.WalletLedger. The balance update, the
// ledger insert, and the outbox row for the movement event run in one database
// transaction: either all land or none does, and a lost version check rolls
// the insert back too.
type GormWalletLedger struct {
	db     *gorm.DB
	outbox shared.OutboxEventSaver
}

var _ loyalty.WalletLedger = (*GormWalletLedger)(nil)

// NewGormWalletLedger creates a ledger without outbox publication. Used by
// tests that only exercise the balance/entry atomicity.
func NewGormWalletLedger(db *gorm.DB) *GormWalletLedger {
	return &GormWalletLedger{db: db}
}

// NewGormWalletLedgerWithOutbox creates a ledger that also stores the movement
// event in the outbox within the same transaction.
func NewGormWalletLedgerWithOutbox(db *gorm.DB, outbox shared.OutboxEventSaver) *GormWalletLedger {
	return &GormWalletLedger{db: db, outbox: outbox}
}

// Append persists the wallet balance change, the ledger entry, and the
// movement event's outbox row atomically. Returns
// shared.ErrConcurrencyConflict when the wallet row no longer holds the
// version the caller loaded.
func (l *GormWalletLedger) Append(ctx context.Context, wallet *loyalty.Wallet, entry *loyalty.WalletTransaction) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveWalletWithLock(tx, wallet); err != nil {
			return err
		}

		model := models.WalletTransactionModelFromDomain(entry)
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		if l.outbox != nil {
			if event := loyalty.EventForEntry(entry); event != nil {
				return l.outbox.SaveEvents(ctx, tx, event)
			}
		}
		return nil
	})
}

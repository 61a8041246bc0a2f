// Package view holds the transient payer-session wrapper around a button
// record. Nothing here is persisted; a view is rebuilt from the record on
// every fetch and discarded on navigation.
package view

import (
	"math/big"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
)

// ButtonView wraps a record with payer-local state. The usage counter is
// split in two: ConfirmedUses comes from the store, PendingDelta counts
// confirmations observed in this session that the store has not reflected
// yet. CanPay is evaluated over their sum so a double-submit in the same
// session is rejected even while the persistence round-trip is in flight.
type ButtonView struct {
	Button *button.Button

	ConfirmedUses int
	PendingDelta  int

	// AmountDraft is the payer's editable-amount input, empty for the
	// configured amount.
	AmountDraft string
	Processing  bool
	LastTxHash  string
	// Balance is the payer's last observed balance in base units, nil until
	// first read.
	Balance *big.Int
}

// NewButtonView builds the transient wrapper from a freshly fetched record.
func NewButtonView(b *button.Button) *ButtonView {
	return &ButtonView{
		Button:        b,
		ConfirmedUses: b.CurrentUses(),
	}
}

// CanPay applies the lifecycle predicate over the optimistic counter sum.
func (v *ButtonView) CanPay() bool {
	if v.Button.IsArchived() {
		return false
	}
	return v.Button.Usage().Allows(v.ConfirmedUses + v.PendingDelta)
}

// RegisterPendingUse bumps the optimistic counter immediately after an
// on-chain confirmation, ahead of the store round-trip.
func (v *ButtonView) RegisterPendingUse(txHash string) {
	v.PendingDelta++
	v.LastTxHash = txHash
}

// Reconcile folds a freshly fetched record into the view. The persisted
// counter replaces the confirmed value and absorbs the pending delta; it is
// never overwritten downward by a stale local copy.
func (v *ButtonView) Reconcile(fresh *button.Button) {
	v.Button = fresh
	v.ConfirmedUses = fresh.CurrentUses()
	v.PendingDelta = 0
}

package usecases

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/wallet"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
)

func newPaymentUseCase(repo *fakeRepo, provider *fakeProvider) *ExecutePaymentUseCase {
	return NewExecutePaymentUseCase(repo, provider, 137, time.Minute, testLogger())
}

func TestExecutePayment_ConfirmedIncrementsUsage(t *testing.T) {
	repo := newFakeRepo()
	seedButton(t, repo, "Ab3xYz", buttonOpts{})
	provider := newFakeProvider()
	uc := newPaymentUseCase(repo, provider)

	result, err := uc.Execute(context.Background(), ExecutePaymentCommand{
		LinkID:       "Ab3xYz",
		PayerAddress: payerAddr,
	})

	require.NoError(t, err)
	assert.Equal(t, PaymentConfirmed, result.Status)
	assert.Equal(t, "0xabc123", result.TxHash)
	assert.Equal(t, "10", result.Amount)
	assert.Equal(t, "CNKT+", result.TokenSymbol)
	assert.Equal(t, []string{"Ab3xYz"}, repo.incremented)

	// 10 tokens at 18 decimals.
	require.Len(t, provider.sent, 1)
	want, _ := new(big.Int).SetString("10000000000000000000", 10)
	assert.Zero(t, provider.sent[0].AmountBaseUnits.Cmp(want))
}

func TestExecutePayment_SingleUseBecomesExhausted(t *testing.T) {
	repo := newFakeRepo()
	seedButton(t, repo, "Ab3xYz", buttonOpts{usageType: vo.UsageTypeSingleUse})
	provider := newFakeProvider()
	uc := newPaymentUseCase(repo, provider)

	first, err := uc.Execute(context.Background(), ExecutePaymentCommand{
		LinkID:       "Ab3xYz",
		PayerAddress: payerAddr,
	})
	require.NoError(t, err)
	assert.Equal(t, button.StateActiveExhausted, first.State)

	// The second attempt is rejected before anything reaches the provider.
	_, err = uc.Execute(context.Background(), ExecutePaymentCommand{
		LinkID:       "Ab3xYz",
		PayerAddress: payerAddr,
	})
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
	assert.Len(t, provider.sent, 1)
}

func TestExecutePayment_ArchivedButtonRejected(t *testing.T) {
	repo := newFakeRepo()
	b := seedButton(t, repo, "Ab3xYz", buttonOpts{})
	b.Archive()
	provider := newFakeProvider()
	uc := newPaymentUseCase(repo, provider)

	_, err := uc.Execute(context.Background(), ExecutePaymentCommand{
		LinkID:       "Ab3xYz",
		PayerAddress: payerAddr,
	})

	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
	assert.Empty(t, provider.sent)
}

func TestExecutePayment_WrongChainRejected(t *testing.T) {
	repo := newFakeRepo()
	seedButton(t, repo, "Ab3xYz", buttonOpts{})
	provider := newFakeProvider()
	provider.chainID = 1
	uc := newPaymentUseCase(repo, provider)

	_, err := uc.Execute(context.Background(), ExecutePaymentCommand{
		LinkID:       "Ab3xYz",
		PayerAddress: payerAddr,
	})

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Empty(t, provider.sent)
}

func TestExecutePayment_InsufficientBalance(t *testing.T) {
	repo := newFakeRepo()
	seedButton(t, repo, "Ab3xYz", buttonOpts{})
	provider := newFakeProvider()
	provider.balance = big.NewInt(1) // far below 10 tokens
	uc := newPaymentUseCase(repo, provider)

	_, err := uc.Execute(context.Background(), ExecutePaymentCommand{
		LinkID:       "Ab3xYz",
		PayerAddress: payerAddr,
	})

	require.Error(t, err)
	assert.True(t, errors.IsInsufficientBalanceError(err))
	assert.Empty(t, provider.sent)
}

func TestExecutePayment_CancelledIsNotAnError(t *testing.T) {
	repo := newFakeRepo()
	seedButton(t, repo, "Ab3xYz", buttonOpts{})
	provider := newFakeProvider()
	provider.sendErr = wallet.ErrCancelled
	uc := newPaymentUseCase(repo, provider)

	result, err := uc.Execute(context.Background(), ExecutePaymentCommand{
		LinkID:       "Ab3xYz",
		PayerAddress: payerAddr,
	})

	require.NoError(t, err)
	assert.Equal(t, PaymentCancelled, result.Status)
	assert.Empty(t, result.TxHash)
	assert.Empty(t, repo.incremented)
}

func TestExecutePayment_ConfirmationFailure(t *testing.T) {
	repo := newFakeRepo()
	seedButton(t, repo, "Ab3xYz", buttonOpts{})
	provider := newFakeProvider()
	provider.transfer = &fakeTransfer{hash: "0xdead", waitErr: context.DeadlineExceeded}
	uc := newPaymentUseCase(repo, provider)

	_, err := uc.Execute(context.Background(), ExecutePaymentCommand{
		LinkID:       "Ab3xYz",
		PayerAddress: payerAddr,
	})

	require.Error(t, err)
	assert.True(t, errors.IsTransactionFailedError(err))
	assert.Empty(t, repo.incremented)
}

func TestExecutePayment_AmountOverrides(t *testing.T) {
	tests := []struct {
		name       string
		opts       buttonOpts
		payer      string
		proposed   string
		wantAmount string
		wantErr    bool
	}{
		{
			name:       "editable accepts payer override",
			opts:       buttonOpts{paymentType: vo.PaymentTypeEditable},
			payer:      payerAddr,
			proposed:   "3.5",
			wantAmount: "3.5",
		},
		{
			name:       "fixed ignores stranger override",
			opts:       buttonOpts{},
			payer:      payerAddr,
			proposed:   "3.5",
			wantAmount: "10",
		},
		{
			name:       "fixed accepts owner override",
			opts:       buttonOpts{},
			payer:      ownerAddr,
			proposed:   "3.5",
			wantAmount: "3.5",
		},
		{
			name:     "zero override rejected",
			opts:     buttonOpts{paymentType: vo.PaymentTypeEditable},
			payer:    payerAddr,
			proposed: "0",
			wantErr:  true,
		},
		{
			name:     "negative override rejected even on fixed",
			opts:     buttonOpts{},
			payer:    payerAddr,
			proposed: "-1",
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			seedButton(t, repo, "Ab3xYz", tt.opts)
			provider := newFakeProvider()
			uc := newPaymentUseCase(repo, provider)

			result, err := uc.Execute(context.Background(), ExecutePaymentCommand{
				LinkID:         "Ab3xYz",
				PayerAddress:   tt.payer,
				ProposedAmount: tt.proposed,
			})

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidAmountError(err))
				assert.Empty(t, provider.sent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, result.Amount)
		})
	}
}

func TestExecutePayment_LongFormTracksNoUsage(t *testing.T) {
	repo := newFakeRepo()
	provider := newFakeProvider()
	uc := newPaymentUseCase(repo, provider)

	result, err := uc.Execute(context.Background(), ExecutePaymentCommand{
		Recipient:    ownerAddr,
		Token:        tokenAddr,
		Amount:       "2",
		PayerAddress: payerAddr,
	})

	require.NoError(t, err)
	assert.Equal(t, PaymentConfirmed, result.Status)
	assert.Empty(t, result.State)
	assert.Empty(t, repo.incremented)
}

func TestExecutePayment_NativeTokenSkipsMetadata(t *testing.T) {
	repo := newFakeRepo()
	provider := newFakeProvider()
	uc := newPaymentUseCase(repo, provider)

	result, err := uc.Execute(context.Background(), ExecutePaymentCommand{
		Recipient:    ownerAddr,
		Token:        vo.NativeTokenAddress,
		Amount:       "0.5",
		PayerAddress: payerAddr,
	})

	require.NoError(t, err)
	assert.Equal(t, "POL", result.TokenSymbol)
	require.Len(t, provider.sent, 1)
	// 0.5 native at the fixed 18 decimals.
	want, _ := new(big.Int).SetString("500000000000000000", 10)
	assert.Zero(t, provider.sent[0].AmountBaseUnits.Cmp(want))
}

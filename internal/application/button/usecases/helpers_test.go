package usecases

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/wallet"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/query"
)

const (
	ownerAddr = "0x1111111111111111111111111111111111111abc"
	payerAddr = "0x2222222222222222222222222222222222222222"
	tokenAddr = "0x87bdfbe98ba55104701b2f2e999982a317905637"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeRepo is an in-memory button.Repository for use case tests.
type fakeRepo struct {
	buttons map[string]*button.Button

	// getErr and insertErr, when set, override the in-memory behavior.
	getErr    error
	insertErr error

	inserted    []string
	incremented []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{buttons: map[string]*button.Button{}}
}

func (r *fakeRepo) Insert(_ context.Context, b *button.Button) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, exists := r.buttons[b.ID()]; exists {
		return errors.NewConflictError("duplicate id")
	}
	r.buttons[b.ID()] = b
	r.inserted = append(r.inserted, b.ID())
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*button.Button, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	b, ok := r.buttons[id]
	if !ok {
		return nil, errors.NewNotFoundError("button not found")
	}
	return b, nil
}

func (r *fakeRepo) Update(_ context.Context, b *button.Button, _ string) error {
	r.buttons[b.ID()] = b
	return nil
}

func (r *fakeRepo) Archive(_ context.Context, id, _ string) error {
	b, ok := r.buttons[id]
	if !ok {
		return errors.NewNotFoundError("button not found")
	}
	b.Archive()
	return nil
}

func (r *fakeRepo) Unarchive(_ context.Context, id, _ string) error {
	b, ok := r.buttons[id]
	if !ok {
		return errors.NewNotFoundError("button not found")
	}
	b.Unarchive()
	return nil
}

func (r *fakeRepo) HardDelete(_ context.Context, id, _ string) error {
	if _, ok := r.buttons[id]; !ok {
		return errors.NewNotFoundError("button not found")
	}
	delete(r.buttons, id)
	return nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, owner string, filter query.ListFilter) ([]*button.Button, int64, error) {
	var out []*button.Button
	for _, b := range r.buttons {
		if b.IsArchived() == filter.Archived {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) IncrementUsage(_ context.Context, id string) error {
	b, ok := r.buttons[id]
	if !ok {
		return errors.NewNotFoundError("button not found")
	}
	b.RecordUse()
	r.incremented = append(r.incremented, id)
	return nil
}

type buttonOpts struct {
	paymentType vo.PaymentType
	usageType   vo.UsageType
	maxUses     int
}

func seedButton(t *testing.T, repo *fakeRepo, id string, opts buttonOpts) *button.Button {
	t.Helper()

	recipient, err := vo.NewAddress(ownerAddr)
	require.NoError(t, err)
	amount, err := vo.NewAmount("10")
	require.NoError(t, err)
	token, err := vo.NewAddress(tokenAddr)
	require.NoError(t, err)
	if opts.paymentType == "" {
		opts.paymentType = vo.PaymentTypeFixed
	}
	if opts.usageType == "" {
		opts.usageType = vo.UsageTypeUnlimited
	}
	usage, err := vo.NewUsagePolicy(opts.usageType, opts.maxUses)
	require.NoError(t, err)
	color, err := vo.NewButtonColor("")
	require.NoError(t, err)

	b, err := button.NewButton(button.NewButtonParams{
		ID:          id,
		Recipient:   recipient,
		Amount:      amount,
		Token:       token,
		PaymentType: opts.paymentType,
		Usage:       usage,
		ItemName:    "Test item",
		ButtonColor: color,
	})
	require.NoError(t, err)
	repo.buttons[id] = b
	return b
}

// fakeTransfer is a pre-decided pending transfer.
type fakeTransfer struct {
	hash    string
	waitErr error
}

func (p *fakeTransfer) Hash() string                 { return p.hash }
func (p *fakeTransfer) Wait(_ context.Context) error { return p.waitErr }

// fakeProvider is a scripted wallet.Provider.
type fakeProvider struct {
	chainID    uint64
	chainIDErr error

	balance  *big.Int
	metadata wallet.TokenMetadata

	sendErr  error
	transfer *fakeTransfer
	sent     []wallet.TransferRequest
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		chainID:  137,
		balance:  big.NewInt(0).Mul(big.NewInt(1_000_000), big.NewInt(1_000_000_000_000_000_000)),
		metadata: wallet.TokenMetadata{Symbol: "CNKT+", Name: "Conekta Plus", Decimals: 18},
		transfer: &fakeTransfer{hash: "0xabc123"},
	}
}

func (p *fakeProvider) ChainID(_ context.Context) (uint64, error) {
	return p.chainID, p.chainIDErr
}

func (p *fakeProvider) BalanceOf(_ context.Context, _, _ vo.Address) (*big.Int, error) {
	return new(big.Int).Set(p.balance), nil
}

func (p *fakeProvider) TokenMetadata(_ context.Context, _ vo.Address) (wallet.TokenMetadata, error) {
	return p.metadata, nil
}

func (p *fakeProvider) SendTransfer(_ context.Context, req wallet.TransferRequest) (wallet.PendingTransfer, error) {
	if p.sendErr != nil {
		return nil, p.sendErr
	}
	p.sent = append(p.sent, req)
	return p.transfer, nil
}

package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/wallet"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

// PaymentStatus is the terminal outcome of a payment attempt that did not
// error out.
type PaymentStatus string

const (
	PaymentConfirmed PaymentStatus = "confirmed"
	// PaymentCancelled: the payer rejected the wallet prompt. Nothing was
	// submitted on-chain and no usage is recorded.
	PaymentCancelled PaymentStatus = "cancelled"
)

// ExecutePaymentCommand describes one payment attempt. LinkID selects a
// stored button; when empty, the recipient, token and amount of a long-form
// link must be provided and no usage is tracked.
type ExecutePaymentCommand struct {
	LinkID string

	Recipient string
	Token     string
	Amount    string

	PayerAddress string
	// ProposedAmount is the payer's override, empty for the configured amount.
	ProposedAmount string
}

type ExecutePaymentResult struct {
	Status PaymentStatus
	TxHash string
	// Amount is the decimal amount actually sent.
	Amount      string
	TokenSymbol string
	// State is the button's lifecycle state after the payment; empty for
	// long-form payments.
	State button.State
}

// ExecutePaymentUseCase runs the full payment pipeline: eligibility gate,
// amount resolution, network guard, balance pre-check, transfer submission,
// confirmation wait and usage recording.
type ExecutePaymentUseCase struct {
	repo           button.Repository
	provider       wallet.Provider
	chainID        uint64
	confirmTimeout time.Duration
	logger         logger.Interface
}

func NewExecutePaymentUseCase(
	repo button.Repository,
	provider wallet.Provider,
	chainID uint64,
	confirmTimeout time.Duration,
	logger logger.Interface,
) *ExecutePaymentUseCase {
	return &ExecutePaymentUseCase{
		repo:           repo,
		provider:       provider,
		chainID:        chainID,
		confirmTimeout: confirmTimeout,
		logger:         logger,
	}
}

func (uc *ExecutePaymentUseCase) Execute(ctx context.Context, cmd ExecutePaymentCommand) (*ExecutePaymentResult, error) {
	payer, err := vo.NewAddress(cmd.PayerAddress)
	if err != nil {
		return nil, errors.NewValidationError("invalid payer address", err.Error())
	}

	var b *button.Button
	if cmd.LinkID != "" {
		b, err = uc.repo.GetByID(ctx, cmd.LinkID)
		if err != nil {
			return nil, err
		}
		if !b.CanPay() {
			return nil, errors.NewConflictError("button no longer accepts payments",
				string(b.State()))
		}
	}

	recipient, token, amount, err := uc.resolveTarget(b, payer, cmd)
	if err != nil {
		return nil, err
	}

	if err := uc.guardChain(ctx); err != nil {
		return nil, err
	}

	decimals, symbol, err := uc.tokenInfo(ctx, token)
	if err != nil {
		return nil, errors.NewTransactionFailedError("failed to read token metadata", err.Error())
	}

	baseUnits, err := amount.ToBaseUnits(decimals)
	if err != nil {
		return nil, errors.NewInvalidAmountError("amount does not fit token precision", err.Error())
	}

	balance, err := uc.provider.BalanceOf(ctx, payer, token)
	if err != nil {
		return nil, errors.NewTransactionFailedError("failed to read balance", err.Error())
	}
	if balance.Cmp(baseUnits) < 0 {
		return nil, errors.NewInsufficientBalanceError(
			fmt.Sprintf("insufficient %s balance", symbol),
			fmt.Sprintf("have %s, need %s base units", balance.String(), baseUnits.String()))
	}

	pending, err := uc.provider.SendTransfer(ctx, wallet.TransferRequest{
		Token:           token,
		To:              recipient,
		AmountBaseUnits: baseUnits,
	})
	if err != nil {
		if errors.Is(err, wallet.ErrCancelled) {
			return &ExecutePaymentResult{Status: PaymentCancelled}, nil
		}
		return nil, errors.NewTransactionFailedError("transfer submission failed", err.Error())
	}

	txHash := pending.Hash()
	uc.logger.Infow("transfer submitted, awaiting confirmation",
		"tx_hash", txHash,
		"token", token.String(),
		"amount", amount.String(),
	)

	waitCtx := ctx
	if uc.confirmTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, uc.confirmTimeout)
		defer cancel()
	}
	if err := pending.Wait(waitCtx); err != nil {
		return nil, errors.NewTransactionFailedError("transaction did not confirm", err.Error())
	}

	result := &ExecutePaymentResult{
		Status:      PaymentConfirmed,
		TxHash:      txHash,
		Amount:      amount.String(),
		TokenSymbol: symbol,
	}

	if b != nil {
		// The transfer is already final on-chain; a store failure here must
		// not turn a confirmed payment into an error.
		if err := uc.repo.IncrementUsage(ctx, b.ID()); err != nil {
			uc.logger.Warnw("payment confirmed but usage increment failed",
				"button_id", b.ID(),
				"tx_hash", txHash,
				"error", err,
			)
		}
		b.RecordUse()
		result.State = b.State()
	}

	return result, nil
}

// resolveTarget determines recipient, token and amount for the attempt, from
// the stored record or the long-form fields.
func (uc *ExecutePaymentUseCase) resolveTarget(
	b *button.Button,
	payer vo.Address,
	cmd ExecutePaymentCommand,
) (vo.Address, vo.Address, vo.Amount, error) {
	if b != nil {
		amount, err := b.AmountFor(payer, cmd.ProposedAmount)
		if err != nil {
			return vo.Address{}, vo.Address{}, vo.Amount{}, errors.NewInvalidAmountError("invalid amount", err.Error())
		}
		return b.Recipient(), b.Token(), amount, nil
	}

	recipient, err := vo.NewAddress(cmd.Recipient)
	if err != nil {
		return vo.Address{}, vo.Address{}, vo.Amount{}, errors.NewValidationError("invalid recipient address", err.Error())
	}
	token, err := vo.NewAddress(cmd.Token)
	if err != nil {
		return vo.Address{}, vo.Address{}, vo.Amount{}, errors.NewValidationError("invalid token address", err.Error())
	}

	raw := cmd.Amount
	if cmd.ProposedAmount != "" {
		raw = cmd.ProposedAmount
	}
	amount, err := vo.NewAmount(raw)
	if err != nil {
		return vo.Address{}, vo.Address{}, vo.Amount{}, errors.NewInvalidAmountError("invalid amount", err.Error())
	}
	return recipient, token, amount, nil
}

// guardChain refuses to submit against the wrong network.
func (uc *ExecutePaymentUseCase) guardChain(ctx context.Context) error {
	chainID, err := uc.provider.ChainID(ctx)
	if err != nil {
		return errors.NewUnavailableError("wallet provider unreachable", err.Error())
	}
	if chainID != uc.chainID {
		return errors.NewValidationError(
			fmt.Sprintf("wrong network: connected to chain %d, expected %d", chainID, uc.chainID))
	}
	return nil
}

// tokenInfo resolves decimals and symbol. The native sentinel has a fixed
// convention and never triggers a contract read.
func (uc *ExecutePaymentUseCase) tokenInfo(ctx context.Context, token vo.Address) (uint8, string, error) {
	if token.IsNative() {
		return wallet.NativeDecimals, "POL", nil
	}
	meta, err := uc.provider.TokenMetadata(ctx, token)
	if err != nil {
		return 0, "", err
	}
	return meta.Decimals, meta.Symbol, nil
}

// Package wallet defines the port to the payer's wallet/provider capability.
// Implementations live in infrastructure; the application layer only sees
// this interface.
package wallet

import (
	"context"
	"errors"
	"math/big"

	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
)

// NativeDecimals is the fixed decimal convention for the native asset. The
// sentinel token never gets a contract call for its decimals.
const NativeDecimals uint8 = 18

// ErrCancelled is returned by a provider when the user rejects the wallet
// prompt. It is a distinct outcome, not a failure.
var ErrCancelled = errors.New("transfer cancelled by user")

// TokenMetadata mirrors the ERC-20 descriptive surface.
type TokenMetadata struct {
	Symbol   string
	Name     string
	Decimals uint8
}

// TransferRequest describes one token or native-asset transfer.
type TransferRequest struct {
	// Token is the contract address, or the native sentinel for a plain
	// value transfer.
	Token vo.Address
	To    vo.Address
	// AmountBaseUnits is the transfer amount in the token's base units.
	AmountBaseUnits *big.Int
}

// PendingTransfer is a submitted transaction. The hash is available
// immediately; Wait blocks until the transaction confirms or fails.
type PendingTransfer interface {
	Hash() string
	Wait(ctx context.Context) error
}

// Provider is the wallet/provider boundary: chain identity, balance reads,
// token metadata, and transfer submission.
type Provider interface {
	ChainID(ctx context.Context) (uint64, error)
	BalanceOf(ctx context.Context, account, token vo.Address) (*big.Int, error)
	TokenMetadata(ctx context.Context, token vo.Address) (TokenMetadata, error)
	SendTransfer(ctx context.Context, req TransferRequest) (PendingTransfer, error)
}

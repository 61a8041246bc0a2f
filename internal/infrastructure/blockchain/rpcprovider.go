// Package blockchain implements the wallet provider against an EVM JSON-RPC
// endpoint.
package blockchain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/wallet"
	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/config"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

// ERC-20 function selectors.
const (
	selBalanceOf = "0x70a08231"
	selTransfer  = "0xa9059cbb"
	selDecimals  = "0x313ce567"
	selSymbol    = "0x95d89b41"
	selName      = "0x06fdde03"
)

const (
	receiptPollInterval = 3 * time.Second
	// erc20TransferGasCap covers every standard token transfer with headroom;
	// used only when gas estimation fails.
	erc20TransferGasCap = 100_000
	nativeTransferGas   = 21_000
)

// RPCProvider talks to an EVM JSON-RPC endpoint. Reads work without a key;
// SendTransfer requires the configured paying wallet.
type RPCProvider struct {
	client  *rpcClient
	signer  *signer
	catalog map[string]wallet.TokenMetadata
	logger  logger.Interface
}

func NewRPCProvider(cfg *config.ChainConfig, logger logger.Interface) (*RPCProvider, error) {
	p := &RPCProvider{
		client:  newRPCClient(cfg.RPCURL),
		catalog: make(map[string]wallet.TokenMetadata),
		logger:  logger,
	}

	// The token catalog doubles as a metadata cache for the tokens the
	// generator offers, saving three contract reads per payment.
	for _, t := range cfg.Tokens {
		p.catalog[strings.ToLower(t.Address)] = wallet.TokenMetadata{
			Symbol:   t.Symbol,
			Name:     t.Name,
			Decimals: t.Decimals,
		}
	}

	if cfg.PrivateKey != "" {
		s, err := newSigner(cfg.PrivateKey, cfg.ChainID)
		if err != nil {
			return nil, fmt.Errorf("failed to load paying wallet key: %w", err)
		}
		p.signer = s
		logger.Infow("paying wallet loaded", "address", s.Address())
	}

	return p, nil
}

// PayerAddress returns the paying wallet address, empty when payments are
// disabled.
func (p *RPCProvider) PayerAddress() string {
	if p.signer == nil {
		return ""
	}
	return p.signer.Address()
}

func (p *RPCProvider) ChainID(ctx context.Context) (uint64, error) {
	s, err := p.client.callString(ctx, "eth_chainId")
	if err != nil {
		return 0, err
	}
	n, err := hexToBig(s)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

func (p *RPCProvider) BalanceOf(ctx context.Context, account, token vo.Address) (*big.Int, error) {
	if token.IsNative() {
		s, err := p.client.callString(ctx, "eth_getBalance", account.String(), "latest")
		if err != nil {
			return nil, err
		}
		return hexToBig(s)
	}

	result, err := p.ethCall(ctx, token.String(), selBalanceOf+padAddress(account.String()))
	if err != nil {
		return nil, err
	}
	return hexToBig(result)
}

func (p *RPCProvider) TokenMetadata(ctx context.Context, token vo.Address) (wallet.TokenMetadata, error) {
	if meta, ok := p.catalog[token.String()]; ok {
		return meta, nil
	}

	decRaw, err := p.ethCall(ctx, token.String(), selDecimals)
	if err != nil {
		return wallet.TokenMetadata{}, fmt.Errorf("failed to read decimals: %w", err)
	}
	dec, err := hexToBig(decRaw)
	if err != nil {
		return wallet.TokenMetadata{}, fmt.Errorf("failed to parse decimals: %w", err)
	}

	meta := wallet.TokenMetadata{Decimals: uint8(dec.Uint64())}

	// Symbol and name are descriptive only; a token that does not implement
	// them still works.
	if raw, err := p.ethCall(ctx, token.String(), selSymbol); err == nil {
		meta.Symbol = decodeABIString(raw)
	}
	if raw, err := p.ethCall(ctx, token.String(), selName); err == nil {
		meta.Name = decodeABIString(raw)
	}

	return meta, nil
}

func (p *RPCProvider) SendTransfer(ctx context.Context, req wallet.TransferRequest) (wallet.PendingTransfer, error) {
	if p.signer == nil {
		return nil, fmt.Errorf("payments disabled: no paying wallet configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, wallet.ErrCancelled
	}

	tx, err := p.buildTransfer(ctx, req)
	if err != nil {
		return nil, err
	}

	raw, err := p.signer.SignTx(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	hash, err := p.client.callString(ctx, "eth_sendRawTransaction", "0x"+hex.EncodeToString(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to submit transaction: %w", err)
	}

	p.logger.Infow("transaction submitted",
		"tx_hash", hash,
		"to", req.To.String(),
		"token", req.Token.String(),
	)

	return &pendingTransfer{client: p.client, hash: hash, pollInterval: receiptPollInterval}, nil
}

func (p *RPCProvider) buildTransfer(ctx context.Context, req wallet.TransferRequest) (*legacyTx, error) {
	from := p.signer.Address()

	nonceHex, err := p.client.callString(ctx, "eth_getTransactionCount", from, "pending")
	if err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}
	nonce, err := hexToBig(nonceHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse nonce: %w", err)
	}

	gasPriceHex, err := p.client.callString(ctx, "eth_gasPrice")
	if err != nil {
		return nil, fmt.Errorf("failed to read gas price: %w", err)
	}
	gasPrice, err := hexToBig(gasPriceHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gas price: %w", err)
	}

	tx := &legacyTx{
		Nonce:    nonce.Uint64(),
		GasPrice: gasPrice,
	}

	if req.Token.IsNative() {
		tx.To = mustAddressBytes(req.To.String())
		tx.Value = req.AmountBaseUnits
		tx.Gas = nativeTransferGas
		return tx, nil
	}

	data := selTransfer + padAddress(req.To.String()) + padAmount(req.AmountBaseUnits)
	tx.To = mustAddressBytes(req.Token.String())
	tx.Value = big.NewInt(0)
	tx.Data = mustHexBytes(data)
	tx.Gas = p.estimateGas(ctx, from, req.Token.String(), data)
	return tx, nil
}

func (p *RPCProvider) estimateGas(ctx context.Context, from, to, data string) uint64 {
	result, err := p.client.callString(ctx, "eth_estimateGas", map[string]string{
		"from": from,
		"to":   to,
		"data": data,
	})
	if err != nil {
		p.logger.Warnw("gas estimation failed, using cap", "error", err)
		return erc20TransferGasCap
	}
	gas, err := hexToBig(result)
	if err != nil {
		return erc20TransferGasCap
	}
	// Headroom for tokens whose transfer cost varies with storage state.
	return gas.Uint64() + gas.Uint64()/5
}

func (p *RPCProvider) ethCall(ctx context.Context, to, data string) (string, error) {
	return p.client.callString(ctx, "eth_call", map[string]string{
		"to":   to,
		"data": data,
	}, "latest")
}

// pendingTransfer polls for the transaction receipt.
type pendingTransfer struct {
	client       *rpcClient
	hash         string
	pollInterval time.Duration
}

func (t *pendingTransfer) Hash() string {
	return t.hash
}

// maxConsecutivePollErrors bounds how many receipt polls in a row may fail
// before Wait gives up. The transaction is already submitted at this point,
// so a transient RPC hiccup must not be reported as a failed transfer.
const maxConsecutivePollErrors = 3

func (t *pendingTransfer) Wait(ctx context.Context) error {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	pollErrors := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		raw, err := t.client.call(ctx, "eth_getTransactionReceipt", t.hash)
		if err != nil {
			pollErrors++
			if pollErrors >= maxConsecutivePollErrors {
				return fmt.Errorf("receipt polling failed %d times: %w", pollErrors, err)
			}
			continue
		}
		pollErrors = 0
		if string(raw) == "null" {
			continue // not mined yet
		}

		var receipt struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(raw, &receipt); err != nil {
			return fmt.Errorf("failed to decode receipt: %w", err)
		}
		if receipt.Status == "0x1" {
			return nil
		}
		return fmt.Errorf("transaction %s reverted", t.hash)
	}
}

// padAddress left-pads an address to a 32-byte ABI word, without the 0x.
func padAddress(addr string) string {
	return strings.Repeat("0", 24) + strings.TrimPrefix(strings.ToLower(addr), "0x")
}

// padAmount renders a uint256 ABI word, without the 0x.
func padAmount(n *big.Int) string {
	s := n.Text(16)
	return strings.Repeat("0", 64-len(s)) + s
}

func mustAddressBytes(addr string) []byte {
	b, err := hex.DecodeString(strings.TrimPrefix(addr, "0x"))
	if err != nil {
		panic(fmt.Sprintf("address validated upstream is not hex: %q", addr))
	}
	return b
}

func mustHexBytes(data string) []byte {
	b, err := hex.DecodeString(strings.TrimPrefix(data, "0x"))
	if err != nil {
		panic(fmt.Sprintf("calldata is not hex: %q", data))
	}
	return b
}

// decodeABIString handles both the dynamic string encoding and the legacy
// bytes32 form some old tokens use.
func decodeABIString(result string) string {
	raw, err := hex.DecodeString(strings.TrimPrefix(result, "0x"))
	if err != nil || len(raw) == 0 {
		return ""
	}

	if len(raw) == 32 {
		// bytes32: right-padded with NULs
		return string(trimRightZeros(raw))
	}
	if len(raw) < 64 {
		return ""
	}

	// Contract output is untrusted; compare before adding so a crafted
	// offset or length near 2^64 cannot wrap the guard.
	size := uint64(len(raw))
	offset := new(big.Int).SetBytes(raw[:32]).Uint64()
	if offset > size-32 {
		return ""
	}
	length := new(big.Int).SetBytes(raw[offset : offset+32]).Uint64()
	if length > size-offset-32 {
		return ""
	}
	return string(raw[offset+32 : offset+32+length])
}

func trimRightZeros(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}

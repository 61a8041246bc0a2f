package blockchain

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

// signer holds the paying wallet's key and produces EIP-155 signed legacy
// transactions.
type signer struct {
	key     *secp256k1.PrivateKey
	address string
	chainID *big.Int
}

func newSigner(privateKeyHex string, chainID uint64) (*signer, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(raw))
	}
	key := secp256k1.PrivKeyFromBytes(raw)

	return &signer{
		key:     key,
		address: pubkeyToAddress(key.PubKey()),
		chainID: new(big.Int).SetUint64(chainID),
	}, nil
}

// Address returns the lowercase 0x address derived from the key.
func (s *signer) Address() string {
	return s.address
}

// legacyTx is the pre-EIP-1559 transaction shape. Every public Polygon RPC
// still accepts it, and it keeps the signing path free of typed-envelope
// handling.
type legacyTx struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       []byte // 20 bytes, nil for contract creation
	Value    *big.Int
	Data     []byte
}

// SignTx signs the transaction per EIP-155 and returns the raw RLP payload
// for eth_sendRawTransaction.
func (s *signer) SignTx(tx *legacyTx) ([]byte, error) {
	sighash := keccak256(rlpList(
		rlpUint(tx.Nonce),
		rlpBig(tx.GasPrice),
		rlpUint(tx.Gas),
		rlpBytes(tx.To),
		rlpBig(tx.Value),
		rlpBytes(tx.Data),
		rlpBig(s.chainID),
		rlpUint(0),
		rlpUint(0),
	))

	// SignCompact prepends a header byte encoding the recovery id.
	compact := secpecdsa.SignCompact(s.key, sighash, false)
	recID := int64(compact[0]) - 27
	r := new(big.Int).SetBytes(compact[1:33])
	sv := new(big.Int).SetBytes(compact[33:65])

	// EIP-155: v = recovery_id + chain_id*2 + 35
	v := new(big.Int).Mul(s.chainID, big.NewInt(2))
	v.Add(v, big.NewInt(35+recID))

	return rlpList(
		rlpUint(tx.Nonce),
		rlpBig(tx.GasPrice),
		rlpUint(tx.Gas),
		rlpBytes(tx.To),
		rlpBig(tx.Value),
		rlpBytes(tx.Data),
		rlpBig(v),
		rlpBig(r),
		rlpBig(sv),
	), nil
}

func pubkeyToAddress(pub *secp256k1.PublicKey) string {
	// Keccak over the uncompressed point without the 0x04 prefix; the
	// address is the last 20 bytes.
	uncompressed := pub.SerializeUncompressed()
	hash := keccak256(uncompressed[1:])
	return "0x" + hex.EncodeToString(hash[12:])
}

func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// RLP encoding, limited to the byte-string and list forms a legacy
// transaction needs.

func rlpBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	return append(rlpLength(len(b), 0x80), b...)
}

func rlpUint(n uint64) []byte {
	return rlpBig(new(big.Int).SetUint64(n))
}

func rlpBig(n *big.Int) []byte {
	if n == nil || n.Sign() == 0 {
		return []byte{0x80}
	}
	return rlpBytes(n.Bytes())
}

func rlpList(items ...[]byte) []byte {
	var payload []byte
	for _, item := range items {
		payload = append(payload, item...)
	}
	return append(rlpLength(len(payload), 0xc0), payload...)
}

func rlpLength(length int, offset byte) []byte {
	if length < 56 {
		return []byte{offset + byte(length)}
	}
	var lenBytes []byte
	for l := length; l > 0; l >>= 8 {
		lenBytes = append([]byte{byte(l)}, lenBytes...)
	}
	out := []byte{offset + 55 + byte(len(lenBytes))}
	return append(out, lenBytes...)
}

package blockchain

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerAddressDerivation(t *testing.T) {
	// Key and address pair from the EIP-155 reference example.
	s, err := newSigner("0x4646464646464646464646464646464646464646464646464646464646464646", 1)
	require.NoError(t, err)
	assert.Equal(t, "0x9d8a62f656a8d1615c1294fd71e9cfb3e4855a4f", s.Address())
}

func TestSigner_RejectsBadKeys(t *testing.T) {
	_, err := newSigner("not-hex", 137)
	assert.Error(t, err)

	_, err = newSigner("0xdeadbeef", 137)
	assert.Error(t, err)
}

func TestLegacyTxSigningPayload(t *testing.T) {
	// The unsigned RLP payload from the EIP-155 reference example.
	gasPrice, _ := new(big.Int).SetString("20000000000", 10)
	value, _ := new(big.Int).SetString("1000000000000000000", 10)
	to, _ := hex.DecodeString("3535353535353535353535353535353535353535")

	payload := rlpList(
		rlpUint(9),
		rlpBig(gasPrice),
		rlpUint(21000),
		rlpBytes(to),
		rlpBig(value),
		rlpBytes(nil),
		rlpBig(big.NewInt(1)),
		rlpUint(0),
		rlpUint(0),
	)

	assert.Equal(t,
		"ec098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a764000080018080",
		hex.EncodeToString(payload))
}

func TestRLPEncoding(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want string
	}{
		{"empty string", rlpBytes(nil), "80"},
		{"single low byte", rlpBytes([]byte{0x7f}), "7f"},
		{"single high byte", rlpBytes([]byte{0x80}), "8180"},
		{"zero uint", rlpUint(0), "80"},
		{"small uint", rlpUint(15), "0f"},
		{"multi-byte uint", rlpUint(1024), "820400"},
		{"empty list", rlpList(), "c0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hex.EncodeToString(tt.got))
		})
	}
}

func TestDecodeABIStringBasicCases(t *testing.T) {
	// "USDC" in the dynamic string encoding.
	dynamic := "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"5553444300000000000000000000000000000000000000000000000000000000"
	assert.Equal(t, "USDC", decodeABIString(dynamic))

	// Legacy bytes32 form.
	bytes32 := "0x4d4b520000000000000000000000000000000000000000000000000000000000"
	assert.Equal(t, "MKR", decodeABIString(bytes32))

	assert.Equal(t, "", decodeABIString("0x"))
	assert.Equal(t, "", decodeABIString("not-hex"))
}

func TestABIWordPadding(t *testing.T) {
	assert.Equal(t,
		"0000000000000000000000003535353535353535353535353535353535353535",
		padAddress("0x3535353535353535353535353535353535353535"))

	assert.Len(t, padAmount(big.NewInt(1)), 64)
	assert.Equal(t, "1", padAmount(big.NewInt(1))[63:])
}

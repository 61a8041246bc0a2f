package auth

import (
	"encoding/hex"
	"fmt"
	"strings"

	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

// personalMessageDigest hashes a message the way wallets do for
// personal_sign (EIP-191): a fixed prefix plus the message length, then
// keccak256.
func personalMessageDigest(message string) []byte {
	h := sha3.NewLegacyKeccak256()
	fmt.Fprintf(h, "\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return h.Sum(nil)
}

// RecoverSigner returns the lowercase address that produced the given
// personal_sign signature over message. The signature is the 65-byte
// r||s||v form wallets emit, hex encoded.
func RecoverSigner(message, signatureHex string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(signatureHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("signature is not hex: %w", err)
	}
	if len(sig) != 65 {
		return "", fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}

	// RecoverCompact wants the recovery flag first; wallets put it last.
	v := sig[64]
	if v < 27 {
		v += 27
	}
	compact := make([]byte, 65)
	compact[0] = v
	copy(compact[1:], sig[:64])

	pub, _, err := secpecdsa.RecoverCompact(compact, personalMessageDigest(message))
	if err != nil {
		return "", fmt.Errorf("failed to recover public key: %w", err)
	}

	uncompressed := pub.SerializeUncompressed()
	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressed[1:])
	hash := h.Sum(nil)

	return "0x" + hex.EncodeToString(hash[12:]), nil
}

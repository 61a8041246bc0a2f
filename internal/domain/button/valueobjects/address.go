package valueobjects

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

// NativeTokenAddress is the sentinel contract address denoting the chain's
// native asset (POL on Polygon) instead of an ERC-20 contract.
const NativeTokenAddress = "0x0000000000000000000000000000000000001010"

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Address is an EVM account or contract address, stored lowercase-normalized.
type Address struct {
	value string
}

// NewAddress validates and normalizes an address string.
func NewAddress(s string) (Address, error) {
	if !addressPattern.MatchString(s) {
		return Address{}, fmt.Errorf("invalid address: %q", s)
	}
	return Address{value: strings.ToLower(s)}, nil
}

// IsValidAddress reports whether s is a syntactically valid EVM address.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

func (a Address) String() string {
	return a.value
}

func (a Address) IsZero() bool {
	return a.value == ""
}

// IsNative reports whether the address is the native-asset sentinel.
func (a Address) IsNative() bool {
	return a.value == NativeTokenAddress
}

// Equals compares addresses case-insensitively. Both sides are normalized at
// construction, but raw strings from historical rows may reach here too.
func (a Address) Equals(other Address) bool {
	return a.value == other.value
}

// EqualsString compares against a raw address string case-insensitively.
func (a Address) EqualsString(s string) bool {
	return a.value == strings.ToLower(s)
}

// Checksum returns the EIP-55 mixed-case rendering for display.
func (a Address) Checksum() string {
	if a.value == "" {
		return ""
	}
	hex := a.value[2:]

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(hex))
	hash := h.Sum(nil)

	out := make([]byte, len(hex))
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		if c >= 'a' && c <= 'f' {
			nibble := hash[i/2]
			if i%2 == 0 {
				nibble >>= 4
			}
			if nibble&0x0f >= 8 {
				c -= 'a' - 'A'
			}
		}
		out[i] = c
	}
	return "0x" + string(out)
}

package valueobjects

import "fmt"

// UsageType classifies how many confirmed payments a button accepts.
type UsageType string

const (
	UsageTypeSingleUse UsageType = "single_use"
	UsageTypeUnlimited UsageType = "unlimited"
	UsageTypeLimited   UsageType = "limited"
)

// NewUsageType parses a usage type string. Empty input maps to unlimited,
// the behavior of rows created before usage limits existed.
func NewUsageType(s string) (UsageType, error) {
	switch UsageType(s) {
	case UsageTypeSingleUse, UsageTypeUnlimited, UsageTypeLimited:
		return UsageType(s), nil
	case "":
		return UsageTypeUnlimited, nil
	default:
		return "", fmt.Errorf("invalid usage type: %q", s)
	}
}

func (t UsageType) String() string {
	return string(t)
}

// UsagePolicy couples the usage type with its limit. MaxUses is meaningful
// only for the limited type.
type UsagePolicy struct {
	usageType UsageType
	maxUses   int
}

// NewUsagePolicy validates the type/limit combination.
func NewUsagePolicy(usageType UsageType, maxUses int) (UsagePolicy, error) {
	switch usageType {
	case UsageTypeLimited:
		if maxUses < 1 {
			return UsagePolicy{}, fmt.Errorf("limited usage requires max_uses >= 1, got %d", maxUses)
		}
	case UsageTypeSingleUse, UsageTypeUnlimited:
		maxUses = 0
	default:
		return UsagePolicy{}, fmt.Errorf("invalid usage type: %q", usageType)
	}
	return UsagePolicy{usageType: usageType, maxUses: maxUses}, nil
}

func (p UsagePolicy) Type() UsageType {
	return p.usageType
}

func (p UsagePolicy) MaxUses() int {
	return p.maxUses
}

// Allows reports whether another payment is permitted at the given confirmed
// usage count.
func (p UsagePolicy) Allows(currentUses int) bool {
	switch p.usageType {
	case UsageTypeUnlimited:
		return true
	case UsageTypeSingleUse:
		return currentUses == 0
	case UsageTypeLimited:
		return currentUses < p.maxUses
	default:
		return false
	}
}

// Exhausted reports whether the policy permits no further payments.
func (p UsagePolicy) Exhausted(currentUses int) bool {
	return !p.Allows(currentUses)
}

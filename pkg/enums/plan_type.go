package enums

import "fmt"

// PlanType enumerates the subscription tiers the marketplace sells.
// PlanTypeFree is the implicit tier reported for users with no active
// subscription; it is never stored on a subscription row.
type PlanType string

const (
	PlanTypeFree       PlanType = "free"
	PlanTypeBasic      PlanType = "basic"
	PlanTypePro        PlanType = "pro"
	PlanTypeEnterprise PlanType = "enterprise"
)

var validPlanTypes = []PlanType{
	PlanTypeFree,
	PlanTypeBasic,
	PlanTypePro,
	PlanTypeEnterprise,
}

// String implements fmt.Stringer.
func (p PlanType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PlanType.
func (p PlanType) IsValid() bool {
	for _, candidate := range validPlanTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsPaid reports whether the tier is purchasable.
func (p PlanType) IsPaid() bool {
	return p.IsValid() && p != PlanTypeFree
}

// ParsePlanType converts raw input into a PlanType.
func ParsePlanType(value string) (PlanType, error) {
	for _, candidate := range validPlanTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan type %q", value)
}

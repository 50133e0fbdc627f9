package domain

import (
	"github.com/shopspring/decimal"
)

// WhatIf carries scenario deltas applied on top of a plan without changing it
type WhatIf struct {
	SpendingMultiplierDelta decimal.Decimal  `yaml:"spending_multiplier_delta,omitempty" json:"spending_multiplier_delta,omitempty"`
	ReturnOverride          *decimal.Decimal `yaml:"return_override,omitempty" json:"return_override,omitempty"`
	SSClaimingAge           *int             `yaml:"ss_claiming_age,omitempty" json:"ss_claiming_age,omitempty"`
	SpouseSSClaimingAge     *int             `yaml:"spouse_ss_claiming_age,omitempty" json:"spouse_ss_claiming_age,omitempty"`
}

// SpendingMultiplier returns 1 + the spending delta
func (w WhatIf) SpendingMultiplier() decimal.Decimal {
	return decimal.NewFromInt(1).Add(w.SpendingMultiplierDelta)
}

// EffectiveReturn returns the return override when set, else base
func (w WhatIf) EffectiveReturn(base decimal.Decimal) decimal.Decimal {
	if w.ReturnOverride != nil {
		return *w.ReturnOverride
	}
	return base
}

// IsZero reports whether the what-if changes nothing
func (w WhatIf) IsZero() bool {
	return w.SpendingMultiplierDelta.IsZero() && w.ReturnOverride == nil &&
		w.SSClaimingAge == nil && w.SpouseSSClaimingAge == nil
}

package config

import (
	"github.com/fical/fi-calculator/internal/calculation"
	"github.com/fical/fi-calculator/internal/domain"
)

// assumptionDefaults are filled into a migrated document when the key is
// absent. Explicit zeros in the file are kept.
var assumptionDefaults = map[string]any{
	"investment_return":    "0.06",
	"inflation_rate":       "0.03",
	"traditional_tax_rate": "0.22",
	"capital_gains_rate":   "0.15",
	"cost_basis_fallback":  "0.60",
	"safe_withdrawal_rate": "0.04",
}

var penaltyDefaults = map[string]any{
	"early_withdrawal_rate": "0.10",
	"penalty_free_age":      "59.5",
	"hsa_penalty_rate":      "0.20",
	"hsa_penalty_free_age":  65,
	"rule_of_55_age":        55,
}

// applyDocumentDefaults fills missing assumption keys. It runs on the raw
// document so an explicit 0 can be told apart from an omitted field.
func applyDocumentDefaults(doc map[string]any) {
	assumptions := childMap(doc, "assumptions")
	fillMissing(assumptions, assumptionDefaults)
	fillMissing(childMap(assumptions, "penalties"), penaltyDefaults)
}

func childMap(parent map[string]any, key string) map[string]any {
	if m, ok := parent[key].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	parent[key] = m
	return m
}

func fillMissing(m map[string]any, defaults map[string]any) {
	for k, v := range defaults {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
}

// ApplyDefaults fills the enumerated settings a typed plan may leave empty.
// Numeric assumptions are defaulted at the document level by Parse.
func ApplyDefaults(plan *domain.Plan) {
	if plan.Version == 0 {
		plan.Version = domain.CurrentSchemaVersion
	}
	if plan.Profile.FilingStatus == "" {
		plan.Profile.FilingStatus = domain.FilingSingle
		if plan.Profile.HasSpouse() {
			plan.Profile.FilingStatus = domain.FilingMarriedJointly
		}
	}
	if plan.Profile.TargetFIAge == 0 {
		plan.Profile.TargetFIAge = plan.Profile.CurrentAge
	}
	for i := range plan.Accounts {
		if plan.Accounts[i].Owner == "" {
			plan.Accounts[i].Owner = domain.OwnerSelf
		}
	}

	a := &plan.Assumptions
	if len(a.WithdrawalOrder) == 0 {
		a.WithdrawalOrder = append([]domain.AccountType(nil), calculation.DefaultWithdrawalOrder...)
	}
	if a.Surplus.Mode == "" {
		a.Surplus.Mode = domain.SurplusIgnore
		if a.Surplus.AccountID != "" {
			a.Surplus.Mode = domain.SurplusAccount
		}
	}
}

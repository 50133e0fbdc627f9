package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fical/fi-calculator/internal/calculation"
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format is a plan file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatForFile picks the encoding from a file extension; YAML is the default
func FormatForFile(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// InputParser handles parsing of plan files
type InputParser struct {
	// Migrated lists the migrations applied by the last Parse call
	Migrated []string
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML or TOML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data, FormatForFile(filename))
}

// Parse decodes a plan document, migrates it to the current schema version,
// applies defaults and validates it.
func (ip *InputParser) Parse(data []byte, format Format) (*domain.Plan, error) {
	doc, err := decodeDocument(data, format)
	if err != nil {
		return nil, err
	}

	applied, err := Migrate(doc)
	if err != nil {
		return nil, err
	}
	ip.Migrated = applied
	applyDocumentDefaults(doc)

	// Re-encode the migrated document so typed decoding (decimals included)
	// goes through a single path regardless of the source format.
	canonical, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode migrated plan: %w", err)
	}
	var plan domain.Plan
	if err := yaml.Unmarshal(canonical, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}

	ApplyDefaults(&plan)

	if err := ip.ValidateConfiguration(&plan); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &plan, nil
}

func decodeDocument(data []byte, format Format) (map[string]any, error) {
	doc := map[string]any{}
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		normalized, _ := normalize(doc).(map[string]any)
		return normalized, nil
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		normalized, _ := normalize(doc).(map[string]any)
		return normalized, nil
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		return doc, nil
	}
}

// normalize converts TOML arrays of tables into the []any shape the migrations
// expect, and JSON numbers into ints or floats.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, child := range t {
			t[k] = normalize(child)
		}
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = normalize(child)
		}
		return out
	case []any:
		for i, child := range t {
			t[i] = normalize(child)
		}
		return t
	default:
		return v
	}
}

// ValidateConfiguration validates a decoded plan
func (ip *InputParser) ValidateConfiguration(plan *domain.Plan) error {
	if plan.Version != domain.CurrentSchemaVersion {
		return fmt.Errorf("%w: %d", domain.ErrUnsupportedSchemaVersion, plan.Version)
	}
	if err := ip.validateProfile(&plan.Profile); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}

	seen := make(map[string]bool, len(plan.Accounts))
	for i, a := range plan.Accounts {
		if err := ip.validateAccount(&a); err != nil {
			return fmt.Errorf("account %d (%s) validation failed: %w", i, a.DisplayName(), err)
		}
		if seen[a.ID] {
			return fmt.Errorf("%w: duplicate account id %q", domain.ErrInvalidPlan, a.ID)
		}
		seen[a.ID] = true
	}

	if err := ip.validateIncome(&plan.Income, plan.Profile.HasSpouse()); err != nil {
		return fmt.Errorf("income validation failed: %w", err)
	}
	if err := ip.validateSocialSecurity(&plan.SocialSecurity); err != nil {
		return fmt.Errorf("social security validation failed: %w", err)
	}
	if err := ip.validateExpenses(&plan.Expenses); err != nil {
		return fmt.Errorf("expenses validation failed: %w", err)
	}
	if err := ip.validateAssumptions(plan); err != nil {
		return fmt.Errorf("assumptions validation failed: %w", err)
	}
	return nil
}

func (ip *InputParser) validateProfile(p *domain.Profile) error {
	if p.CurrentAge <= 0 {
		return fmt.Errorf("%w: current_age is required", domain.ErrMissingProfile)
	}
	if p.LifeExpectancy <= p.CurrentAge {
		return fmt.Errorf("%w: life_expectancy (%d) must be after current_age (%d)", domain.ErrInvalidPlan, p.LifeExpectancy, p.CurrentAge)
	}
	if p.LifeExpectancy > calculation.MaxProbeAge {
		return fmt.Errorf("%w: life_expectancy cannot exceed %d", domain.ErrInvalidPlan, calculation.MaxProbeAge)
	}
	if p.TargetFIAge != 0 && (p.TargetFIAge < p.CurrentAge || p.TargetFIAge > p.LifeExpectancy) {
		return fmt.Errorf("%w: target_fi_age must be between current_age and life_expectancy", domain.ErrInvalidPlan)
	}
	if p.SpouseAge < 0 {
		return fmt.Errorf("%w: spouse_age cannot be negative", domain.ErrInvalidPlan)
	}
	switch p.FilingStatus {
	case domain.FilingSingle, domain.FilingMarriedJointly:
	default:
		return fmt.Errorf("%w: filing_status must be 'single' or 'married_joint'", domain.ErrInvalidPlan)
	}
	return nil
}

func (ip *InputParser) validateAccount(a *domain.Account) error {
	if a.ID == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidPlan)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown account type %q", domain.ErrInvalidPlan, a.Type)
	}
	if !a.Owner.Valid() {
		return fmt.Errorf("%w: unknown owner %q", domain.ErrInvalidPlan, a.Owner)
	}
	if a.Balance.IsNegative() {
		return fmt.Errorf("%w: balance cannot be negative", domain.ErrInvalidPlan)
	}
	if a.CostBasis != nil && a.CostBasis.IsNegative() {
		return fmt.Errorf("%w: cost_basis cannot be negative", domain.ErrInvalidPlan)
	}
	if c := a.Contribution; c != nil {
		if c.Amount.IsNegative() {
			return fmt.Errorf("%w: contribution amount cannot be negative", domain.ErrInvalidPlan)
		}
		if c.StartYear != 0 && c.EndYear != 0 && c.EndYear < c.StartYear {
			return fmt.Errorf("%w: contribution end_year before start_year", domain.ErrInvalidPlan)
		}
	}
	return nil
}

func (ip *InputParser) validateIncome(in *domain.Income, hasSpouse bool) error {
	if err := validateEmployment("self", &in.Self); err != nil {
		return err
	}
	if in.Spouse != nil {
		if !hasSpouse {
			return fmt.Errorf("%w: spouse income requires profile.spouse_age", domain.ErrInvalidPlan)
		}
		if err := validateEmployment("spouse", in.Spouse); err != nil {
			return err
		}
	}
	if in.SpouseAdditionalWorkYears < 0 {
		return fmt.Errorf("%w: spouse_additional_work_years cannot be negative", domain.ErrInvalidPlan)
	}
	for _, s := range in.Streams {
		if s.EndAge != 0 && s.EndAge < s.StartAge {
			return fmt.Errorf("%w: stream %q ends before it starts", domain.ErrInvalidPlan, s.Name)
		}
		if !s.Owner.Valid() {
			return fmt.Errorf("%w: stream %q has unknown owner %q", domain.ErrInvalidPlan, s.Name, s.Owner)
		}
	}
	for _, p := range in.Pensions {
		if !p.Owner.Valid() {
			return fmt.Errorf("%w: pension %q has unknown owner %q", domain.ErrInvalidPlan, p.Name, p.Owner)
		}
	}
	return nil
}

func validateEmployment(who string, e *domain.Employment) error {
	if e.GrossIncome.IsNegative() {
		return fmt.Errorf("%w: %s gross_income cannot be negative", domain.ErrInvalidPlan, who)
	}
	if e.EffectiveTaxRate.IsNegative() || e.EffectiveTaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: %s effective_tax_rate must be between 0 and 1", domain.ErrInvalidPlan, who)
	}
	return nil
}

func (ip *InputParser) validateSocialSecurity(ss *domain.SocialSecurity) error {
	for who, b := range map[string]*domain.SSBenefit{"self": ss.Self, "spouse": ss.Spouse} {
		if b == nil {
			continue
		}
		if _, err := calculation.ClaimingFactor(b.ClaimingAge); err != nil {
			return fmt.Errorf("%s: %w", who, err)
		}
		if b.FRAMonthlyBenefit.IsNegative() {
			return fmt.Errorf("%w: %s fra_monthly_benefit cannot be negative", domain.ErrInvalidPlan, who)
		}
	}
	return nil
}

func (ip *InputParser) validateExpenses(e *domain.Expenses) error {
	for _, c := range e.Categories {
		if c.StartYear != 0 && c.EndYear != 0 && c.EndYear < c.StartYear {
			return fmt.Errorf("%w: category %q ends before it starts", domain.ErrInvalidPlan, c.Name)
		}
	}
	if e.Home != nil && e.Home.Mortgage != nil {
		m := e.Home.Mortgage
		if m.LoanBalance.IsNegative() || m.InterestRate.IsNegative() || m.LoanTermYears < 0 {
			return fmt.Errorf("%w: mortgage balance, rate and term cannot be negative", domain.ErrInvalidPlan)
		}
		if m.PayoffYear != 0 && m.PayoffYear < m.OriginationYear {
			return fmt.Errorf("%w: mortgage payoff_year before origination_year", domain.ErrInvalidPlan)
		}
		if m.LoanBalance.IsPositive() {
			if m.OriginationYear <= 0 {
				return fmt.Errorf("%w: mortgage with a loan_balance needs an origination_year", domain.ErrInvalidPlan)
			}
			if m.TermEndYear() <= calculation.CurrentYear() {
				return fmt.Errorf("%w: mortgage term ended in %d but loan_balance is still set", domain.ErrInvalidPlan, m.TermEndYear())
			}
		}
	}
	return nil
}

func (ip *InputParser) validateAssumptions(plan *domain.Plan) error {
	a := &plan.Assumptions
	if a.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) {
		return fmt.Errorf("%w: inflation rate cannot be less than -10%% (extreme deflation)", domain.ErrInvalidPlan)
	}
	if a.InvestmentReturn.LessThan(decimal.NewFromFloat(-1.0)) {
		return fmt.Errorf("%w: investment return cannot be less than -100%%", domain.ErrInvalidPlan)
	}
	for name, r := range map[string]decimal.Decimal{
		"traditional_tax_rate":  a.TraditionalTaxRate,
		"capital_gains_rate":    a.CapitalGainsRate,
		"early_withdrawal_rate": a.Penalties.EarlyWithdrawalRate,
		"hsa_penalty_rate":      a.Penalties.HSAPenaltyRate,
		"cost_basis_fallback":   a.CostBasisFallback,
	} {
		if r.IsNegative() || r.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: %s must be between 0 and 1", domain.ErrInvalidPlan, name)
		}
	}
	if !a.SafeWithdrawalRate.IsPositive() {
		return fmt.Errorf("%w: safe_withdrawal_rate must be positive", domain.ErrInvalidPlan)
	}
	for _, t := range a.WithdrawalOrder {
		if !t.Valid() {
			return fmt.Errorf("%w: withdrawal_order contains unknown account type %q", domain.ErrInvalidPlan, t)
		}
	}
	switch a.Surplus.Mode {
	case "", domain.SurplusIgnore:
	case domain.SurplusAccount:
		if _, ok := plan.AccountByID(a.Surplus.AccountID); !ok {
			return fmt.Errorf("%w: surplus account %q", domain.ErrUnknownAccount, a.Surplus.AccountID)
		}
	default:
		return fmt.Errorf("%w: surplus mode must be 'ignore' or 'account'", domain.ErrInvalidPlan)
	}
	return nil
}

// SavePlan writes the plan in its canonical current-version form. The
// encoding follows the file extension.
func (ip *InputParser) SavePlan(plan *domain.Plan, filename string) error {
	data, err := EncodePlan(plan, FormatForFile(filename))
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// EncodePlan renders a plan in the given format
func EncodePlan(plan *domain.Plan, format Format) ([]byte, error) {
	out := *plan
	out.Version = domain.CurrentSchemaVersion

	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(out); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
	}
	return buf.Bytes(), nil
}

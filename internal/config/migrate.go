package config

import (
	"fmt"
	"strings"

	"github.com/fical/fi-calculator/internal/domain"
)

// Migration upgrades a raw plan document from version From to From+1.
// Each step is a pure transform of the decoded document.
type Migration struct {
	From        int
	Description string
	Apply       func(doc map[string]any) error
}

// Migrations is the ordered migration chain
var Migrations = []Migration{
	{From: 1, Description: "legacy assets list becomes typed accounts", Apply: migrateV1ToV2},
	{From: 2, Description: "mortgage field renames and inflation simplification", Apply: migrateV2ToV3},
}

// SchemaVersion reads the document's version; documents without one are version 1
func SchemaVersion(doc map[string]any) int {
	switch v := doc["version"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 1
}

// Migrate runs every migration needed to bring doc to the current schema
// version. It returns the descriptions of the steps applied, in order.
func Migrate(doc map[string]any) ([]string, error) {
	version := SchemaVersion(doc)
	if version > domain.CurrentSchemaVersion || version < 1 {
		return nil, fmt.Errorf("%w: %d (current is %d)", domain.ErrUnsupportedSchemaVersion, version, domain.CurrentSchemaVersion)
	}

	var applied []string
	for _, m := range Migrations {
		if m.From < version {
			continue
		}
		if err := m.Apply(doc); err != nil {
			return applied, fmt.Errorf("migration v%d->v%d failed: %w", m.From, m.From+1, err)
		}
		version = m.From + 1
		doc["version"] = version
		applied = append(applied, fmt.Sprintf("v%d->v%d: %s", m.From, m.From+1, m.Description))
	}
	doc["version"] = version
	return applied, nil
}

// legacyCategories maps v1 asset categories to account types
var legacyCategories = map[string]domain.AccountType{
	"cash":        domain.AccountCash,
	"checking":    domain.AccountCash,
	"savings":     domain.AccountCash,
	"brokerage":   domain.AccountTaxable,
	"taxable":     domain.AccountTaxable,
	"401k":        domain.AccountTraditional,
	"403b":        domain.AccountTraditional,
	"ira":         domain.AccountTraditional,
	"traditional": domain.AccountTraditional,
	"roth":        domain.AccountRoth,
	"roth_ira":    domain.AccountRoth,
	"roth_401k":   domain.AccountRoth,
	"hsa":         domain.AccountHSA,
	"529":         domain.Account529,
	"education":   domain.Account529,
}

var employerPlans = map[string]bool{"401k": true, "403b": true, "roth_401k": true}

// migrateV1ToV2 converts the legacy `assets` list (category, value) into
// `accounts` (type, balance) and a bare expense list into categories.
func migrateV1ToV2(doc map[string]any) error {
	if rawAssets, ok := doc["assets"]; ok {
		assets, ok := rawAssets.([]any)
		if !ok {
			return fmt.Errorf("assets must be a list")
		}
		accounts, _ := doc["accounts"].([]any)
		for i, raw := range assets {
			asset, ok := raw.(map[string]any)
			if !ok {
				return fmt.Errorf("assets[%d] must be a mapping", i)
			}
			accounts = append(accounts, legacyAssetToAccount(i, asset))
		}
		doc["accounts"] = accounts
		delete(doc, "assets")
	}

	if list, ok := doc["expenses"].([]any); ok {
		categories := make([]any, 0, len(list))
		for _, raw := range list {
			c, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			rename(c, "amount", "annual_amount")
			categories = append(categories, c)
		}
		doc["expenses"] = map[string]any{"categories": categories}
	}
	return nil
}

func legacyAssetToAccount(i int, asset map[string]any) map[string]any {
	category := strings.ToLower(strings.TrimSpace(fmt.Sprint(asset["category"])))
	accountType, ok := legacyCategories[category]
	if !ok {
		accountType = domain.AccountOther
	}

	account := map[string]any{"type": string(accountType)}
	for k, v := range asset {
		switch k {
		case "category":
		case "value":
			account["balance"] = v
		default:
			account[k] = v
		}
	}
	if _, ok := account["id"]; !ok {
		account["id"] = legacyAccountID(i, asset)
	}
	if employerPlans[category] {
		account["is_401k"] = true
	}
	return account
}

func legacyAccountID(i int, asset map[string]any) string {
	name, _ := asset["name"].(string)
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(name))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return fmt.Sprintf("account-%d", i+1)
	}
	return slug
}

// migrateV2ToV3 renames mortgage fields and collapses the inflation block
// into a single rate and per-category non_inflating flags.
func migrateV2ToV3(doc map[string]any) error {
	if expenses, ok := doc["expenses"].(map[string]any); ok {
		if home, ok := expenses["home"].(map[string]any); ok {
			if mortgage, ok := home["mortgage"].(map[string]any); ok {
				rename(mortgage, "mortgage_balance", "loan_balance")
				rename(mortgage, "mortgage_rate", "interest_rate")
				rename(mortgage, "term_years", "loan_term_years")
				rename(mortgage, "start_year", "origination_year")
				rename(mortgage, "payment", "monthly_payment")
			}
		}
		if categories, ok := expenses["categories"].([]any); ok {
			for _, raw := range categories {
				c, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				if rate, ok := c["inflation_rate"]; ok {
					if isZero(rate) {
						c["non_inflating"] = true
					}
					delete(c, "inflation_rate")
				}
				if inflate, ok := c["inflate"].(bool); ok {
					if !inflate {
						c["non_inflating"] = true
					}
					delete(c, "inflate")
				}
			}
		}
	}

	if assumptions, ok := doc["assumptions"].(map[string]any); ok {
		if inflation, ok := assumptions["inflation"].(map[string]any); ok {
			rate := inflation["rate"]
			if enabled, ok := inflation["enabled"].(bool); ok && !enabled {
				rate = 0
			}
			if rate != nil {
				assumptions["inflation_rate"] = rate
			}
			delete(assumptions, "inflation")
		}
	}
	return nil
}

func rename(m map[string]any, from, to string) {
	v, ok := m[from]
	if !ok {
		return
	}
	if _, exists := m[to]; !exists {
		m[to] = v
	}
	delete(m, from)
}

func isZero(v any) bool {
	switch n := v.(type) {
	case int:
		return n == 0
	case int64:
		return n == 0
	case uint64:
		return n == 0
	case float64:
		return n == 0
	case string:
		return strings.TrimSpace(n) == "0"
	}
	return false
}

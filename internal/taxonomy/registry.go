// Package taxonomy holds the static instrument registry that drives
// classification, partitioning, header synthesis, and reporting. The
// registry is built once at startup and never mutated afterwards.
package taxonomy

import (
	"fmt"

	"amqcli/internal/errors"
	"amqcli/pkg/contracts/domain"
)

// ClassGroup describes one asset class: its member tickers in canonical
// order plus the shared metadata every member inherits.
type ClassGroup struct {
	Class       domain.AssetClass `json:"class"`
	Tickers     []string          `json:"tickers"`
	Description string            `json:"description"`
	Currency    string            `json:"currency"`
	Comment     string            `json:"comment"`
	RiskBucket  domain.RiskBucket `json:"risk_bucket"`
}

// Taxonomy is an ordered set of class groups with a portfolio risk
// budget. Class order and ticker order within each class are part of the
// contract: header synthesis and workbook repair enumerate tickers in
// exactly this order.
type Taxonomy struct {
	groups []ClassGroup
	budget domain.RiskBudget
}

// NewTaxonomy builds a taxonomy from the given groups and budget. It
// rejects empty groups, duplicate tickers, the reserved unknown class,
// and budgets that fail domain.RiskBudget validation.
func NewTaxonomy(groups []ClassGroup, budget domain.RiskBudget) (*Taxonomy, error) {
	if len(groups) == 0 {
		return nil, errors.NewValidationError("taxonomy requires at least one class group")
	}
	if err := budget.Validate(); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid risk budget: %v", err))
	}

	seenClasses := make(map[domain.AssetClass]bool)
	seenTickers := make(map[string]bool)
	for _, g := range groups {
		if g.Class == "" || g.Class == domain.AssetClassUnknown {
			return nil, errors.NewValidationError(fmt.Sprintf("class %q is reserved", g.Class))
		}
		if seenClasses[g.Class] {
			return nil, errors.NewValidationError(fmt.Sprintf("duplicate class group: %s", g.Class))
		}
		seenClasses[g.Class] = true

		if len(g.Tickers) == 0 {
			return nil, errors.NewValidationError(fmt.Sprintf("class %s has no tickers", g.Class))
		}
		for _, ticker := range g.Tickers {
			if ticker == "" {
				return nil, errors.NewValidationError(fmt.Sprintf("class %s has an empty ticker", g.Class))
			}
			if seenTickers[ticker] {
				return nil, errors.NewValidationError(fmt.Sprintf("duplicate ticker: %s", ticker))
			}
			seenTickers[ticker] = true
		}
	}

	// Copy so callers cannot mutate the registry afterwards
	owned := make([]ClassGroup, len(groups))
	for i, g := range groups {
		owned[i] = g
		owned[i].Tickers = append([]string(nil), g.Tickers...)
	}
	ownedBudget := make(domain.RiskBudget, len(budget))
	for bucket, w := range budget {
		ownedBudget[bucket] = w
	}

	return &Taxonomy{groups: owned, budget: ownedBudget}, nil
}

// Default returns the canonical built-in taxonomy: 25 tickers across five
// asset classes with a 60/20/10/10 risk budget. The data is static, so a
// construction failure here is a programming error and panics.
func Default() *Taxonomy {
	tax, err := NewTaxonomy(defaultGroups(), DefaultRiskBudget())
	if err != nil {
		panic(fmt.Sprintf("built-in taxonomy is invalid: %v", err))
	}
	return tax
}

// DefaultRiskBudget returns the canonical portfolio risk budget
func DefaultRiskBudget() domain.RiskBudget {
	return domain.RiskBudget{
		domain.RiskBucketEquities:    0.60,
		domain.RiskBucketRates:       0.20,
		domain.RiskBucketFX:          0.10,
		domain.RiskBucketCommodities: 0.10,
	}
}

func defaultGroups() []ClassGroup {
	return []ClassGroup{
		{
			Class: domain.AssetClassEmergingAsiaEquity,
			Tickers: []string{
				"MXAP Index",
				"MXAPJ Index",
				"MXAS Index",
				"MXASJ Index",
				"PCOMP Index",
				"JCI Index",
				"FBMKLCI Index",
				"SET Index",
				"STI Index",
				"NU710465 Index",
				"EPHE US Index",
				"FMETF PM Equity",
			},
			Description: "Emerging-Asia equity indices & ETF",
			Currency:    "Mostly USD",
			Comment:     "Regional beta + macro sensitivity",
			RiskBucket:  domain.RiskBucketEquities,
		},
		{
			Class: domain.AssetClassCommodities,
			Tickers: []string{
				"GOLDS Index",
				"CO1 Comdty",
				"S 1 Comdty",
			},
			Description: "Commodities (Gold spot, Brent front-month, generic Softs)",
			Currency:    "USD",
			Comment:     "Adds inflation hedge, carry via roll",
			RiskBucket:  domain.RiskBucketCommodities,
		},
		{
			Class: domain.AssetClassDevelopedEquity,
			Tickers: []string{
				"SPX Index",
				"NKY Index",
			},
			Description: "Developed-market equity benchmarks",
			Currency:    "USD / JPY",
			Comment:     "Good stress-test proxies",
			RiskBucket:  domain.RiskBucketEquities,
		},
		{
			Class: domain.AssetClassFXCrosses,
			Tickers: []string{
				"USDPHP Index",
				"USDMYR Index",
				"USDIDR Index",
				"USDSGD Index",
				"USDJPY Curncy",
			},
			Description: "EM & DM FX crosses vs USD",
			Currency:    "USD notional",
			Comment:     "Carry + momentum rich",
			RiskBucket:  domain.RiskBucketFX,
		},
		{
			Class: domain.AssetClassSovereignYields,
			Tickers: []string{
				"USGG5YR Index",
				"GTPHP5yr Corp",
				"GTUSDPH5Y Corp",
			},
			Description: "Sovereign & quasi-sovereign 5-yr yields",
			Currency:    "USD & PHP",
			Comment:     "Duration + EM credit risk",
			RiskBucket:  domain.RiskBucketRates,
		},
	}
}

// Groups returns the class groups in canonical order
func (t *Taxonomy) Groups() []ClassGroup {
	out := make([]ClassGroup, len(t.groups))
	for i, g := range t.groups {
		out[i] = g
		out[i].Tickers = append([]string(nil), g.Tickers...)
	}
	return out
}

// Classes returns the asset classes in canonical order
func (t *Taxonomy) Classes() []domain.AssetClass {
	classes := make([]domain.AssetClass, len(t.groups))
	for i, g := range t.groups {
		classes[i] = g.Class
	}
	return classes
}

// Tickers returns every registered ticker in registry order: class
// insertion order, then ticker order within each class.
func (t *Taxonomy) Tickers() []string {
	var tickers []string
	for _, g := range t.groups {
		tickers = append(tickers, g.Tickers...)
	}
	return tickers
}

// GroupFor returns the class group for the given asset class
func (t *Taxonomy) GroupFor(class domain.AssetClass) (ClassGroup, bool) {
	for _, g := range t.groups {
		if g.Class == class {
			owned := g
			owned.Tickers = append([]string(nil), g.Tickers...)
			return owned, true
		}
	}
	return ClassGroup{}, false
}

// Budget returns a copy of the portfolio risk budget
func (t *Taxonomy) Budget() domain.RiskBudget {
	out := make(domain.RiskBudget, len(t.budget))
	for bucket, w := range t.budget {
		out[bucket] = w
	}
	return out
}

// Len returns the total number of registered tickers
func (t *Taxonomy) Len() int {
	var n int
	for _, g := range t.groups {
		n += len(g.Tickers)
	}
	return n
}

package dataprocessing

import (
	"fmt"
	"log/slog"

	"amqcli/pkg/contracts/domain"
)

// Transform is the extension point between preprocessing and
// partitioning. Implementations take a normalized panel and return a
// derived one; the orchestrator applies the configured set in order and
// aborts on the first error.
//
// Currency normalization and futures-roll handling are expressed only
// through this hook. An FX transform divides each non-USD column by its
// FX cross per CurrencyMapping (USDXXX quote convention); a roll
// transform smooths the FuturesContracts columns across roll dates.
// Neither conversion is built in: the default transform set is empty.
type Transform interface {
	Name() string
	Apply(panel *domain.Panel) (*domain.Panel, error)
}

// CurrencyMapping names, for each ticker not already quoted in USD, the
// panel column holding its conversion cross. Keys and values are exact
// column names.
type CurrencyMapping map[string]string

// DefaultCurrencyMapping returns the canonical cross assignments for
// the non-USD tickers in the default taxonomy.
func DefaultCurrencyMapping() CurrencyMapping {
	return CurrencyMapping{
		"NKY Index":       "USDJPY Curncy",
		"PCOMP Index":     "USDPHP Index",
		"FMETF PM Equity": "USDPHP Index",
		"GTPHP5yr Corp":   "USDPHP Index",
	}
}

// FuturesContracts returns the tickers that trade as rolling futures
// contracts and would need roll handling in a roll-aware transform.
func FuturesContracts() []string {
	return []string{"CO1 Comdty", "GOLDS Index", "S 1 Comdty"}
}

// ApplyTransforms runs each transform in order against the panel. The
// input panel is never mutated; each transform receives the previous
// one's output.
func ApplyTransforms(panel *domain.Panel, transforms []Transform, logger *slog.Logger) (*domain.Panel, error) {
	if logger == nil {
		logger = slog.Default()
	}

	current := panel
	for _, t := range transforms {
		next, err := t.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s: %w", t.Name(), err)
		}
		logger.Info("transform applied",
			slog.String("transform", t.Name()),
			slog.Int("columns", next.NumColumns()))
		current = next
	}
	return current, nil
}

package domain

import (
	"fmt"
	"math"
)

// AssetClass identifies one of the taxonomy's asset-class groupings
type AssetClass string

const (
	AssetClassEmergingAsiaEquity AssetClass = "emerging_asia_equity"
	AssetClassCommodities        AssetClass = "commodities"
	AssetClassDevelopedEquity    AssetClass = "developed_equity"
	AssetClassFXCrosses          AssetClass = "fx_crosses"
	AssetClassSovereignYields    AssetClass = "sovereign_yields"

	// AssetClassUnknown marks series that match no taxonomy entry
	AssetClassUnknown AssetClass = "unknown"
)

// RiskBucket identifies the portfolio risk sleeve an instrument contributes to
type RiskBucket string

const (
	RiskBucketEquities    RiskBucket = "equities"
	RiskBucketRates       RiskBucket = "rates"
	RiskBucketFX          RiskBucket = "fx"
	RiskBucketCommodities RiskBucket = "commodities"
)

// TickerRecord describes a single instrument in the asset taxonomy
type TickerRecord struct {
	Ticker      string     `json:"ticker" validate:"required"`
	AssetClass  AssetClass `json:"asset_class" validate:"required"`
	Description string     `json:"description"`
	Currency    string     `json:"currency"`
	Comment     string     `json:"comment,omitempty"`
	RiskBucket  RiskBucket `json:"risk_bucket"`
}

// IsClassified reports whether the record belongs to a real asset class
func (r TickerRecord) IsClassified() bool {
	return r.AssetClass != AssetClassUnknown && r.AssetClass != ""
}

// RiskBudget maps risk buckets to portfolio weight fractions
type RiskBudget map[RiskBucket]float64

// Sum returns the total of all bucket weights
func (b RiskBudget) Sum() float64 {
	var total float64
	for _, w := range b {
		total += w
	}
	return total
}

// riskBudgetTolerance bounds the allowed drift of Sum() from 1.0
const riskBudgetTolerance = 1e-9

// Validate checks that every weight is non-negative and the weights sum to 1.0
func (b RiskBudget) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("risk budget is empty")
	}
	for bucket, w := range b {
		if w < 0 {
			return fmt.Errorf("risk budget weight for %s is negative: %f", bucket, w)
		}
	}
	if sum := b.Sum(); math.Abs(sum-1.0) > riskBudgetTolerance {
		return fmt.Errorf("risk budget weights sum to %f, expected 1.0", sum)
	}
	return nil
}

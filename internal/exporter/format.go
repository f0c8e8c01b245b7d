package exporter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"amqcli/pkg/contracts/domain"
)

// dateFormat renders panel dates in artifacts
const dateFormat = "2006-01-02"

// naValue marks cells with nothing to measure
const naValue = "N/A"

// formatCell renders a panel cell for CSV output. NaN becomes an empty
// field; everything else keeps full float precision.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// statValue scales and rounds a statistic for display. Non-finite
// values (a constant series has no defined skewness) render as N/A.
func statValue(v, scale float64) interface{} {
	scaled := v * scale
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) {
		return naValue
	}
	return round(scaled, 4)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func formatDate(t *time.Time) string {
	if t == nil {
		return naValue
	}
	return t.Format(dateFormat)
}

// displayAssetClass renders an asset-class identifier for humans:
// emerging_asia_equity becomes Emerging Asia Equity.
func displayAssetClass(class domain.AssetClass) string {
	words := strings.Split(string(class), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// csvRecord converts a typed row to CSV fields. Floats were already
// rounded, so the shortest representation is exact.
func csvRecord(row []interface{}) []string {
	record := make([]string, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case string:
			record[i] = x
		case int:
			record[i] = strconv.Itoa(x)
		case float64:
			record[i] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			record[i] = fmt.Sprint(x)
		}
	}
	return record
}

// anyRow widens a string slice for sheet writing
func anyRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

package predict

import "math"

const (
	weeksPerYear = 52
	hoursPerWeek = 40

	takeHomeShare = 0.65
	taxesShare    = 0.25
	benefitsShare = 0.10

	projectionYears  = 5
	projectionGrowth = 0.05
)

// Industries offered for comparison.
var Industries = []string{"Tech", "Finance", "Healthcare", "Education", "Other"}

var industryAverages = map[string]float64{
	"Tech":       95000,
	"Finance":    105000,
	"Healthcare": 85000,
	"Education":  75000,
	"Other":      80000,
}

const defaultIndustryAverage = 85000

// IndustryAverage returns the reference annual salary for industry.
func IndustryAverage(industry string) float64 {
	if avg, ok := industryAverages[industry]; ok {
		return avg
	}
	return defaultIndustryAverage
}

// Comparison places an annual salary against its industry average.
type Comparison struct {
	Industry       string  `json:"industry"`
	Average        float64 `json:"average"`
	Difference     float64 `json:"difference"`
	PercentageDiff float64 `json:"percentage_diff"`
}

// Breakdown is the annual estimate split into periods, an estimated
// monthly split and an industry comparison.
type Breakdown struct {
	Annual     float64    `json:"annual"`
	Monthly    float64    `json:"monthly"`
	Weekly     float64    `json:"weekly"`
	Hourly     float64    `json:"hourly"`
	TakeHome   float64    `json:"take_home"`
	Taxes      float64    `json:"taxes"`
	Benefits   float64    `json:"benefits"`
	Comparison Comparison `json:"comparison"`
	// Projection holds the next years at constant growth, year 1 first.
	Projection []float64 `json:"projection"`
}

// NewBreakdown derives every figure from annual.
func NewBreakdown(annual float64, industry string) Breakdown {
	monthly := annual / 12
	avg := IndustryAverage(industry)
	diff := annual - avg

	projection := make([]float64, projectionYears)
	for i := range projection {
		projection[i] = annual * math.Pow(1+projectionGrowth, float64(i+1))
	}

	return Breakdown{
		Annual:   annual,
		Monthly:  monthly,
		Weekly:   annual / weeksPerYear,
		Hourly:   annual / (weeksPerYear * hoursPerWeek),
		TakeHome: monthly * takeHomeShare,
		Taxes:    monthly * taxesShare,
		Benefits: monthly * benefitsShare,
		Comparison: Comparison{
			Industry:       industry,
			Average:        avg,
			Difference:     diff,
			PercentageDiff: diff / avg * 100,
		},
		Projection: projection,
	}
}

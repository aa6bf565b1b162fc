// Package predict turns a country, an education level and years of
// experience into a salary estimate. The model is a linear regression over
// label-encoded categories, loaded from a JSON artifact.
package predict

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dmitrijs2005/salarygate/internal/common"
)

// LabelEncoder maps a category to its index in a sorted class list.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

func NewLabelEncoder(classes []string) *LabelEncoder {
	sorted := append([]string(nil), classes...)
	sort.Strings(sorted)

	index := make(map[string]int, len(sorted))
	for i, c := range sorted {
		index[c] = i
	}
	return &LabelEncoder{classes: sorted, index: index}
}

// Encode returns the integer code of category, or common.ErrUnknownCategory.
func (e *LabelEncoder) Encode(category string) (int, error) {
	code, ok := e.index[category]
	if !ok {
		return 0, fmt.Errorf("%w: %q", common.ErrUnknownCategory, category)
	}
	return code, nil
}

// Classes returns the known categories in code order.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// featureCount is country, education, years of experience.
const featureCount = 3

// Model is the artifact form: two encoders and a linear regressor.
type Model struct {
	country      *LabelEncoder
	education    *LabelEncoder
	coefficients []float64
	intercept    float64
}

type modelJSON struct {
	Country      []string  `json:"country"`
	Education    []string  `json:"education"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// ParseModel reads a JSON model artifact.
func ParseModel(r io.Reader) (*Model, error) {
	var raw modelJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(raw.Country) == 0 || len(raw.Education) == 0 {
		return nil, errors.New("model has empty encoders")
	}
	if len(raw.Coefficients) != featureCount {
		return nil, fmt.Errorf("model has %d coefficients, want %d", len(raw.Coefficients), featureCount)
	}

	return &Model{
		country:      NewLabelEncoder(raw.Country),
		education:    NewLabelEncoder(raw.Education),
		coefficients: raw.Coefficients,
		intercept:    raw.Intercept,
	}, nil
}

func (m *Model) EncodeCountry(name string) (int, error) {
	return m.country.Encode(name)
}

func (m *Model) EncodeEducation(name string) (int, error) {
	return m.education.Encode(name)
}

func (m *Model) Countries() []string       { return m.country.Classes() }
func (m *Model) EducationLevels() []string { return m.education.Classes() }

// Predict evaluates the regression on an encoded feature vector.
func (m *Model) Predict(features []float64) (float64, error) {
	if len(features) != featureCount {
		return 0, fmt.Errorf("got %d features, want %d", len(features), featureCount)
	}
	y := m.intercept
	for i, x := range features {
		y += m.coefficients[i] * x
	}
	return y, nil
}

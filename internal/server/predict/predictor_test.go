package predict

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/logging"
)

func newTestPredictor(t *testing.T) *Predictor {
	t.Helper()
	m, err := LoadModel(context.Background(), "testdata/model.json", S3Options{})
	require.NoError(t, err)
	return NewPredictor(m, logging.Nop{})
}

func TestPredictor_Estimate(t *testing.T) {
	p := newTestPredictor(t)
	require.True(t, p.Ready())

	b, err := p.Estimate(context.Background(), Input{
		Country:         "Germany",
		Education:       "Post grad",
		YearsExperience: 3,
		Industry:        "Finance",
		JobTitle:        "Software Developer",
	})
	require.NoError(t, err)

	// 50000 + 1000*0 + 2000*3 + 3000*3
	assert.InDelta(t, 65000.0, b.Annual, 1e-9)
	assert.Equal(t, 105000.0, b.Comparison.Average)
	assert.Less(t, b.Comparison.Difference, 0.0)
}

func TestPredictor_Rejections(t *testing.T) {
	p := newTestPredictor(t)

	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"unknown country", Input{Country: "Atlantis", Education: "Post grad"}, common.ErrUnknownCategory},
		{"unknown education", Input{Country: "India", Education: "PhD"}, common.ErrUnknownCategory},
		{"negative experience", Input{Country: "India", Education: "Post grad", YearsExperience: -1}, common.ErrValidation},
		{"too much experience", Input{Country: "India", Education: "Post grad", YearsExperience: 51}, common.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Estimate(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPredictor_NoModel(t *testing.T) {
	p := NewPredictor(nil, logging.Nop{})
	assert.False(t, p.Ready())

	_, err := p.Estimate(context.Background(), Input{})
	assert.ErrorIs(t, err, common.ErrModelNotLoaded)
}

func TestPredictor_Options(t *testing.T) {
	o := newTestPredictor(t).Options()
	assert.Equal(t, []string{"Germany", "India", "United States"}, o.Countries)
	assert.Len(t, o.Education, 4)
	assert.Equal(t, Industries, o.Industries)

	empty := NewPredictor(nil, logging.Nop{}).Options()
	assert.Empty(t, empty.Countries)
	assert.Len(t, empty.Industries, 5)
}

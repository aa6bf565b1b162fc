package predict

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/logging"
	"github.com/dmitrijs2005/salarygate/internal/server/metrics"
)

const (
	MinExperience = 0
	MaxExperience = 50
)

// Input is what the prediction form collects. JobTitle is echoed only.
type Input struct {
	Country         string `json:"country"`
	Education       string `json:"education"`
	YearsExperience int    `json:"years_experience"`
	Industry        string `json:"industry"`
	JobTitle        string `json:"job_title"`
}

// Estimator is the model surface the Predictor needs.
type Estimator interface {
	EncodeCountry(name string) (int, error)
	EncodeEducation(name string) (int, error)
	Predict(features []float64) (float64, error)
	Countries() []string
	EducationLevels() []string
}

// Options lists the choices the prediction form offers.
type Options struct {
	Countries  []string `json:"countries"`
	Education  []string `json:"education"`
	Industries []string `json:"industries"`
}

// Predictor wraps a loaded model. A nil model makes every estimate fail
// with common.ErrModelNotLoaded so the server can start without one.
type Predictor struct {
	model  Estimator
	logger logging.Logger
}

func NewPredictor(model Estimator, logger logging.Logger) *Predictor {
	return &Predictor{model: model, logger: logger.With("module", "predict")}
}

func (p *Predictor) Ready() bool {
	return p.model != nil
}

// Options returns the categories the model knows. Without a model only the
// industries are listed.
func (p *Predictor) Options() Options {
	o := Options{Industries: append([]string(nil), Industries...)}
	if p.model != nil {
		o.Countries = p.model.Countries()
		o.Education = p.model.EducationLevels()
	}
	return o
}

func (p *Predictor) Estimate(ctx context.Context, in Input) (Breakdown, error) {
	start := time.Now()
	b, err := p.estimate(in)
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Predictions.WithLabelValues("failed").Inc()
		p.logger.Debug(ctx, "prediction rejected", "error", err)
		return Breakdown{}, err
	}
	metrics.Predictions.WithLabelValues("ok").Inc()
	return b, nil
}

func (p *Predictor) estimate(in Input) (Breakdown, error) {
	if p.model == nil {
		return Breakdown{}, common.ErrModelNotLoaded
	}
	if in.YearsExperience < MinExperience || in.YearsExperience > MaxExperience {
		return Breakdown{}, fmt.Errorf("%w: years of experience must be between %d and %d",
			common.ErrValidation, MinExperience, MaxExperience)
	}

	country, err := p.model.EncodeCountry(in.Country)
	if err != nil {
		return Breakdown{}, err
	}
	education, err := p.model.EncodeEducation(in.Education)
	if err != nil {
		return Breakdown{}, err
	}

	annual, err := p.model.Predict([]float64{float64(country), float64(education), float64(in.YearsExperience)})
	if err != nil {
		return Breakdown{}, fmt.Errorf("predict: %w", err)
	}

	return NewBreakdown(annual, in.Industry), nil
}

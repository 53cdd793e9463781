package heuristics

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"lintang/tspanneal/pkg/server"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// MaxEraLength bounds the iterations of a single era.
const MaxEraLength = 1_000_000_000

// AnnealingConfig holds the cooling schedule. CoolingMultiplier must be in
// (0,1) and both temperatures finite and above 0, otherwise the schedule
// never ends.
type AnnealingConfig struct {
	InitialTemperature float64 `json:"initial_temperature" yaml:"initial_temperature" validate:"finite,gt=0"`
	EraLength          int     `json:"era_length" yaml:"era_length" validate:"gte=1,lte=1000000000"`
	TemperatureFloor   float64 `json:"temperature_floor" yaml:"temperature_floor" validate:"finite,gt=0"`
	CoolingMultiplier  float64 `json:"cooling_multiplier" yaml:"cooling_multiplier" validate:"gt=0,lt=1"`

	// TrackBest additionally records the cheapest tour ever held in Result.Best.
	TrackBest bool `json:"track_best" yaml:"track_best"`
	// NormalizeInitialCost starts from the identity tour's cycle cost instead
	// of its open path cost.
	NormalizeInitialCost bool `json:"normalize_initial_cost" yaml:"normalize_initial_cost"`
	// PolishTwoOpt runs a 2-opt pass over the final tour and reports it in
	// Result.Polished. The final tour itself is not replaced.
	PolishTwoOpt bool `json:"polish_two_opt" yaml:"polish_two_opt"`
	// MaxTracePoints caps the accepted-state trace, 0 keeps every point.
	MaxTracePoints int `json:"max_trace_points" yaml:"max_trace_points" validate:"gte=0"`
}

func DefaultAnnealingConfig() AnnealingConfig {
	return AnnealingConfig{
		InitialTemperature: 1000.0,
		EraLength:          100000,
		TemperatureFloor:   0.1,
		CoolingMultiplier:  0.9,
	}
}

// Validate rejects schedules that cannot terminate or make no sense.
func (c AnnealingConfig) Validate() error {
	validate := validator.New()
	_ = validate.RegisterValidation("finite", isFinite)
	if err := validate.Struct(c); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		msgs := translateError(err, trans)
		return server.WrapErrorf(err, server.ErrBadParamInput, "invalid annealing config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func isFinite(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.Float32 && f.Kind() != reflect.Float64 {
		return true
	}
	return !math.IsInf(f.Float(), 0) && !math.IsNaN(f.Float())
}

func translateError(err error, trans ut.Translator) []string {
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(validatorErrs))
	for _, e := range validatorErrs {
		msgs = append(msgs, fmt.Sprint(e.Translate(trans)))
	}
	return msgs
}

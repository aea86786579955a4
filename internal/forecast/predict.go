package forecast

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// VolumeWeight scales volume in the closing price formula
const VolumeWeight = 0.00001

// ErrInvalidInput is returned for negative or non-finite prediction inputs
var ErrInvalidInput = errors.New("invalid prediction input")

// PredictionInput holds the four values of the prediction form
type PredictionInput struct {
	Open   float64
	High   float64
	Low    float64
	Volume float64
}

func (in PredictionInput) validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"open", in.Open},
		{"high", in.High},
		{"low", in.Low},
		{"volume", in.Volume},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidInput, f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s must be >= 0", ErrInvalidInput, f.name)
		}
	}
	return nil
}

// Predict estimates the closing price as (open+high+low)/3 + volume*VolumeWeight.
func Predict(in PredictionInput) (float64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	mean := (in.Open + in.High + in.Low) / 3
	// explicit conversion keeps the product rounded before the add (no FMA)
	value := mean + float64(in.Volume*VolumeWeight)
	if math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: inputs are too large to combine", ErrInvalidInput)
	}
	return value, nil
}

// FormatPrice renders v as dollars with two fractional digits
func FormatPrice(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

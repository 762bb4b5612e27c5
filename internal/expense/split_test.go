package expense

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestShare(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		ratio  float64
		want   float64
	}{
		{"60/40 custody split, parent1 view", 100, 60, 60},
		{"60/40 custody split, parent2 view", 100, 40, 40},
		{"even split", 85.50, 50, 42.75},
		{"full responsibility", 120, 100, 120},
		{"no responsibility", 120, 0, 0},
		{"cents stay exact enough", 33.33, 50, 16.665},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Share(tt.amount, tt.ratio)
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("Share(%v, %v) = %v, want %v", tt.amount, tt.ratio, got, tt.want)
			}
		})
	}
}

// The two shares of any split must reassemble the original amount.
func TestShareComplement(t *testing.T) {
	amounts := []float64{0.01, 1, 99.99, 100, 1234.56, 100000}
	ratios := []float64{0, 12.5, 40, 50, 60, 99, 100}
	for _, amount := range amounts {
		for _, ratio := range ratios {
			sum := Share(amount, ratio) + Share(amount, 100-ratio)
			if math.Abs(sum-amount) > 1e-6 {
				t.Errorf("shares of %v at ratio %v sum to %v", amount, ratio, sum)
			}
			if math.Abs(PartnerShare(amount, ratio)-Share(amount, 100-ratio)) > 1e-6 {
				t.Errorf("PartnerShare(%v, %v) disagrees with complement share", amount, ratio)
			}
		}
	}
}

func TestSplitRatioValidate(t *testing.T) {
	tests := []struct {
		name    string
		ratio   SplitRatio
		wantErr bool
	}{
		{"60/40", SplitRatio{60, 40}, false},
		{"even", EvenSplit(), false},
		{"all on one parent", SplitRatio{100, 0}, false},
		{"float noise tolerated", SplitRatio{33.333, 66.667}, false},
		{"does not sum to 100", SplitRatio{60, 50}, true},
		{"negative part", SplitRatio{-10, 110}, true},
		{"zero ratio", SplitRatio{0, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ratio.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

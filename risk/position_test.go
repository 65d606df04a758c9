package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_ScenarioA(t *testing.T) {
	t.Parallel()

	got, err := Calculate(Inputs{Entry: 100, Balance: 10000, RiskFraction: 0.01})
	require.NoError(t, err)

	assert.InDelta(t, 99.0, got.Stop, 1e-9)
	assert.InDelta(t, 102.0, got.Target, 1e-9)
	assert.InDelta(t, 100.0, got.RiskAmount, 1e-9)
	assert.InDelta(t, 100.0, got.Size, 1e-6)
	assert.NoError(t, got.Validate())
	assert.InDelta(t, 2.0, got.RR(), 1e-9)
}

func TestCalculate_Properties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Inputs
	}{
		{"spy", Inputs{Entry: 512.37, Balance: 10000, RiskFraction: 0.01}},
		{"penny", Inputs{Entry: 0.031, Balance: 2500, RiskFraction: 0.02}},
		{"large balance", Inputs{Entry: 135.5, Balance: 1e7, RiskFraction: 0.005}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Calculate(tt.in)
			require.NoError(t, err)

			assert.InDelta(t, tt.in.Entry*0.99, got.Stop, 1e-9*tt.in.Entry)
			assert.InDelta(t, tt.in.Entry*1.02, got.Target, 1e-9*tt.in.Entry)

			want := tt.in.Balance * tt.in.RiskFraction / (tt.in.Entry - got.Stop)
			assert.InDelta(t, want, got.Size, 1e-9*want)

			// Loss at the stop is the risk amount.
			assert.InDelta(t, got.RiskAmount, PlannedRisk(got.Size, got.Entry, got.Stop), 1e-6*got.RiskAmount)
			assert.InDelta(t, tt.in.RiskFraction, RiskPct(got.RiskAmount, tt.in.Balance), 1e-12)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestCalculate_Degenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Inputs
	}{
		{"zero entry", Inputs{Entry: 0, Balance: 10000, RiskFraction: 0.01}},
		{"negative entry", Inputs{Entry: -5, Balance: 10000, RiskFraction: 0.01}},
		{"nan entry", Inputs{Entry: math.NaN(), Balance: 10000, RiskFraction: 0.01}},
		{"inf entry", Inputs{Entry: math.Inf(1), Balance: 10000, RiskFraction: 0.01}},
		{"zero balance", Inputs{Entry: 100, Balance: 0, RiskFraction: 0.01}},
		{"zero risk", Inputs{Entry: 100, Balance: 10000, RiskFraction: 0}},
		{"full risk", Inputs{Entry: 100, Balance: 10000, RiskFraction: 1}},
		{"tiny entry underflows stop distance", Inputs{Entry: 5e-324, Balance: 10000, RiskFraction: 0.01}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Calculate(tt.in)
			assert.ErrorIs(t, err, ErrDegenerateSizing)
		})
	}
}

func TestPlanValidate(t *testing.T) {
	t.Parallel()

	assert.Error(t, Plan{Entry: 100, Stop: 101, Target: 102, Size: 1}.Validate())
	assert.Error(t, Plan{Entry: 100, Stop: 99, Target: 100, Size: 1}.Validate())
	assert.Error(t, Plan{Entry: 100, Stop: 99, Target: 102, Size: 0}.Validate())
	assert.Error(t, Plan{Entry: 100, Stop: 99, Target: 102, Size: math.Inf(1)}.Validate())
	assert.NoError(t, Plan{Entry: 100, Stop: 99, Target: 102, Size: 1}.Validate())
}

func TestRR(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0, RR(100, 99, 102), 1e-9)
	assert.Equal(t, 0.0, RR(100, 100, 102))
	assert.True(t, math.IsInf(RiskPct(10, 0), 1))
}

package units

import (
	"testing"

	"fitbattle-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func tenth(v float64) float64 { return round1(decimal.NewFromFloat(v)) }

func TestKgToLb(t *testing.T) {
	cases := []struct {
		kg   float64
		want float64
	}{
		{0, 0},
		{0.5, 1.1},
		{70, 154.3},
		{100, 220.5},
		{82.3, 181.4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KgToLb(tc.kg), "kg=%v", tc.kg)
	}
}

func TestLbToKg(t *testing.T) {
	assert.Equal(t, 70.0, LbToKg(154.3))
	assert.Equal(t, 100.0, LbToKg(220.5))
	assert.Equal(t, 45.4, LbToKg(100))
	assert.Equal(t, 0.0, LbToKg(0))
}

func TestRounding_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 2.3, tenth(2.25))
	assert.Equal(t, -2.3, tenth(-2.25))
	assert.Equal(t, 0.1, tenth(0.05))
	assert.Equal(t, 1.2, tenth(1.24))
}

func TestRoundTrip(t *testing.T) {
	// kg -> lb -> kg comes back to the same tenth; lb -> kg -> lb may drift
	// by up to the width of one kg tenth expressed in pounds.
	for kg := 30.0; kg < 200; kg += 0.7 {
		kg = tenth(kg)
		assert.InDelta(t, kg, LbToKg(KgToLb(kg)), 0.1+1e-9, "kg=%v", kg)
	}
	for lb := 60.0; lb < 400; lb += 1.3 {
		lb = tenth(lb)
		assert.InDelta(t, lb, KgToLb(LbToKg(lb)), 0.12+1e-9, "lb=%v", lb)
	}
}

func TestPresent(t *testing.T) {
	assert.Equal(t, 154.3, Present(70, models.MetricWeight, models.UnitImperial))
	assert.Equal(t, 70.0, Present(70, models.MetricWeight, models.UnitMetric))
	assert.Equal(t, 30.0, Present(30, models.MetricMuscleMass, models.UnitImperial))
	assert.Equal(t, 20.5, Present(20.5, models.MetricBodyFat, models.UnitImperial))

	assert.Nil(t, PresentPtr(nil, models.MetricWeight, models.UnitImperial))
	v := 70.0
	assert.Equal(t, 154.3, *PresentPtr(&v, models.MetricWeight, models.UnitImperial))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 70.0, Normalize(154.3, models.MetricWeight, models.UnitImperial))
	assert.Equal(t, 154.3, Normalize(154.3, models.MetricWeight, models.UnitMetric))
	assert.Equal(t, 25.0, Normalize(25, models.MetricBodyFat, models.UnitImperial))
	assert.Nil(t, NormalizePtr(nil, models.MetricWeight, models.UnitImperial))
}

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-scoring/internal/domain"
)

func TestClassicDecision(t *testing.T) {
	v := Classic()

	for _, p := range []float64{0, 0.25, 0.5} {
		approved, band, msg := v.Classify(p)
		assert.False(t, approved, "p=%v", p)
		assert.Empty(t, band)
		assert.Equal(t, v.Messages.Refused, msg)
	}

	// La franja (0.5, 0.6] tambien se rechaza con el mismo mensaje.
	for _, p := range []float64{0.5000001, 0.55, 0.6} {
		approved, _, msg := v.Classify(p)
		assert.False(t, approved, "p=%v", p)
		assert.Equal(t, v.Messages.Refused, msg)
	}

	for _, p := range []float64{0.6000001, 0.62, 0.9, 1} {
		approved, _, msg := v.Classify(p)
		assert.True(t, approved, "p=%v", p)
		assert.Equal(t, v.Messages.Approved, msg)
	}
}

func TestDashboardDecision(t *testing.T) {
	v := Dashboard()

	for _, p := range []float64{0.5, 0.62, 1} {
		approved, _, _ := v.Classify(p)
		assert.True(t, approved, "p=%v", p)
	}
	for _, p := range []float64{0, 0.45, 0.4999999} {
		approved, _, _ := v.Classify(p)
		assert.False(t, approved, "p=%v", p)
	}
}

func TestDashboardRiskBands(t *testing.T) {
	v := Dashboard()
	cases := []struct {
		p    float64
		want domain.RiskBand
	}{
		{0.95, domain.RiskBandLow},
		{0.7000001, domain.RiskBandLow},
		{0.7, domain.RiskBandMedium},
		{0.62, domain.RiskBandMedium},
		{0.5, domain.RiskBandHigh},
		{0.45, domain.RiskBandHigh},
		{0, domain.RiskBandHigh},
	}
	for _, tc := range cases {
		_, band, _ := v.Classify(tc.p)
		assert.Equal(t, tc.want, band, "p=%v", tc.p)
	}
}

func TestRiskBandMonotonic(t *testing.T) {
	rb := Dashboard().RiskBands
	require.NotNil(t, rb)

	prev := rb.Band(0)
	for i := 1; i <= 1000; i++ {
		p := float64(i) / 1000
		cur := rb.Band(p)
		assert.LessOrEqual(t, cur.Rank(), prev.Rank(), "band got worse at p=%v", p)
		prev = cur
	}
}

func TestCheckRecord(t *testing.T) {
	v := Dashboard()

	ok := domain.ApplicationRecord{EmploymentStatus: "Employed", InterestRate: 10, EducationLevel: "Master's"}
	require.NoError(t, v.CheckRecord(ok))

	casing := ok
	casing.EmploymentStatus = "Self-employed"
	assert.Error(t, v.CheckRecord(casing))
	assert.NoError(t, Classic().CheckRecord(casing))

	edu := ok
	edu.EducationLevel = "Kindergarten"
	assert.Error(t, v.CheckRecord(edu))

	rate := ok
	rate.InterestRate = 0.5
	assert.Error(t, v.CheckRecord(rate))
	assert.NoError(t, Classic().CheckRecord(rate))
}

func TestVariantValidate(t *testing.T) {
	require.NoError(t, Classic().Validate())
	require.NoError(t, Dashboard().Validate())

	bad := Dashboard()
	bad.RiskBands = &RiskBandPolicy{LowAbove: 0.5, MediumAbove: 0.7}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidVariant)

	bad = Classic()
	bad.Decision.Threshold = 1.5
	assert.ErrorIs(t, bad.Validate(), ErrInvalidVariant)

	bad = Classic()
	bad.Domains.EducationLevels = nil
	assert.ErrorIs(t, bad.Validate(), ErrInvalidVariant)

	bad = Classic()
	bad.Domains.InterestRate.Default = 40
	assert.ErrorIs(t, bad.Validate(), ErrInvalidVariant)

	bad = Classic()
	bad.Domains.InterestRate.Step = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidVariant)
}

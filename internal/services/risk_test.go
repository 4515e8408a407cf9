package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskNoData(t *testing.T) {
	res := CalculateRisk(RiskInput{})
	assert.Equal(t, "No Data", res.RiskLevel)
	assert.Equal(t, 0.0, res.CombinedScore)
	assert.Nil(t, res.MBI)
	assert.NotEmpty(t, res.Recommendations)
}

func TestRiskHighFromMBIOnly(t *testing.T) {
	res := CalculateRisk(RiskInput{
		MBI: &MBIScores{EmotionalExhaustion: 54, Depersonalization: 30, PersonalAccomplishment: 0},
	})
	require.NotNil(t, res.MBI)
	assert.Equal(t, 10.0, res.CombinedScore)
	assert.Equal(t, "High", res.RiskLevel)
}

func TestRiskLowFromMBIOnly(t *testing.T) {
	res := CalculateRisk(RiskInput{
		MBI: &MBIScores{EmotionalExhaustion: 0, Depersonalization: 0, PersonalAccomplishment: 48},
	})
	assert.Equal(t, 0.0, res.CombinedScore)
	assert.Equal(t, "Low", res.RiskLevel)
}

func TestRiskWeightsRenormalizeWithoutMBI(t *testing.T) {
	// Moods all worst, micro all worst: both components score 10, so the
	// combined score must be 10 regardless of the missing MBI weight.
	res := CalculateRisk(RiskInput{
		Micro: []MicroSample{{FatigueLevel: 5, StressLevel: 5, WorkSatisfaction: 1}},
		Moods: []string{"Anxious", "Anxious"},
	})
	assert.Equal(t, 10.0, res.CombinedScore)
	assert.Equal(t, "High", res.RiskLevel)
	assert.Nil(t, res.MBI)
}

func TestRiskMoodOnlyAverage(t *testing.T) {
	// Okay (4) averages to (6-4)/5*10 = 4.0 -> Medium.
	res := CalculateRisk(RiskInput{Moods: []string{"Okay", "Okay"}})
	require.NotNil(t, res.Mood)
	assert.Equal(t, 4.0, res.CombinedScore)
	assert.Equal(t, "Medium", res.RiskLevel)
}

func TestRiskIgnoresUnknownMoodStrings(t *testing.T) {
	res := CalculateRisk(RiskInput{Moods: []string{"banana"}})
	assert.Equal(t, "No Data", res.RiskLevel)
	assert.Nil(t, res.Mood)
}

func TestRiskWeightedCombination(t *testing.T) {
	// MBI mid signal and a clean mood history: combined = (mbi*0.5 + 0*0.2) / 0.7.
	res := CalculateRisk(RiskInput{
		MBI:   &MBIScores{EmotionalExhaustion: 27, Depersonalization: 15, PersonalAccomplishment: 24},
		Moods: []string{"Excellent"},
	})
	require.NotNil(t, res.MBI)
	require.NotNil(t, res.Mood)
	assert.InDelta(t, 5.0, res.MBI.Score, 0.01)
	assert.Equal(t, 0.0, res.Mood.Score)
	assert.InDelta(t, 3.6, res.CombinedScore, 0.01)
}

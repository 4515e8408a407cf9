package services

import "math"

// Weighted burnout risk, combining the three signal sources the app
// collects. Weights re-normalize when a source has no data, so a user with
// only mood entries still gets a score instead of a skewed one.
const (
	mbiWeight   = 0.5
	microWeight = 0.3
	moodWeight  = 0.2
)

// Subscale maxima: EE has 9 items, DP 5, PA 8, each scored 0-6.
const (
	maxEmotionalExhaustion    = 54.0
	maxDepersonalization      = 30.0
	maxPersonalAccomplishment = 48.0
)

// MoodScore maps the fixed mood vocabulary onto a 1-6 scale, best to worst.
var MoodScore = map[string]float64{
	"Excellent": 6,
	"Good":      5,
	"Okay":      4,
	"Stressed":  3,
	"Tired":     2,
	"Anxious":   1,
}

type MBIScores struct {
	EmotionalExhaustion    int
	Depersonalization      int
	PersonalAccomplishment int
}

type MicroSample struct {
	FatigueLevel     int
	StressLevel      int
	WorkSatisfaction int
}

type RiskInput struct {
	MBI   *MBIScores // latest assessment, nil if none taken
	Micro []MicroSample
	Moods []string
}

type RiskComponent struct {
	Score  float64 `json:"score"` // 0-10, higher is worse
	Weight float64 `json:"weight"`
}

type RiskResult struct {
	CombinedScore   float64         `json:"combined_score"` // 0-10
	RiskLevel       string          `json:"risk_level"`     // Low, Medium, High, No Data
	MBI             *RiskComponent  `json:"mbi,omitempty"`
	MicroAssessment *RiskComponent  `json:"micro_assessments,omitempty"`
	Mood            *RiskComponent  `json:"mood_entries,omitempty"`
	Recommendations []string        `json:"recommendations"`
}

// CalculateRisk is pure; callers supply whatever windows of data they want
// weighted (the handler uses the latest MBI and 30 days of the rest).
func CalculateRisk(in RiskInput) RiskResult {
	type part struct {
		score  float64
		weight float64
	}
	var parts []part
	res := RiskResult{RiskLevel: "No Data"}

	if in.MBI != nil {
		ee := float64(in.MBI.EmotionalExhaustion) / maxEmotionalExhaustion
		dp := float64(in.MBI.Depersonalization) / maxDepersonalization
		// Low personal accomplishment raises risk, so invert.
		pa := 1 - float64(in.MBI.PersonalAccomplishment)/maxPersonalAccomplishment
		score := clamp((ee + dp + pa) / 3 * 10)
		res.MBI = &RiskComponent{Score: round1(score), Weight: mbiWeight}
		parts = append(parts, part{score, mbiWeight})
	}

	if len(in.Micro) > 0 {
		var fatigue, stress, satisfaction float64
		for _, m := range in.Micro {
			fatigue += float64(m.FatigueLevel)
			stress += float64(m.StressLevel)
			satisfaction += float64(m.WorkSatisfaction)
		}
		n := float64(len(in.Micro))
		// Each input sits on a 1-5 scale; satisfaction is inverted.
		avg := (fatigue/n + stress/n + (6 - satisfaction/n)) / 3
		score := clamp((avg - 1) / 4 * 10)
		res.MicroAssessment = &RiskComponent{Score: round1(score), Weight: microWeight}
		parts = append(parts, part{score, microWeight})
	}

	if len(in.Moods) > 0 {
		var total float64
		counted := 0
		for _, m := range in.Moods {
			if v, ok := MoodScore[m]; ok {
				total += v
				counted++
			}
		}
		if counted > 0 {
			avg := total / float64(counted)
			score := clamp((6 - avg) / 5 * 10)
			res.Mood = &RiskComponent{Score: round1(score), Weight: moodWeight}
			parts = append(parts, part{score, moodWeight})
		}
	}

	if len(parts) == 0 {
		res.Recommendations = []string{"Complete a quick check-in or MBI assessment to see your burnout risk."}
		return res
	}

	var weighted, totalWeight float64
	for _, p := range parts {
		weighted += p.score * p.weight
		totalWeight += p.weight
	}
	res.CombinedScore = round1(weighted / totalWeight)

	switch {
	case res.CombinedScore < 3.5:
		res.RiskLevel = "Low"
		res.Recommendations = []string{
			"You're doing well. Keep up your current self-care routines.",
			"A short breathing or stretching session helps maintain the balance.",
		}
	case res.CombinedScore < 6.5:
		res.RiskLevel = "Medium"
		res.Recommendations = []string{
			"Consider scheduling regular breaks during your shifts.",
			"Try a daily wellness activity to build a recovery habit.",
			"Journaling can help identify recurring stressors.",
		}
	default:
		res.RiskLevel = "High"
		res.Recommendations = []string{
			"Your signals suggest significant strain. Please consider speaking with a mental health professional.",
			"Prioritize sleep and time away from work where possible.",
			"Reach out to a trusted colleague or supervisor about your workload.",
		}
	}
	return res
}

func clamp(v float64) float64 {
	return math.Min(10, math.Max(0, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

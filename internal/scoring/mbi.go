// Package scoring computes Maslach Burnout Inventory subscale totals.
package scoring

import (
	"errors"
	"fmt"
)

// QuestionCount is the number of items on the MBI questionnaire.
const QuestionCount = 22

// Answer bounds, inclusive.
const (
	MinAnswerValue = 0
	MaxAnswerValue = 6
)

// The three subscales partition question ids 1-22.
var (
	emotionalExhaustionItems    = map[int]bool{1: true, 2: true, 3: true, 6: true, 8: true, 13: true, 14: true, 16: true, 20: true}
	depersonalizationItems      = map[int]bool{5: true, 10: true, 11: true, 15: true, 22: true}
	personalAccomplishmentItems = map[int]bool{4: true, 7: true, 9: true, 12: true, 17: true, 18: true, 19: true, 21: true}
)

type Answer struct {
	QuestionID  int `json:"question_id"`
	AnswerValue int `json:"answer_value"`
}

type Result struct {
	EmotionalExhaustion    int `json:"emotional_exhaustion"`
	Depersonalization      int `json:"depersonalization"`
	PersonalAccomplishment int `json:"personal_accomplishment"`
}

var ErrAnswerCount = errors.New("exactly 22 answers required")

// Validate checks the submission shape: exactly 22 answers, question ids
// 1-22 each appearing once, values within [0,6]. Nothing may be persisted
// for a submission that fails here.
func Validate(answers []Answer) error {
	if len(answers) != QuestionCount {
		return ErrAnswerCount
	}
	seen := make(map[int]bool, QuestionCount)
	for _, a := range answers {
		if a.QuestionID < 1 || a.QuestionID > QuestionCount {
			return fmt.Errorf("question_id %d out of range", a.QuestionID)
		}
		if seen[a.QuestionID] {
			return fmt.Errorf("duplicate answer for question %d", a.QuestionID)
		}
		seen[a.QuestionID] = true
		if a.AnswerValue < MinAnswerValue || a.AnswerValue > MaxAnswerValue {
			return fmt.Errorf("answer for question %d outside [0,6]", a.QuestionID)
		}
	}
	return nil
}

// Score sums answer values into the three subscale totals. Callers must
// Validate first; Score itself assumes a well-formed submission.
func Score(answers []Answer) Result {
	var r Result
	for _, a := range answers {
		switch {
		case emotionalExhaustionItems[a.QuestionID]:
			r.EmotionalExhaustion += a.AnswerValue
		case depersonalizationItems[a.QuestionID]:
			r.Depersonalization += a.AnswerValue
		case personalAccomplishmentItems[a.QuestionID]:
			r.PersonalAccomplishment += a.AnswerValue
		}
	}
	return r
}

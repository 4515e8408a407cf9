package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allAnswers(value int) []Answer {
	answers := make([]Answer, 0, QuestionCount)
	for q := 1; q <= QuestionCount; q++ {
		answers = append(answers, Answer{QuestionID: q, AnswerValue: value})
	}
	return answers
}

func TestSubscalesPartitionAllQuestions(t *testing.T) {
	// Every question id must land in exactly one subscale, so with all
	// answers equal the subscale sums account for every item once.
	answers := allAnswers(3)
	r := Score(answers)
	assert.Equal(t, 3*QuestionCount, r.EmotionalExhaustion+r.Depersonalization+r.PersonalAccomplishment)
	assert.Equal(t, 9*3, r.EmotionalExhaustion)
	assert.Equal(t, 5*3, r.Depersonalization)
	assert.Equal(t, 8*3, r.PersonalAccomplishment)
}

func TestScoreMaxEmotionalExhaustion(t *testing.T) {
	ee := map[int]bool{1: true, 2: true, 3: true, 6: true, 8: true, 13: true, 14: true, 16: true, 20: true}
	answers := make([]Answer, 0, QuestionCount)
	for q := 1; q <= QuestionCount; q++ {
		v := 0
		if ee[q] {
			v = 6
		}
		answers = append(answers, Answer{QuestionID: q, AnswerValue: v})
	}
	require.NoError(t, Validate(answers))
	r := Score(answers)
	assert.Equal(t, 54, r.EmotionalExhaustion)
	assert.Equal(t, 0, r.Depersonalization)
	assert.Equal(t, 0, r.PersonalAccomplishment)
}

func TestValidateRejectsWrongCount(t *testing.T) {
	assert.ErrorIs(t, Validate(allAnswers(1)[:21]), ErrAnswerCount)
	assert.ErrorIs(t, Validate(nil), ErrAnswerCount)
	assert.ErrorIs(t, Validate(append(allAnswers(1), Answer{QuestionID: 1, AnswerValue: 1})), ErrAnswerCount)
}

func TestValidateRejectsOutOfRangeValues(t *testing.T) {
	answers := allAnswers(2)
	answers[4].AnswerValue = 7
	assert.Error(t, Validate(answers))

	answers = allAnswers(2)
	answers[0].AnswerValue = -1
	assert.Error(t, Validate(answers))

	assert.NoError(t, Validate(allAnswers(0)))
	assert.NoError(t, Validate(allAnswers(6)))
}

func TestValidateRejectsDuplicateQuestion(t *testing.T) {
	answers := allAnswers(1)
	answers[21].QuestionID = 1
	assert.Error(t, Validate(answers))
}

func TestValidateRejectsUnknownQuestion(t *testing.T) {
	answers := allAnswers(1)
	answers[0].QuestionID = 23
	assert.Error(t, Validate(answers))
}

package service

import (
	"testing"

	"learnhub/internal/models"
)

func fourQuestions() []models.QuizQuestion {
	return []models.QuizQuestion{
		{Question: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
		{Question: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1},
		{Question: "Q3", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 2},
		{Question: "Q4", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 3},
	}
}

func TestScore(t *testing.T) {
	testCases := []struct {
		name     string
		answers  []int
		expected float64
	}{
		{"all correct", []int{0, 1, 2, 3}, 100},
		{"all wrong", []int{1, 2, 3, 0}, 0},
		{"half correct", []int{0, 1, 0, 0}, 50},
		{"missing answers count as wrong", []int{0, 1}, 50},
		{"out of range answers count as wrong", []int{0, 1, 9, -1}, 50},
		{"no answers", nil, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(fourQuestions(), tc.answers)
			if got != tc.expected {
				t.Errorf("Expected score %.1f, got %.1f", tc.expected, got)
			}
		})
	}
}

func TestScoreEmptyQuiz(t *testing.T) {
	if got := Score(nil, []int{0, 1}); got != 0 {
		t.Errorf("Expected 0 for empty quiz, got %.1f", got)
	}
}

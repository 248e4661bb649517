package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"learnhub/internal/models"
)

// ErrRateLimited marks a 429 from the generation API. Callers retry these
// with backoff; every other failure is ErrInvalidResponse or transport-level.
var (
	ErrRateLimited     = errors.New("llm: rate limited")
	ErrInvalidResponse = errors.New("llm: response did not parse into well-formed questions")
)

// Client calls a Gemini-style generateContent endpoint to produce
// multiple-choice quiz questions from video transcripts.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Model      string
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
	}
}

type contentPart struct {
	Text string `json:"text"`
}

type content struct {
	Parts []contentPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateQuiz asks the model for exactly numQuestions MCQs about the video
// and validates the returned structure strictly. Any structural mismatch is
// ErrInvalidResponse so the worker treats it as retryable.
func (c *Client) GenerateQuiz(ctx context.Context, video *models.Video, numQuestions int) ([]models.QuizQuestion, error) {
	content := video.Transcript
	if content == "" {
		content = video.Description
	}
	if content == "" {
		content = fmt.Sprintf("Educational content about %s", video.Title)
	}

	prompt := buildQuizPrompt(video.Title, content, video.Topics, video.Difficulty, numQuestions)
	raw, err := c.generate(ctx, prompt, 1500)
	if err != nil {
		return nil, err
	}
	questions, err := ParseQuestions(raw, numQuestions)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func buildQuizPrompt(title, content string, topics []string, difficulty string, n int) string {
	topicStr := strings.Join(topics, ", ")
	if topicStr == "" {
		topicStr = "General"
	}
	return fmt.Sprintf(`Generate exactly %d multiple choice quiz questions for an educational video.

Video Title: %s
Topics: %s
Difficulty: %s
Video Transcript: %s

Return ONLY a valid JSON array with exactly %d questions in this format:
[
  {
    "question": "What is...",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correct_answer": 0
  }
]

Requirements:
- All questions MUST be directly based on specific facts, concepts, or explanations from the transcript
- For %s difficulty, adjust complexity accordingly
- Each question must have exactly 4 options
- correct_answer is the index (0-3) of the correct option
- Return ONLY the JSON array, no other text
`, n, title, topicStr, difficulty, content, n, difficulty)
}

func (c *Client) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []contentPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.3,
			MaxOutputTokens: maxTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidate list", ErrInvalidResponse)
	}
	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

// ParseQuestions decodes the model output into quiz questions, tolerating
// markdown code fences but nothing else. It rejects the whole batch unless
// every question has exactly 4 options, a correct index in range, and a
// non-empty prompt, and at least want questions survive.
func ParseQuestions(raw string, want int) ([]models.QuizQuestion, error) {
	clean := StripCodeFence(raw)

	var questions []models.QuizQuestion
	if err := json.Unmarshal([]byte(clean), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("%w: question %d has no prompt", ErrInvalidResponse, i)
		}
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("%w: question %d has %d options", ErrInvalidResponse, i, len(q.Options))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, fmt.Errorf("%w: question %d correct_answer out of range", ErrInvalidResponse, i)
		}
	}
	if len(questions) < want {
		return nil, fmt.Errorf("%w: got %d questions, want %d", ErrInvalidResponse, len(questions), want)
	}
	return questions[:want], nil
}

// StripCodeFence removes a surrounding ```json ... ``` block if present.
func StripCodeFence(s string) string {
	clean := strings.TrimSpace(s)
	if !strings.HasPrefix(clean, "```") {
		return clean
	}
	parts := strings.Split(clean, "```")
	if len(parts) < 2 {
		return clean
	}
	clean = parts[1]
	clean = strings.TrimPrefix(clean, "json")
	return strings.TrimSpace(clean)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/Saksham-w/askme/internal/logger"
)

const prompt = `Generate 4 creative and engaging anonymous questions for a social messaging app. Separate each question with ||. Keep them friendly and thought-provoking.

Example: What's your biggest dream?||What makes you smile?||If you could learn any skill instantly, what would it be?||What's the best advice you've ever received?

Generate 4 new questions now:`

// fallbackPool backs the suggestion endpoint when the upstream model is
// unreachable or returns something unparseable.
var fallbackPool = []string{
	"What's something that made you smile today?",
	"If you could have dinner with anyone, who would it be?",
	"What's a skill you'd love to learn?",
	"What's your favorite way to relax?",
	"What's the best advice you've ever received?",
	"If you could live anywhere in the world, where would it be?",
	"What's a small thing that always brightens your day?",
	"What book or movie changed how you see things?",
}

// Client fetches icebreaker question suggestions from a hosted language
// model.
type Client struct {
	http   *http.Client
	url    string
	logger *logger.Logger
}

// NewClient creates a suggestion client for the given inference endpoint.
func NewClient(url string, log *logger.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: 10 * time.Second},
		url:    url,
		logger: log,
	}
}

// Suggest returns four icebreaker questions. Upstream failures are reported
// once in the log and answered from the local pool; the caller never sees
// an error.
func (c *Client) Suggest(ctx context.Context) []string {
	questions, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("suggestion upstream failed, using local pool", "error", err.Error())
		return c.fallback()
	}
	return questions
}

func (c *Client) fetch(ctx context.Context) ([]string, error) {
	payload := map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"max_new_tokens": 200,
			"temperature":    0.7,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var results []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, errors.New("empty response")
	}

	return parseQuestions(results[0].GeneratedText)
}

// parseQuestions extracts ||-separated questions from generated text. The
// model echoes the prompt, so only the first line containing the separator
// counts.
func parseQuestions(text string) ([]string, error) {
	var line string
	for _, l := range strings.Split(text, "\n") {
		if strings.Contains(l, "||") {
			line = l
			break
		}
	}
	if line == "" {
		return nil, errors.New("no questions in generated text")
	}

	var questions []string
	for _, q := range strings.Split(line, "||") {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, errors.New("no questions in generated text")
	}
	return questions, nil
}

func (c *Client) fallback() []string {
	picks := rand.Perm(len(fallbackPool))[:4]
	questions := make([]string, 0, 4)
	for _, i := range picks {
		questions = append(questions, fallbackPool[i])
	}
	return questions
}

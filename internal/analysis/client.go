// Package analysis talks to an OpenAI-compatible chat completions API to
// annotate queue entries and explain matches.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/pkg/errors"
)

const chatCompletionsPath = "/v1/chat/completions"

// TextAnalysis is what the oracle extracts from free text.
type TextAnalysis struct {
	Keywords  []string `json:"keywords"`
	Sentiment string   `json:"sentiment"`
}

// Oracle is an opaque text-in, text-out collaborator.
type Oracle interface {
	Analyze(ctx context.Context, text string) (TextAnalysis, error)
	Explain(ctx context.Context, a, b *models.UserProfile, score float64) (string, error)
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("analysis: base url required")
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      cfg.Model,
		httpClient: httpClient,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Analyze(ctx context.Context, text string) (TextAnalysis, error) {
	prompt := "Analyze the following Overwatch player's matching priority requirements. " +
		"Extract key preferences, dislikes, and overall sentiment. Reply with a JSON object with " +
		"'keywords' (an array of strings) and 'sentiment' (one of 'positive', 'negative', 'neutral').\n\n" +
		fmt.Sprintf("Requirements: %q", text)

	content, err := c.complete(ctx, prompt, &responseFormat{Type: "json_object"})
	if err != nil {
		return TextAnalysis{}, err
	}

	var out TextAnalysis
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return TextAnalysis{}, errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "malformed analysis reply")
	}
	if out.Keywords == nil {
		out.Keywords = []string{}
	}
	return out, nil
}

func (c *Client) Explain(ctx context.Context, a, b *models.UserProfile, score float64) (string, error) {
	var sb strings.Builder
	sb.WriteString("두 오버워치 플레이어가 매칭되었습니다. 이들이 잘 맞는 이유를 친근하고 긍정적인 톤으로 2-3문장으로 설명해주세요.\n")
	for i, p := range []*models.UserProfile{a, b} {
		fmt.Fprintf(&sb, "\n플레이어 %d:\n- MBTI: %s\n- 주 영웅: %s\n- 주 역할: %s\n- 커뮤니케이션 스타일: %s\n",
			i+1, p.MBTI, p.Hero, p.MainRole, p.SelfCommunicationStyle)
	}
	fmt.Fprintf(&sb, "\n매칭 점수: %.2f/1.00\n\n설명:", score)

	content, err := c.complete(ctx, sb.String(), nil)
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.New(errors.ErrCodeDependencyUnavailable, "empty explanation")
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, prompt string, format *responseFormat) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		Temperature:    0.3,
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "oracle request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to read oracle reply")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.ErrCodeDependencyUnavailable,
			fmt.Sprintf("oracle returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "malformed oracle reply")
	}
	if len(out.Choices) == 0 {
		return "", errors.New(errors.ErrCodeDependencyUnavailable, "oracle reply has no choices")
	}
	return out.Choices[0].Message.Content, nil
}

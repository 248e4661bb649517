package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MaxTranscriptChars caps transcript length so LLM prompts stay a sane size.
const MaxTranscriptChars = 5000

// TranscriptClient fetches video captions from the timedtext endpoint.
type TranscriptClient struct {
	HTTPClient *http.Client
	BaseURL    string
	Languages  []string
}

func NewTranscriptClient() *TranscriptClient {
	return &TranscriptClient{
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
		BaseURL:    "https://video.google.com/timedtext",
		Languages:  []string{"en", ""},
	}
}

type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// Transcript returns the caption text for a video, preferring English and
// falling back to whatever track the endpoint serves by default. An empty
// string (not an error) means no captions are available; quiz generation
// then falls back to the video description.
func (c *TranscriptClient) Transcript(ctx context.Context, videoID string) (string, error) {
	var lastErr error
	for _, lang := range c.Languages {
		text, err := c.fetch(ctx, videoID, lang)
		if err != nil {
			lastErr = err
			continue
		}
		if text != "" {
			return text, nil
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", nil
}

func (c *TranscriptClient) fetch(ctx context.Context, videoID, lang string) (string, error) {
	params := url.Values{}
	params.Set("v", videoID)
	if lang != "" {
		params.Set("lang", lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcript request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript endpoint returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return JoinTranscript(body), nil
}

// JoinTranscript flattens a timedtext XML document into one capped string.
func JoinTranscript(raw []byte) string {
	var doc timedText
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		s := strings.TrimSpace(html.UnescapeString(t.Value))
		if s != "" {
			parts = append(parts, s)
		}
	}
	joined := strings.Join(parts, " ")
	if len(joined) > MaxTranscriptChars {
		joined = joined[:MaxTranscriptChars]
	}
	return joined
}

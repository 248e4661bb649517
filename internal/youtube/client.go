package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Client talks to the YouTube Data API v3 for playlist and video metadata.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
}

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

func NewClient(apiKey string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    defaultBaseURL,
		APIKey:     apiKey,
	}
}

type PlaylistDetails struct {
	ID           string
	Title        string
	Description  string
	Thumbnail    string
	ChannelTitle string
}

type PlaylistVideo struct {
	VideoID     string
	Title       string
	Description string
	Thumbnail   string
	Position    int
}

type VideoDetails struct {
	Duration int
	Tags     []string
}

var playlistIDPattern = regexp.MustCompile(`list=([a-zA-Z0-9_-]+)`)

// ExtractPlaylistID pulls the playlist identifier out of the common YouTube
// URL formats. Returns "" when the URL does not resolve to a playlist.
func ExtractPlaylistID(rawURL string) string {
	if m := playlistIDPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

type apiThumbnail struct {
	URL string `json:"url"`
}

type apiSnippet struct {
	Title        string                  `json:"title"`
	Description  string                  `json:"description"`
	ChannelTitle string                  `json:"channelTitle"`
	Position     int                     `json:"position"`
	Tags         []string                `json:"tags"`
	Thumbnails   map[string]apiThumbnail `json:"thumbnails"`
	ResourceID   struct {
		VideoID string `json:"videoId"`
	} `json:"resourceId"`
}

type apiContentDetails struct {
	VideoID  string `json:"videoId"`
	Duration string `json:"duration"`
}

type apiItem struct {
	ID             string            `json:"id"`
	Snippet        apiSnippet        `json:"snippet"`
	ContentDetails apiContentDetails `json:"contentDetails"`
}

type apiResponse struct {
	Items         []apiItem `json:"items"`
	NextPageToken string    `json:"nextPageToken"`
}

// PlaylistDetails fetches playlist metadata. A nil result with nil error
// means the playlist does not exist or is private.
func (c *Client) PlaylistDetails(ctx context.Context, playlistID string) (*PlaylistDetails, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", playlistID)
	params.Set("key", c.APIKey)

	var resp apiResponse
	if err := c.get(ctx, "/playlists", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	s := resp.Items[0].Snippet
	return &PlaylistDetails{
		ID:           playlistID,
		Title:        s.Title,
		Description:  s.Description,
		Thumbnail:    bestThumbnail(s.Thumbnails),
		ChannelTitle: s.ChannelTitle,
	}, nil
}

// PlaylistVideos fetches every item in the playlist, following pagination.
// Deleted and private entries (no video id) are skipped.
func (c *Client) PlaylistVideos(ctx context.Context, playlistID string) ([]PlaylistVideo, error) {
	var videos []PlaylistVideo
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", "50")
		params.Set("key", c.APIKey)
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp apiResponse
		if err := c.get(ctx, "/playlistItems", params, &resp); err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			videoID := item.ContentDetails.VideoID
			if videoID == "" {
				videoID = item.Snippet.ResourceID.VideoID
			}
			if videoID == "" {
				continue
			}
			videos = append(videos, PlaylistVideo{
				VideoID:     videoID,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
				Thumbnail:   bestThumbnail(item.Snippet.Thumbnails),
				Position:    item.Snippet.Position,
			})
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return videos, nil
}

// VideoDetails fetches duration and tags for the given videos, batching 50
// ids per request as the API allows.
func (c *Client) VideoDetails(ctx context.Context, videoIDs []string) (map[string]VideoDetails, error) {
	details := make(map[string]VideoDetails)
	for i := 0; i < len(videoIDs); i += 50 {
		end := i + 50
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("id", strings.Join(videoIDs[i:end], ","))
		params.Set("key", c.APIKey)

		var resp apiResponse
		if err := c.get(ctx, "/videos", params, &resp); err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			tags := item.Snippet.Tags
			if len(tags) > 5 {
				tags = tags[:5]
			}
			details[item.ID] = VideoDetails{
				Duration: ParseISODuration(item.ContentDetails.Duration),
				Tags:     tags,
			}
		}
	}
	return details, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read youtube response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}
	return json.Unmarshal(body, out)
}

func bestThumbnail(thumbnails map[string]apiThumbnail) string {
	for _, quality := range []string{"maxres", "high", "medium", "default"} {
		if t, ok := thumbnails[quality]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseISODuration converts an ISO 8601 duration like PT4M13S to seconds.
func ParseISODuration(s string) int {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	return hours*3600 + minutes*60 + seconds
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"portfolio/internal/domain/build"
	"portfolio/internal/domain/content"
	domainerr "portfolio/internal/domain/errors"
	"strings"
	"time"
)

// DevToArticle is one record of the dev.to articles API. Pointer fields tell
// a missing key apart from a zero value.
type DevToArticle struct {
	ID                 *int64          `json:"id"`
	CoverImage         *string         `json:"cover_image"`
	Title              *string         `json:"title"`
	URL                *string         `json:"url"`
	TagList            json.RawMessage `json:"tag_list"`
	PublishedAt        *string         `json:"published_at"`
	ReadingTimeMinutes *int            `json:"reading_time_minutes"`
	User               *DevToUser      `json:"user"`
}

type DevToUser struct {
	Name           string `json:"name"`
	Username       string `json:"username"`
	ProfileImage90 string `json:"profile_image_90"`
}

type DevToSource struct {
	client   *http.Client
	baseURL  string
	username string
	now      func() time.Time
}

func NewDevToSource(client *http.Client, baseURL, username string) *DevToSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &DevToSource{
		client:   client,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		now:      time.Now,
	}
}

func (s *DevToSource) Name() string { return "devto" }

func (s *DevToSource) endpoint() string {
	q := url.Values{}
	q.Set("username", s.username)
	return fmt.Sprintf("%s/api/articles?%s", s.baseURL, q.Encode())
}

func (s *DevToSource) Fetch(ctx context.Context) (content.Snapshot, error) {
	reqURL := s.endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return content.Snapshot{}, fmt.Errorf("devto: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return content.Snapshot{}, fmt.Errorf("devto: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return content.Snapshot{}, fmt.Errorf("devto: %w", &domainerr.UpstreamError{URL: reqURL, Status: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return content.Snapshot{}, fmt.Errorf("devto: failed to read response: %w", err)
	}

	records, err := DecodeDevTo(body)
	if err != nil {
		return content.Snapshot{}, fmt.Errorf("devto: %w", err)
	}
	articles, err := Normalize(records)
	if err != nil {
		return content.Snapshot{}, fmt.Errorf("devto: %w", err)
	}

	return content.Snapshot{
		Articles:    articles,
		FetchedAt:   s.now(),
		Fingerprint: build.Of(s.Name(), articles),
		Source:      s.Name(),
	}, nil
}

// DecodeDevTo decodes the API payload, which must be a JSON array.
func DecodeDevTo(body []byte) ([]DevToArticle, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &domainerr.ShapeError{Index: -1, Msg: "expected a JSON array of articles: " + err.Error()}
	}
	if raw == nil {
		// a literal null
		return nil, &domainerr.ShapeError{Index: -1, Msg: "expected a JSON array of articles, got null"}
	}

	out := make([]DevToArticle, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &out[i]); err != nil {
			var te *json.UnmarshalTypeError
			if errors.As(err, &te) {
				return nil, &domainerr.ShapeError{Index: i, Field: te.Field, Msg: "expected " + te.Type.String() + ", got " + te.Value}
			}
			return nil, &domainerr.ShapeError{Index: i, Field: "", Msg: err.Error()}
		}
	}
	return out, nil
}

// Normalize maps dev.to records onto articles one to one, keeping their order.
// It checks the shape of each record but does not filter or deduplicate.
func Normalize(records []DevToArticle) ([]content.Article, error) {
	out := make([]content.Article, 0, len(records))
	for i, r := range records {
		a, err := normalizeOne(i, r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func normalizeOne(i int, r DevToArticle) (content.Article, error) {
	missing := func(field string) error {
		return &domainerr.ShapeError{Index: i, Field: field, Msg: "missing"}
	}

	if r.ID == nil || *r.ID == 0 {
		return content.Article{}, missing("id")
	}
	if r.Title == nil {
		return content.Article{}, missing("title")
	}
	if r.URL == nil {
		return content.Article{}, missing("url")
	}
	if r.PublishedAt == nil {
		return content.Article{}, missing("published_at")
	}
	if _, err := time.Parse(time.RFC3339, *r.PublishedAt); err != nil {
		return content.Article{}, &domainerr.ShapeError{Index: i, Field: "published_at", Msg: "not an RFC 3339 timestamp"}
	}
	if r.User == nil {
		return content.Article{}, missing("user")
	}

	minutes := 0
	if r.ReadingTimeMinutes != nil {
		minutes = *r.ReadingTimeMinutes
	}
	if minutes < 0 {
		return content.Article{}, &domainerr.ShapeError{Index: i, Field: "reading_time_minutes", Msg: "must not be negative"}
	}

	tags, err := decodeTagList(r.TagList)
	if err != nil {
		return content.Article{}, &domainerr.ShapeError{Index: i, Field: "tag_list", Msg: err.Error()}
	}

	var image *string
	if r.CoverImage != nil && strings.TrimSpace(*r.CoverImage) != "" {
		v := *r.CoverImage
		image = &v
	}

	return content.Article{
		ID:                 *r.ID,
		Image:              image,
		Title:              *r.Title,
		URL:                *r.URL,
		Tags:               tags,
		PublishedAt:        *r.PublishedAt,
		ReadingTimeMinutes: minutes,
		Author: content.Author{
			Name:     r.User.Name,
			Username: r.User.Username,
			Avatar:   r.User.ProfileImage90,
		},
	}, nil
}

// decodeTagList accepts the array form of the list endpoint and the
// comma separated string of the single article endpoint.
func decodeTagList(raw json.RawMessage) ([]string, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return []string{}, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		return list, nil
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err != nil {
		return nil, errors.New("expected an array of strings")
	}
	tags := []string{}
	for _, t := range strings.Split(joined, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

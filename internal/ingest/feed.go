package ingest

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"net/http"
	"portfolio/internal/domain/build"
	"portfolio/internal/domain/content"
	domainerr "portfolio/internal/domain/errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

const wordsPerMinute = 200

// FeedSource reads articles from an RSS or Atom feed, e.g. https://dev.to/feed/<user>.
type FeedSource struct {
	client   *http.Client
	feedURL  string
	username string
	parser   *gofeed.Parser
	strip    *bluemonday.Policy
	now      func() time.Time
}

func NewFeedSource(client *http.Client, feedURL, username string) *FeedSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &FeedSource{
		client:   client,
		feedURL:  feedURL,
		username: username,
		parser:   gofeed.NewParser(),
		strip:    bluemonday.StrictPolicy(),
		now:      time.Now,
	}
}

func (s *FeedSource) Name() string { return "feed" }

func (s *FeedSource) Fetch(ctx context.Context) (content.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return content.Snapshot{}, fmt.Errorf("feed: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return content.Snapshot{}, fmt.Errorf("feed: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return content.Snapshot{}, fmt.Errorf("feed: %w", &domainerr.UpstreamError{URL: s.feedURL, Status: resp.StatusCode})
	}

	feed, err := s.parser.Parse(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return content.Snapshot{}, fmt.Errorf("feed: %w", &domainerr.ShapeError{Index: -1, Msg: err.Error()})
	}

	articles, err := s.normalize(feed)
	if err != nil {
		return content.Snapshot{}, fmt.Errorf("feed: %w", err)
	}
	return content.Snapshot{
		Articles:    articles,
		FetchedAt:   s.now(),
		Fingerprint: build.Of(s.Name(), articles),
		Source:      s.Name(),
	}, nil
}

func (s *FeedSource) normalize(feed *gofeed.Feed) ([]content.Article, error) {
	var avatar string
	if feed.Image != nil {
		avatar = feed.Image.URL
	}

	out := make([]content.Article, 0, len(feed.Items))
	for i, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			return nil, &domainerr.ShapeError{Index: i, Field: "link", Msg: "missing"}
		}
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		if published == nil {
			return nil, &domainerr.ShapeError{Index: i, Field: "published", Msg: "missing or unparseable"}
		}

		key := item.GUID
		if key == "" {
			key = link
		}

		tags := make([]string, 0, len(item.Categories))
		tags = append(tags, item.Categories...)

		out = append(out, content.Article{
			ID:                 itemID(key),
			Image:              itemImage(item),
			Title:              strings.TrimSpace(item.Title),
			URL:                link,
			Tags:               tags,
			PublishedAt:        published.UTC().Format(time.RFC3339),
			ReadingTimeMinutes: s.readingTime(item),
			Author: content.Author{
				Name:     itemAuthor(item),
				Username: s.username,
				Avatar:   avatar,
			},
		})
	}
	return out, nil
}

func (s *FeedSource) readingTime(item *gofeed.Item) int {
	body := item.Content
	if body == "" {
		body = item.Description
	}
	words := len(strings.Fields(s.strip.Sanitize(body)))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// itemID derives a stable positive ID from the item's GUID or link.
func itemID(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	id := int64(h.Sum64() & math.MaxInt64)
	if id == 0 {
		id = 1
	}
	return id
}

func itemImage(item *gofeed.Item) *string {
	if item.Image != nil && strings.TrimSpace(item.Image.URL) != "" {
		v := item.Image.URL
		return &v
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			v := enc.URL
			return &v
		}
	}
	return nil
}

func itemAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return ""
}

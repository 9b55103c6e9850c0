package content

import (
	"strings"
	"time"
)

type Author struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Article is one blog post hosted elsewhere. Image is nil when the source
// has no cover image.
type Article struct {
	ID                 int64    `json:"id"`
	Image              *string  `json:"image,omitempty"`
	Title              string   `json:"title"`
	URL                string   `json:"url"`
	Tags               []string `json:"tags"`
	PublishedAt        string   `json:"publishedAt"`
	ReadingTimeMinutes int      `json:"readingTimeMinutes"`
	Author             Author   `json:"author"`
}

func (a Article) HasImage() bool {
	return a.Image != nil && strings.TrimSpace(*a.Image) != ""
}

func (a Article) CoverImage() string {
	if a.Image == nil {
		return ""
	}
	return *a.Image
}

// Published parses PublishedAt. The zero time is returned when it does not parse.
func (a Article) Published() time.Time {
	t, err := time.Parse(time.RFC3339, a.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Snapshot is the result of one successful fetch. It is never modified after
// it has been built.
type Snapshot struct {
	Articles    []Article `json:"articles"`
	FetchedAt   time.Time `json:"fetchedAt"`
	Fingerprint string    `json:"fingerprint"`
	Source      string    `json:"source"`
}

func (s Snapshot) IsZero() bool {
	return s.FetchedAt.IsZero() && len(s.Articles) == 0
}

func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Page is a markdown page of the site itself (landing, about, contact).
type Page struct {
	Slug        string
	Title       string
	Description string
	Body        []byte
	SourcePath  string
}

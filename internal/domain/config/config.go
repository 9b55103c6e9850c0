package config

import (
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
	domainerr "portfolio/internal/domain/errors"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"
)

type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Source     SourceConfig     `yaml:"source"`
	Revalidate RevalidateConfig `yaml:"revalidate"`
	Build      BuildConfig      `yaml:"build"`
	Serve      ServeConfig      `yaml:"serve"`
	Log        LogConfig        `yaml:"log"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Headline    string `yaml:"headline"`
	Description string `yaml:"description"`
	SiteURL     string `yaml:"site_url"`
	Theme       string `yaml:"themes"`
	Language    string `yaml:"language"`

	Email    string `yaml:"email"`
	LinkedIn string `yaml:"linkedin"`
	GitHub   string `yaml:"github"`
	Repo     string `yaml:"repo"`
	JobTitle string `yaml:"job_title"`
	JobURL   string `yaml:"job_url"`
}

type SourceKind string

const (
	SourceDevTo SourceKind = "devto"
	SourceFeed  SourceKind = "feed"
)

type SourceConfig struct {
	Type     SourceKind    `yaml:"type"`
	BaseURL  string        `yaml:"base_url"`
	Username string        `yaml:"username"`
	FeedURL  string        `yaml:"feed_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

type RevalidateConfig struct {
	Interval time.Duration `yaml:"interval"`
	// Schedule is an optional cron spec forcing a refresh, e.g. "@every 1h".
	Schedule string `yaml:"schedule"`
}

type BuildConfig struct {
	PagesDir  string    `yaml:"pages_dir"`
	PublicDir string    `yaml:"public_dir"`
	ThemeDir  string    `yaml:"theme_dir"`
	IndexPath string    `yaml:"index_path"`
	Now       time.Time `yaml:"-"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
	Dev  bool   `yaml:"dev"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// DefaultRevalidate matches the 30 minute window the site has always used.
const DefaultRevalidate = 30 * time.Minute

const defaultDescription = "I'm a software developer who enjoys building products people rely on. " +
	"Right now I'm working at Jobber, helping home service businesses run smoother."

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:       "Joel Warrington",
			Author:      "Joel Warrington",
			Headline:    "I solve problems with valuable software",
			Description: defaultDescription,
			SiteURL:     "https://joelw.dev",
			Theme:       "default",
			Language:    "en",
			Email:       "joelwarrington@gmail.com",
			LinkedIn:    "https://www.linkedin.com/in/joelwarrington/",
			GitHub:      "https://github.com/joelzwarrington",
			Repo:        "https://github.com/joelzwarrington/joelw.dev",
			JobTitle:    "Jobber",
			JobURL:      "https://getjobber.com",
		},
		Source: SourceConfig{
			Type:     SourceDevTo,
			BaseURL:  "https://dev.to",
			Username: "joelzwarrington",
			Timeout:  10 * time.Second,
		},
		Revalidate: RevalidateConfig{
			Interval: DefaultRevalidate,
		},
		Build: BuildConfig{
			PagesDir:  "pages",
			PublicDir: "public",
			ThemeDir:  "themes",
			IndexPath: ".portfolio/index.db",
			Now:       time.Now(),
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if strings.TrimSpace(c.Site.SiteURL) == "" {
		ve.Add("site.site_url", "must not be empty")
	} else if !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}
	if strings.TrimSpace(c.Site.Theme) == "" {
		ve.Add("site.themes", "must not be empty")
	}

	switch c.Source.Type {
	case SourceDevTo:
		if !isValidAbsURL(c.Source.BaseURL) {
			ve.Add("source.base_url", "must be a valid absolute URL")
		}
		if strings.TrimSpace(c.Source.Username) == "" {
			ve.Add("source.username", "must not be empty")
		}
	case SourceFeed:
		if !isValidAbsURL(c.Source.FeedURL) {
			ve.Add("source.feed_url", "must be a valid absolute URL")
		}
	default:
		ve.Add("source.type", "must be 'devto' or 'feed'")
	}
	if c.Source.Timeout < 0 {
		ve.Add("source.timeout", "must not be negative")
	}

	if c.Revalidate.Interval <= 0 {
		ve.Add("revalidate.interval", "must be positive")
	}
	if s := strings.TrimSpace(c.Revalidate.Schedule); s != "" {
		if _, err := cron.ParseStandard(s); err != nil {
			ve.Add("revalidate.schedule", "invalid cron spec: "+err.Error())
		}
	}

	if strings.TrimSpace(c.Build.PagesDir) == "" {
		ve.Add("build.pages_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.IndexPath) == "" {
		ve.Add("build.index_path", "must not be empty")
	}
	if strings.TrimSpace(c.Serve.Addr) == "" {
		ve.Add("serve.addr", "must not be empty")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		ve.Add("log.level", "must be one of debug, info, warn, error")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${NAME} with the environment value; unknown names are left as-is.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

func Parse(data []byte) (Config, error) {
	cfg := Default()

	// fields present in the file override the defaults
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}
	return Parse(data)
}

func LoadOrDefault(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			return cfg, cfg.Validate()
		}
		return Default(), err
	}
	return Parse(data)
}

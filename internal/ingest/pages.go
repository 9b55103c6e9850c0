package ingest

import (
	"os"
	"portfolio/internal/domain/content"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Warning struct {
	Path string
	Msg  string
}

// ParsePages reads every markdown page under dir, keyed by slug. Files with
// a broken header are skipped with a warning; read errors abort.
func ParsePages(dir string) (map[string]content.Page, []Warning, error) {
	files, err := DiscoverPages(dir)
	if err != nil {
		return nil, nil, err
	}

	var (
		mu    sync.Mutex
		pages = make(map[string]content.Page, len(files))
		warns []Warning
		g     errgroup.Group
	)
	warn := func(path, msg string) {
		mu.Lock()
		warns = append(warns, Warning{Path: path, Msg: msg})
		mu.Unlock()
	}

	for _, sf := range files {
		g.Go(func() error {
			raw, err := os.ReadFile(sf.Path)
			if err != nil {
				return err
			}
			fm, body, fmErr := ParseFrontMatter(raw)
			if fmErr != nil {
				if fmErr != errNoFrontMatter {
					warn(sf.Path, "failed to parse front matter: "+fmErr.Error())
					return nil
				}
				body = raw
			}
			slug := ResolveSlug(fm, sf.Path)
			if slug == "" {
				warn(sf.Path, "empty slug")
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if prev, ok := pages[slug]; ok {
				warns = append(warns, Warning{Path: sf.Path, Msg: "duplicate slug " + slug + ", already defined by " + prev.SourcePath})
				return nil
			}
			pages[slug] = content.Page{
				Slug:        slug,
				Title:       strings.TrimSpace(fm.Title),
				Description: strings.TrimSpace(fm.Description),
				Body:        body,
				SourcePath:  sf.Path,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return pages, warns, nil
}

package serve

import (
	"context"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"net/http"
	"os"
	"path/filepath"
	"portfolio/internal/ingest"
	"portfolio/internal/logger"
	"portfolio/internal/render"
	"time"
)

const reloadDebounce = 200 * time.Millisecond

// startWatch reloads markdown pages and the theme whenever files under the
// pages or theme directory change, then tells connected browsers to reload.
func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		roots := []string{s.cfg.Build.PagesDir, filepath.Join(s.cfg.Build.ThemeDir, s.cfg.Site.Theme)}
		for _, root := range roots {
			if e := addTree(w, root); e != nil {
				_ = w.Close()
				err = e
				return
			}
		}
		s.watcher = w
		s.watchDone = make(chan struct{})
		go s.watchLoop(ctx)
	})
	return err
}

func addTree(w *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func (s *Server) watchLoop(ctx context.Context) {
	defer close(s.watchDone)
	logger.Infof("[serve] watching for file changes ...")
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				if ev.Op&fsnotify.Create != 0 {
					if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
						_ = s.watcher.Add(ev.Name)
					}
				}
				debounce.Reset(reloadDebounce)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("[serve] watcher error: %v", err)
		case <-debounce.C:
			if err := s.reload(); err != nil {
				logger.Errorf("[serve] reload error: %v", err)
				continue
			}
			s.Broadcast("reload")
		}
	}
}

// reload re-reads pages and theme. On error the previous ones stay active.
func (s *Server) reload() error {
	pages, warns, err := ingest.ParsePages(s.cfg.Build.PagesDir)
	if err != nil {
		return fmt.Errorf("pages: %w", err)
	}
	for _, w := range warns {
		logger.Warnf("[serve] %s: %s", w.Path, w.Msg)
	}
	tpl, err := render.NewTemplateRenderer(s.cfg.Build.ThemeDir, s.cfg.Site.Theme)
	if err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	s.site.SetPages(pages)
	s.site.SetRenderer(tpl)
	logger.Infof("[serve] reloaded %d pages, theme %s", len(pages), tpl.Source)
	return nil
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)
	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

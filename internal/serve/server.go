package serve

import (
	"context"
	"errors"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"portfolio/internal/app"
	"portfolio/internal/domain/config"
	"portfolio/internal/domain/content"
	"portfolio/internal/logger"
	"portfolio/internal/revalidate"
	"sync"
	"time"
)

// Articles is what the server needs from the revalidation cache.
type Articles interface {
	Get(ctx context.Context) (content.Snapshot, error)
	Status() revalidate.Status
}

type Server struct {
	cfg      config.Config
	articles Articles
	site     *app.Site

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
	watchDone chan struct{}
}

func New(cfg config.Config, articles Articles, site *app.Site) *Server {
	site.Dev = cfg.Serve.Dev
	return &Server{
		cfg:      cfg,
		articles: articles,
		site:     site,
		sseConns: make(map[chan string]struct{}),
	}
}

func (s *Server) Close() error {
	if s.watcher != nil {
		err := s.watcher.Close()
		<-s.watchDone
		return err
	}
	return nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /about", s.handleAbout)
	mux.HandleFunc("GET /contact", s.handleContact)
	mux.HandleFunc("GET /blog", s.handleBlog)
	mux.HandleFunc("GET /blog/{$}", s.handleBlog)
	mux.HandleFunc("GET /blog/{slug}", s.handlePost)
	mux.HandleFunc("GET /api/articles", s.handleAPI)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /static/", s.handleStatic)
	if s.cfg.Serve.Dev {
		mux.HandleFunc("GET /dev/events", s.handleSSE)
	}
	mux.HandleFunc("/", s.handleNotFound)

	return instrument(mux)
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if s.cfg.Serve.Dev {
		if err := s.startWatch(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("[serve] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Infof("[serve] stopped")
	return nil
}

// Broadcast pushes msg to every connected live-reload client.
func (s *Server) Broadcast(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

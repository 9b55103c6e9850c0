package serve

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"portfolio/internal/app"
	"portfolio/internal/blog"
	"portfolio/internal/logger"
	"strings"
	"time"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, func() ([]byte, error) { return s.site.Home(r.Context()) })
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, func() ([]byte, error) { return s.site.About(r.Context()) })
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, func() ([]byte, error) { return s.site.Contact(r.Context()) })
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	s.writePage(w, r, func() ([]byte, error) { return s.site.Post(r.Context(), slug) })
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	snap, err := s.articles.Get(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	selected := blog.ParseSelection(r.URL.Query()["tag"])
	htmlBytes, err := s.site.Blog(r.Context(), snap.Articles, selected, app.DynamicHref)
	if err != nil {
		s.handleError(w, r, fmt.Errorf("render: %w", err))
		return
	}
	s.setRevalidateHeaders(w, snap.Fingerprint)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(htmlBytes)
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	snap, err := s.articles.Get(r.Context())
	if err != nil {
		logger.Errorf("[serve] %s: %v", r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "articles unavailable"})
		return
	}
	selected := blog.ParseSelection(r.URL.Query()["tag"])
	body, err := json.Marshal(blog.Derive(snap.Articles, selected))
	if err != nil {
		logger.Errorf("[serve] %s: encode: %v", r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "articles unavailable"})
		return
	}
	s.setRevalidateHeaders(w, snap.Fingerprint)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(append(body, '\n'))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.articles.Status()
	status := "ok"
	if st.FetchedAt.IsZero() || st.LastError != "" {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		Cache  any    `json:"cache"`
	}{status, st})
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	static := s.site.Static()
	name := strings.TrimPrefix(r.URL.Path, "/static/")
	if static == nil || name == "" || strings.HasSuffix(name, "/") {
		s.handleNotFound(w, r)
		return
	}
	if _, err := fs.Stat(static, name); err != nil {
		s.handleNotFound(w, r)
		return
	}
	http.StripPrefix("/static/", http.FileServerFS(static)).ServeHTTP(w, r)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	htmlBytes, err := s.site.NotFound(r.Context(), r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(htmlBytes)
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, cause error) {
	logger.Errorf("[serve] %s: %v", r.URL.Path, cause)
	noStore(w)
	htmlBytes, err := s.site.Error(r.Context(), cause.Error())
	if err != nil {
		http.Error(w, "500: error processing your request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(htmlBytes)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, render func() ([]byte, error)) {
	htmlBytes, err := render()
	if err != nil {
		s.handleError(w, r, fmt.Errorf("render: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(htmlBytes)
}

// setRevalidateHeaders mirrors the revalidation window in Cache-Control.
func (s *Server) setRevalidateHeaders(w http.ResponseWriter, fingerprint string) {
	secs := int(s.cfg.Revalidate.Interval / time.Second)
	if secs > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate", secs))
	}
	if fingerprint != "" {
		w.Header().Set("ETag", `"`+fingerprint+`"`)
	}
}

// noStore keeps error responses out of shared caches.
func noStore(w http.ResponseWriter) {
	w.Header().Del("ETag")
	w.Header().Set("Cache-Control", "no-store")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	if code >= http.StatusInternalServerError {
		noStore(w)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("[serve] encode response: %v", err)
	}
}

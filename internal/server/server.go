// Package server 提供 docmark 的 HTTP API
package server

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/riverfjs/docmark-go"
	"github.com/riverfjs/docmark-go/internal/segment"
	"github.com/riverfjs/docmark-go/internal/store"
)

// Config 服务参数
type Config struct {
	Addr           string
	MaxUploadBytes int64
	RenderConfig   *docmark.RenderConfig
	// MemoSize 最多缓存多少篇文档的切分结果
	MemoSize int
}

const defaultMemoSize = 128

// Server HTTP 服务
type Server struct {
	cfg        Config
	converter  *docmark.Converter
	store      store.Store
	prefs      *docmark.Preferences
	logger     zerolog.Logger
	metrics    *metrics
	httpServer *http.Server

	memoMu sync.Mutex
	memos  *lru.Cache[string, *segment.Memo]
}

// New creates a server. prefs 由进程内所有请求共享。
func New(cfg Config, converter *docmark.Converter, st store.Store, prefs *docmark.Preferences, logger zerolog.Logger) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 64 << 20
	}
	if cfg.MemoSize <= 0 {
		cfg.MemoSize = defaultMemoSize
	}
	// 只有 size <= 0 时返回错误
	memos, _ := lru.New[string, *segment.Memo](cfg.MemoSize)
	s := &Server{
		cfg:       cfg,
		converter: converter,
		store:     st,
		prefs:     prefs,
		logger:    logger,
		metrics:   newMetrics(),
		memos:     memos,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/convert", s.convertHandler)
	mux.HandleFunc("GET /api/documents", s.listHandler)
	mux.HandleFunc("DELETE /api/documents", s.clearHandler)
	mux.HandleFunc("GET /api/documents/{id}", s.getHandler)
	mux.HandleFunc("DELETE /api/documents/{id}", s.deleteHandler)
	mux.HandleFunc("GET /api/documents/{id}/blocks", s.blocksHandler)
	mux.HandleFunc("GET /api/documents/{id}/render", s.renderHandler)
	mux.HandleFunc("POST /api/documents/{id}/copy", s.copyHandler)
	mux.HandleFunc("GET /api/documents/{id}/markdown", s.markdownHandler)
	mux.HandleFunc("GET /api/documents/{id}/archive", s.archiveHandler)
	mux.HandleFunc("GET /api/documents/{id}/images/{imageID}", s.imageHandler)
	mux.HandleFunc("GET /api/preferences", s.getPreferencesHandler)
	mux.HandleFunc("PUT /api/preferences", s.putPreferencesHandler)
	mux.HandleFunc("GET /api/storage", s.storageHandler)
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.instrument(mux),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.cfg.Addr).Msg("HTTP server starting")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument 记录请求日志和指标
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		req := r.WithContext(s.logger.WithContext(r.Context()))
		next.ServeHTTP(rec, req)

		// ServeMux 在传入的请求上记录匹配的模式
		route := req.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		s.metrics.requestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Msg("request")
	})
}

// blocks 返回文档的块，按文档缓存切分结果，最近最少使用的文档先被淘汰
func (s *Server) blocks(doc *docmark.Document) []docmark.Block {
	s.memoMu.Lock()
	memo, ok := s.memos.Get(doc.ID)
	if !ok {
		memo = &segment.Memo{}
		s.memos.Add(doc.ID, memo)
	}
	s.memoMu.Unlock()

	blocks, hit := memo.Lookup(doc.Markdown)
	result := "miss"
	if hit {
		result = "hit"
	}
	s.metrics.memoLookups.WithLabelValues(result).Inc()
	return blocks
}

// forget 丢弃文档的缓存；id 为空时全部丢弃
func (s *Server) forget(id string) {
	s.memoMu.Lock()
	if id == "" {
		s.memos.Purge()
	} else {
		s.memos.Remove(id)
	}
	s.memoMu.Unlock()
}

package api

import (
	"net/http"
	"time"

	"atcoder_bingo/internal/api/handler"
	"atcoder_bingo/internal/app/service"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(boardService *service.BoardService) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.Handler())

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		boardHandler := handler.NewBoardHandler(boardService)
		v1.Route("/board", boardHandler.RegisterRoutes)
	})

	return r
}

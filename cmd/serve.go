package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/company-match/internal/index"
	"github.com/sells-group/company-match/internal/matcher"
	"github.com/sells-group/company-match/internal/model"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve one-off match lookups over HTTP",
	Long:  "Loads the configured reference corpora once, then answers POST /api/match queries against the in-memory index.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	refs, err := loadReferences(cmd.Context(), cfg.Refs)
	if err != nil {
		return err
	}

	opts := matcherOptions(cfg.Matcher)
	idx := index.Build(refs, index.Options{
		Namer:       opts.Namer,
		CountryCode: opts.CountryCode,
	})
	eng := matcher.New(idx, opts)

	zap.L().Info("reference index ready",
		zap.Int("records", idx.Len()),
		zap.Int("port", cfg.Server.Port),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/api/match", matchHandler(eng))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// matchQuery is the request body of POST /api/match.
type matchQuery struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type matchResponse struct {
	Matches []model.MatchResult `json:"matches"`
}

func matchHandler(eng *matcher.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var q matchQuery
		if err := json.NewDecoder(req.Body).Decode(&q); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if q.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		results, err := eng.Match(req.Context(), []model.RawRecord{{
			Source: "api",
			Name:   q.Name,
			Phone:  q.Phone,
		}})
		if err != nil {
			http.Error(w, "match failed", http.StatusInternalServerError)
			return
		}
		if results == nil {
			results = []model.MatchResult{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(matchResponse{Matches: results}); err != nil {
			zap.L().Warn("serve: encode response", zap.Error(err))
		}
	}
}

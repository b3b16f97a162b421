package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/lexora/internal/lexical"
	"github.com/hyperjump/lexora/internal/models"
	"github.com/hyperjump/lexora/internal/store"
)

type askRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	queryID := uuid.NewString()
	s.logger.Debug("ask request", zap.String("query_id", queryID), zap.String("query", req.Query))

	result, err := s.processor.Process(r.Context(), req.Query)
	if err != nil {
		s.logger.Error("ask failed", zap.String("query_id", queryID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("ask answered",
		zap.String("query_id", queryID),
		zap.Bool("ambiguous", result.Ambiguous),
		zap.Int("sources", len(result.Sources)))
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReplaceDocuments(w http.ResponseWriter, r *http.Request) {
	var docs []*models.Document
	if err := json.NewDecoder(r.Body).Decode(&docs); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.logger.Debug("replace documents request", zap.Int("count", len(docs)))
	if err := s.processor.ReplaceDocuments(r.Context(), docs); err != nil {
		s.logger.Error("replace documents failed", zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "replaced",
		"documents": len(docs),
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.logger.Error("get document failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleKeywordSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	if limit > s.config.Search.MaxLimit {
		limit = s.config.Search.MaxLimit
	}
	opts := &lexical.Options{
		FuzzyEnabled: r.URL.Query().Get("fuzzy") == "true",
	}
	hits, err := s.processor.KeywordSearch(r.Context(), query, limit, opts)
	if err != nil {
		s.logger.Error("keyword search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": hits,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	docCount, err := s.store.CountDocuments(r.Context())
	if err != nil {
		s.logger.Error("status: count documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	st := s.processor.CurrentStatus()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"ready":             st.Ready,
		"documents":         docCount,
		"vector_index_size": st.IndexSize,
		"config": map[string]interface{}{
			"embedding_provider": s.config.Embedding.Provider,
			"ambiguity_policy":   s.config.Ambiguity.Policy,
			"semantic_k":         s.config.Search.SemanticK,
			"database_path":      s.config.Storage.DatabasePath,
		},
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cognicore/radar/pkg/radar/internalerr"
	"github.com/cognicore/radar/pkg/radar/store"
)

const (
	defaultTrendingLimit = 5
	defaultMinScore      = 70
)

// TopicHandler handles topic-related HTTP requests
type TopicHandler struct {
	store store.Store
	log   *zap.Logger
}

// NewTopicHandler creates a new topic handler
func NewTopicHandler(st store.Store, log *zap.Logger) *TopicHandler {
	return &TopicHandler{store: st, log: log}
}

// ListTopics returns topics filtered by category and search, most mentioned first
func (h *TopicHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimit(q.Get("limit"), 0)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}

	order := store.OrderMentions
	switch o := store.Order(q.Get("order")); o {
	case "":
	case store.OrderMentions, store.OrderScore, store.OrderGrowth:
		order = o
	default:
		h.respondWithError(w, http.StatusBadRequest, "Invalid order", nil)
		return
	}

	topics, err := h.store.Topics(r.Context(), store.Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Order:    order,
		Limit:    limit,
	})
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to fetch topics", err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, topics)
}

// TrendingTopics returns the fastest-growing topics
func (h *TopicHandler) TrendingTopics(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"), defaultTrendingLimit)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}

	topics, err := h.store.Topics(r.Context(), store.Filter{
		Trending: true,
		Order:    store.OrderGrowth,
		Limit:    limit,
	})
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to fetch trending topics", err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, topics)
}

// GetTopic returns a specific topic by ID
func (h *TopicHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondWithError(w, http.StatusBadRequest, "Missing topic ID", nil)
		return
	}

	t, err := h.store.Topic(r.Context(), id)
	if err != nil {
		if errors.Is(err, internalerr.ErrNotFound) {
			h.respondWithError(w, http.StatusNotFound, "Topic not found", nil)
		} else {
			h.respondWithError(w, http.StatusInternalServerError, "Failed to fetch topic", err)
		}
		return
	}

	h.respondWithJSON(w, http.StatusOK, t)
}

// Opportunities returns topics whose total score reaches minScore
func (h *TopicHandler) Opportunities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	minScore := float64(defaultMinScore)
	if s := q.Get("minScore"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			h.respondWithError(w, http.StatusBadRequest, "Invalid minScore", err)
			return
		}
		minScore = v
	}

	topics, err := h.store.Topics(r.Context(), store.Filter{
		Category: q.Get("category"),
		MinScore: minScore,
		Order:    store.OrderScore,
	})
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to fetch opportunities", err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, topics)
}

// Categories returns the distinct topic categories
func (h *TopicHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.store.Categories(r.Context())
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to fetch categories", err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, cats)
}

// Stats returns the dashboard summary
func (h *TopicHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to fetch dashboard stats", err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, stats)
}

// MarketAnalysis returns category, pain point and monthly mention aggregates
func (h *TopicHandler) MarketAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.store.MarketAnalysis(r.Context())
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to fetch market analysis", err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, analysis)
}

func parseLimit(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("negative limit")
	}
	return n, nil
}

// Helper for JSON responses
func (h *TopicHandler) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("marshal response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func (h *TopicHandler) respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		h.log.Error("HTTP error", zap.Int("code", code), zap.String("message", message), zap.Error(err))
	}

	jsonResponse, _ := json.Marshal(map[string]string{"error": message})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}

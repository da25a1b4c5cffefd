package demo

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avelar/ghostwriter-backend/internal/llm"
	"github.com/avelar/ghostwriter-backend/internal/models"
	"github.com/avelar/ghostwriter-backend/internal/posts"
	"github.com/avelar/ghostwriter-backend/internal/voice"
)

// Limiter counts one use of op by ip and reports whether it is allowed.
// Production wiring uses the Redis-backed daily counter.
type Limiter interface {
	Allow(ctx context.Context, ip, op string) (bool, error)
}

// Handler serves the unauthenticated demo surface. Nothing here is
// persisted; the analyze endpoint is throttled per caller address.
type Handler struct {
	model   llm.Client
	limiter Limiter
	log     *zap.SugaredLogger
}

func NewHandler(model llm.Client, limiter Limiter, log *zap.SugaredLogger) *Handler {
	return &Handler{model: model, limiter: limiter, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// SampleProfile returns canned sample posts plus their pre-extracted profile.
func (h *Handler) SampleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sample_posts":      samplePosts,
		"extracted_profile": sampleStyle(),
	})
}

// AnalyzeVoice runs a style analysis for an anonymous visitor without saving
// anything.
func (h *Handler) AnalyzeVoice(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if len(req.RawSamples) < voice.MinSampleChars {
		http.Error(w, `{"error":"please provide at least 100 characters of sample posts"}`, http.StatusBadRequest)
		return
	}

	ok, err := h.limiter.Allow(r.Context(), clientIP(r), "demo-analyze")
	if err != nil {
		// The counter is a deterrent, not a hard quota: degrade open.
		h.log.Errorw("demo rate limit", "err", err)
	} else if !ok {
		http.Error(w, `{"error":"daily demo limit reached, try again tomorrow"}`, http.StatusTooManyRequests)
		return
	}

	extracted := voice.FallbackProfile()
	reply, err := h.model.Complete(r.Context(), voice.AnalystSystemPrompt, voice.AnalysisPrompt(req.RawSamples))
	if err != nil {
		h.log.Errorw("demo voice analysis", "err", err)
	} else {
		result := voice.DecodeProfile(reply)
		if result.Fallback {
			h.log.Warnw("demo voice analysis fallback", "reason", result.Reason)
		}
		extracted = result.Profile
	}

	now := time.Now().UTC()
	writeJSON(w, http.StatusOK, models.VoiceProfile{
		ID:         "demo-profile-" + uuid.New().String(),
		UserID:     "demo",
		RawSamples: req.RawSamples,
		Extracted:  extracted,
		Settings:   models.DefaultGuardrails(),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// Generate produces demo drafts steered by the built-in sample profile.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Topic == "" {
		http.Error(w, `{"error":"topic is required"}`, http.StatusBadRequest)
		return
	}
	h.respondDrafts(w, r, sampleStyle(), req)
}

// GenerateWithProfile produces demo drafts steered by a caller-supplied
// analyzed profile (typically the output of AnalyzeVoice).
func (h *Handler) GenerateWithProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		models.GenerateRequest
		Profile *models.StyleProfile `json:"profile,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Topic == "" {
		http.Error(w, `{"error":"topic is required"}`, http.StatusBadRequest)
		return
	}
	style := sampleStyle()
	if req.Profile != nil {
		style = *req.Profile
	}
	h.respondDrafts(w, r, style, req.GenerateRequest)
}

// respondDrafts runs generation and returns unsaved drafts owned by the
// synthetic "demo" user.
func (h *Handler) respondDrafts(w http.ResponseWriter, r *http.Request, style models.StyleProfile, req models.GenerateRequest) {
	settings := models.DefaultGuardrails()

	seeds := posts.FallbackDrafts(req.Topic)
	reply, err := h.model.Complete(r.Context(), posts.SystemPrompt(style, settings), posts.GenerationPrompt(req.Topic, req.Audience))
	if err != nil {
		h.log.Errorw("demo generation", "err", err)
	} else {
		result := posts.DecodeDrafts(reply, req.Topic)
		if result.Fallback {
			h.log.Warnw("demo generation fallback", "reason", result.Reason)
		}
		seeds = result.Drafts
	}

	now := time.Now().UTC()
	drafts := make([]models.DraftPost, 0, len(seeds))
	for _, seed := range seeds {
		drafts = append(drafts, models.DraftPost{
			ID:        "demo-" + uuid.New().String(),
			UserID:    "demo",
			Topic:     req.Topic,
			Audience:  req.Audience,
			Content:   seed.Content,
			Tags:      []string{seed.Tag},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	writeJSON(w, http.StatusOK, drafts)
}

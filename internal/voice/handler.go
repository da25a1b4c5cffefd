package voice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avelar/ghostwriter-backend/internal/llm"
	"github.com/avelar/ghostwriter-backend/internal/models"
	"github.com/avelar/ghostwriter-backend/internal/store"
)

// ProfileStore defines the interface for voice-profile persistence.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, p *models.VoiceProfile) (*models.VoiceProfile, error)
	GetProfileByUser(ctx context.Context, userID string) (*models.VoiceProfile, error)
	UpdateProfileSettings(ctx context.Context, userID string, settings models.Guardrails) (*models.VoiceProfile, error)
}

// Handler holds voice-profile HTTP handlers.
type Handler struct {
	profiles ProfileStore
	model    llm.Client
	log      *zap.SugaredLogger
}

func NewHandler(profiles ProfileStore, model llm.Client, log *zap.SugaredLogger) *Handler {
	return &Handler{profiles: profiles, model: model, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Analyze extracts a style profile from sample posts and upserts the
// caller's voice profile. A degraded model never fails the request: the
// deterministic fallback profile is stored instead.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if len(req.RawSamples) < MinSampleChars {
		http.Error(w, `{"error":"please provide at least 100 characters of sample posts"}`, http.StatusBadRequest)
		return
	}

	extracted := h.analyze(r.Context(), req.RawSamples)

	settings := models.DefaultGuardrails()
	if req.Settings != nil {
		settings = mergeSettings(settings, *req.Settings)
	}

	saved, err := h.profiles.UpsertProfile(r.Context(), &models.VoiceProfile{
		ID:         uuid.New().String(),
		UserID:     userID,
		RawSamples: req.RawSamples,
		Extracted:  extracted,
		Settings:   settings,
	})
	if err != nil {
		h.log.Errorw("upsert profile", "err", err)
		http.Error(w, `{"error":"failed to save voice profile"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// analyze runs the model and decodes the reply, falling back silently.
func (h *Handler) analyze(ctx context.Context, rawSamples string) models.StyleProfile {
	reply, err := h.model.Complete(ctx, AnalystSystemPrompt, AnalysisPrompt(rawSamples))
	if err != nil {
		h.log.Errorw("voice analysis", "err", err)
		return FallbackProfile()
	}
	result := DecodeProfile(reply)
	if result.Fallback {
		h.log.Warnw("voice analysis fallback", "reason", result.Reason)
	}
	return result.Profile
}

// Get returns the caller's voice profile, or null when none exists yet.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)

	profile, err := h.profiles.GetProfileByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateSettings replaces the guardrail bundle wholesale.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)

	settings := models.DefaultGuardrails()
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	updated, err := h.profiles.UpdateProfileSettings(r.Context(), userID, settings)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"voice profile not found. Please create one first."}`, http.StatusNotFound)
			return
		}
		h.log.Errorw("update settings", "err", err)
		http.Error(w, `{"error":"failed to update settings"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// mergeSettings overlays non-empty caller fields on the defaults.
func mergeSettings(base, over models.Guardrails) models.Guardrails {
	if over.PostLength != "" {
		base.PostLength = over.PostLength
	}
	if over.Emoji != "" {
		base.Emoji = over.Emoji
	}
	if over.Hashtags != "" {
		base.Hashtags = over.Hashtags
	}
	if over.CTA != "" {
		base.CTA = over.CTA
	}
	if over.RiskFilter != "" {
		base.RiskFilter = over.RiskFilter
	}
	return base
}

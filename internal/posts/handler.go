package posts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avelar/ghostwriter-backend/internal/llm"
	"github.com/avelar/ghostwriter-backend/internal/models"
	"github.com/avelar/ghostwriter-backend/internal/store"
)

// LifetimeCap is the total number of posts a non-privileged user may ever
// generate. Allow-listed identities bypass it.
const LifetimeCap = 10

// DraftStore defines the interface for draft persistence.
type DraftStore interface {
	InsertDraft(ctx context.Context, d *models.DraftPost) error
	ListDrafts(ctx context.Context, userID string, favoritesOnly bool) ([]models.DraftPost, error)
	GetDraft(ctx context.Context, id, userID string) (*models.DraftPost, error)
	UpdateDraft(ctx context.Context, id, userID string, content *string, favorite *bool) (*models.DraftPost, error)
	DeleteDraft(ctx context.Context, id, userID string) error
}

// ProfileStore is the read side of voice-profile persistence.
type ProfileStore interface {
	GetProfileByUser(ctx context.Context, userID string) (*models.VoiceProfile, error)
}

// UserStore is the slice of user persistence that generation needs.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	IncrementPostsGenerated(ctx context.Context, userID string, n int) error
}

// Handler holds draft-post HTTP handlers.
type Handler struct {
	drafts    DraftStore
	profiles  ProfileStore
	users     UserStore
	model     llm.Client
	allowlist map[string]bool
	log       *zap.SugaredLogger
}

func NewHandler(drafts DraftStore, profiles ProfileStore, users UserStore,
	model llm.Client, privilegedEmails []string, log *zap.SugaredLogger) *Handler {
	allow := make(map[string]bool, len(privilegedEmails))
	for _, e := range privilegedEmails {
		allow[strings.ToLower(e)] = true
	}
	return &Handler{
		drafts:    drafts,
		profiles:  profiles,
		users:     users,
		model:     model,
		allowlist: allow,
		log:       log,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Generate produces up to five drafts spanning the fixed angles and persists
// them. The usage cap is enforced before the model is invoked so a rejected
// request creates nothing.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		http.Error(w, `{"error":"topic is required"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil || user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	if !h.allowlist[strings.ToLower(user.Email)] && user.PostsGenerated >= LifetimeCap {
		http.Error(w, `{"error":"lifetime generation limit reached"}`, http.StatusForbidden)
		return
	}

	profile, err := h.profiles.GetProfileByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"please create a voice profile first"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	seeds := h.generate(r.Context(), profile.Extracted, profile.Settings, req.Topic, req.Audience)

	now := time.Now().UTC()
	saved := make([]models.DraftPost, 0, len(seeds))
	for _, seed := range seeds {
		post := models.DraftPost{
			ID:        uuid.New().String(),
			UserID:    userID,
			Topic:     req.Topic,
			Audience:  req.Audience,
			Content:   seed.Content,
			Tags:      []string{seed.Tag},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := h.drafts.InsertDraft(r.Context(), &post); err != nil {
			h.log.Errorw("insert draft", "err", err)
			continue
		}
		saved = append(saved, post)
	}
	if len(saved) == 0 {
		http.Error(w, `{"error":"failed to save drafts"}`, http.StatusInternalServerError)
		return
	}

	if err := h.users.IncrementPostsGenerated(r.Context(), userID, len(saved)); err != nil {
		h.log.Errorw("increment usage counter", "err", err)
	}

	writeJSON(w, http.StatusOK, saved)
}

// generate runs the model and decodes the reply; any upstream failure yields
// the deterministic fallback drafts.
func (h *Handler) generate(ctx context.Context, style models.StyleProfile,
	settings models.Guardrails, topic, audience string) []DraftSeed {
	reply, err := h.model.Complete(ctx, SystemPrompt(style, settings), GenerationPrompt(topic, audience))
	if err != nil {
		h.log.Errorw("post generation", "err", err)
		return FallbackDrafts(topic)
	}
	result := DecodeDrafts(reply, topic)
	if result.Fallback {
		h.log.Warnw("post generation fallback", "reason", result.Reason)
	}
	return result.Drafts
}

// List returns the caller's drafts newest-first, optionally favorites only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)
	favoritesOnly := r.URL.Query().Get("favorites_only") == "true"

	drafts, err := h.drafts.ListDrafts(r.Context(), userID, favoritesOnly)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if drafts == nil {
		drafts = []models.DraftPost{}
	}
	writeJSON(w, http.StatusOK, drafts)
}

// Update edits content and/or the favorite flag.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)
	id := chi.URLParam(r, "id")

	var req models.DraftPostUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	updated, err := h.drafts.UpdateDraft(r.Context(), id, userID, req.Content, req.IsFavorite)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"post not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"update failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes one draft.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)
	id := chi.URLParam(r, "id")

	if err := h.drafts.DeleteDraft(r.Context(), id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"post not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"delete failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

// Regenerate rewrites one draft for its original topic and angle. When the
// model fails, the stored content is left untouched.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)
	id := chi.URLParam(r, "id")

	post, err := h.drafts.GetDraft(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"post not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	profile, err := h.profiles.GetProfileByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"cannot regenerate without a voice profile"}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	tag := Angles[0]
	if len(post.Tags) > 0 {
		tag = post.Tags[0]
	}

	content := post.Content
	reply, err := h.model.Complete(r.Context(), RegenerateSystemPrompt(profile.Extracted), RegeneratePrompt(tag, post.Topic))
	if err != nil {
		h.log.Errorw("regenerate post", "err", err)
	} else if trimmed := strings.TrimSpace(reply); trimmed != "" {
		content = trimmed
	}

	updated, err := h.drafts.UpdateDraft(r.Context(), id, userID, &content, nil)
	if err != nil {
		http.Error(w, `{"error":"update failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

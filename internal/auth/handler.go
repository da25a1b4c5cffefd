package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/avelar/ghostwriter-backend/internal/mailer"
	"github.com/avelar/ghostwriter-backend/internal/models"
	"github.com/avelar/ghostwriter-backend/internal/ratelimit"
	"github.com/avelar/ghostwriter-backend/internal/store"
)

const minPasswordLen = 8

// forgotMessage is returned from forgot-password whether or not the email is
// registered, so responses never disclose account existence.
const forgotMessage = "If that email is registered, a reset link has been sent."

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, email, name, hashedPw string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, hashedPw string) error
}

// ResetStore defines the interface for password-reset token persistence.
type ResetStore interface {
	CreateResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	GetResetTokenByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)
	MarkResetTokenUsed(ctx context.Context, id string) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users   UserStore
	resets  ResetStore
	tokens  *TokenManager
	limiter *ratelimit.SlidingWindow
	mail    mailer.Mailer
	baseURL string
	log     *zap.SugaredLogger
	now     func() time.Time
}

func NewHandler(users UserStore, resets ResetStore, tokens *TokenManager,
	limiter *ratelimit.SlidingWindow, mail mailer.Mailer, baseURL string,
	log *zap.SugaredLogger) *Handler {
	return &Handler{
		users:   users,
		resets:  resets,
		tokens:  tokens,
		limiter: limiter,
		mail:    mail,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		now:     time.Now,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// validEmail accepts a bare addr-spec only, no display name or angle
// brackets.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// clientIP strips the port when RemoteAddr carries one; behind chi's RealIP
// middleware RemoteAddr is already the bare client address.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Register creates a new user and returns a bearer token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Name == "" || req.Password == "" {
		http.Error(w, `{"error":"email, password, and name are required"}`, http.StatusBadRequest)
		return
	}
	if !validEmail(req.Email) {
		http.Error(w, `{"error":"invalid email address"}`, http.StatusBadRequest)
		return
	}
	if len(req.Password) < minPasswordLen {
		http.Error(w, `{"error":"password must be at least 8 characters"}`, http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Email, req.Name, string(hashed))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			http.Error(w, `{"error":"email already registered"}`, http.StatusBadRequest)
			return
		}
		h.log.Errorw("create user", "err", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.log.Errorw("issue token", "err", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Login authenticates a user and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil || user == nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.log.Errorw("issue token", "err", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)
	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil || user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ForgotPassword starts the reset flow. The response is identical whether or
// not the email exists; the actual work only happens for known accounts
// within the sliding-window limit.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		http.Error(w, `{"error":"email is required"}`, http.StatusBadRequest)
		return
	}

	key := clientIP(r) + "|" + email
	if !h.limiter.Allow(key) {
		// Still the generic message: the limiter must not become an
		// enumeration oracle either.
		writeJSON(w, http.StatusOK, map[string]string{"message": forgotMessage})
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), email)
	if err != nil || user == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": forgotMessage})
		return
	}

	secret, secretHash, err := NewResetSecret()
	if err != nil {
		h.log.Errorw("generate reset secret", "err", err)
		writeJSON(w, http.StatusOK, map[string]string{"message": forgotMessage})
		return
	}

	if err := h.resets.CreateResetToken(r.Context(), user.ID, secretHash, h.now().Add(ResetTTL)); err != nil {
		h.log.Errorw("persist reset token", "err", err)
		writeJSON(w, http.StatusOK, map[string]string{"message": forgotMessage})
		return
	}

	link := h.baseURL + "/reset-password?token=" + secret
	subject, body := mailer.ResetEmail(link)
	if err := h.mail.Send(user.Email, subject, body); err != nil {
		// Delivery is best-effort: log, never raise.
		h.log.Errorw("send reset mail", "err", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": forgotMessage})
}

// VerifyResetToken is a stateless pre-check for the reset form. A record
// discovered expired here is marked used as a side effect.
func (h *Handler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyResetTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, `{"error":"token is required"}`, http.StatusBadRequest)
		return
	}

	record, err := h.resets.GetResetTokenByHash(r.Context(), HashResetSecret(req.Token))
	if err != nil || record == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"valid": false, "expired": false})
		return
	}
	if h.now().After(record.ExpiresAt) {
		if err := h.resets.MarkResetTokenUsed(r.Context(), record.ID); err != nil {
			h.log.Errorw("mark reset token used", "err", err)
		}
		writeJSON(w, http.StatusOK, map[string]bool{"valid": false, "expired": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true, "expired": false})
}

// ResetPassword consumes a reset secret and replaces the user's credential.
// A record transitions to used exactly once; later attempts with the same
// secret miss the unused-only lookup.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, `{"error":"token is required"}`, http.StatusBadRequest)
		return
	}
	if len(req.NewPassword) < minPasswordLen {
		http.Error(w, `{"error":"password must be at least 8 characters"}`, http.StatusBadRequest)
		return
	}

	record, err := h.resets.GetResetTokenByHash(r.Context(), HashResetSecret(req.Token))
	if err != nil || record == nil {
		http.Error(w, `{"error":"invalid or expired reset token"}`, http.StatusBadRequest)
		return
	}
	if h.now().After(record.ExpiresAt) {
		if err := h.resets.MarkResetTokenUsed(r.Context(), record.ID); err != nil {
			h.log.Errorw("mark reset token used", "err", err)
		}
		http.Error(w, `{"error":"reset token expired"}`, http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), record.UserID, string(hashed)); err != nil {
		h.log.Errorw("update password", "err", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if err := h.resets.MarkResetTokenUsed(r.Context(), record.ID); err != nil {
		h.log.Errorw("mark reset token used", "err", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

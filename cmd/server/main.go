package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/avelar/ghostwriter-backend/internal/auth"
	"github.com/avelar/ghostwriter-backend/internal/config"
	"github.com/avelar/ghostwriter-backend/internal/demo"
	"github.com/avelar/ghostwriter-backend/internal/llm"
	"github.com/avelar/ghostwriter-backend/internal/mailer"
	"github.com/avelar/ghostwriter-backend/internal/middleware"
	"github.com/avelar/ghostwriter-backend/internal/posts"
	"github.com/avelar/ghostwriter-backend/internal/ratelimit"
	"github.com/avelar/ghostwriter-backend/internal/store"
	"github.com/avelar/ghostwriter-backend/internal/voice"
)

const (
	resetWindowMax = 3
	resetWindow    = 5 * time.Minute

	demoDailyMax    = 2
	demoDailyWindow = 24 * time.Hour
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	mongoStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()

	// ── Collaborators ────────────────────────────────────────
	model, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("gemini client: %v", err)
	}
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)

	// ── Rate limiters ────────────────────────────────────────
	resetLimiter := ratelimit.NewSlidingWindow(resetWindowMax, resetWindow)
	demoLimiter := ratelimit.NewDailyCounter(rdb, demoDailyMax, demoDailyWindow)

	// ── Handlers ─────────────────────────────────────────────
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	authHandler := auth.NewHandler(pgStore, pgStore, tokens, resetLimiter, mail, cfg.PublicBaseURL, log)
	voiceHandler := voice.NewHandler(mongoStore, model, log)
	postsHandler := posts.NewHandler(mongoStore, mongoStore, pgStore, model, cfg.AdminEmails, log)
	demoHandler := demo.NewHandler(model, demoLimiter, log)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Ghostwriter API","status":"running"}`))
	})
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Auth routes (public except /me)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/verify-reset-token", authHandler.VerifyResetToken)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.With(middleware.RequireAuth(tokens)).Get("/me", authHandler.Me)
	})

	// Voice profile routes (protected)
	r.Route("/api/voice-profile", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Post("/analyze", voiceHandler.Analyze)
		r.Get("/", voiceHandler.Get)
		r.Put("/settings", voiceHandler.UpdateSettings)
	})

	// Post routes (protected)
	r.Route("/api/posts", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Post("/generate", postsHandler.Generate)
		r.Get("/", postsHandler.List)
		r.Put("/{id}", postsHandler.Update)
		r.Delete("/{id}", postsHandler.Delete)
		r.Post("/{id}/regenerate", postsHandler.Regenerate)
	})

	// Demo routes (public, throttled)
	r.Route("/api/demo", func(r chi.Router) {
		r.Get("/sample-profile", demoHandler.SampleProfile)
		r.Post("/analyze-voice", demoHandler.AnalyzeVoice)
		r.Post("/generate", demoHandler.Generate)
		r.Post("/generate-with-profile", demoHandler.GenerateWithProfile)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
	}

	go func() {
		log.Infof("backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}

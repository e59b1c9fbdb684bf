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
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thittam1hub/hub-api/internal/config"
	"github.com/thittam1hub/hub-api/internal/domain/block"
	"github.com/thittam1hub/hub-api/internal/domain/follow"
	"github.com/thittam1hub/hub-api/internal/domain/profile"
	"github.com/thittam1hub/hub-api/internal/middleware"
	"github.com/thittam1hub/hub-api/internal/pkg/database"
	"github.com/thittam1hub/hub-api/internal/pkg/imaging"
	"github.com/thittam1hub/hub-api/internal/pkg/jwt"
	"github.com/thittam1hub/hub-api/internal/pkg/logger"
	pkgresponse "github.com/thittam1hub/hub-api/internal/pkg/response"
	"github.com/thittam1hub/hub-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Thittam1Hub API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Storage ----------
	var store storage.Storage
	if cfg.R2AccountID != "" {
		store, err = storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create R2 storage")
		}
	} else {
		// Local disk in development
		store, err = storage.NewLocalStorage("./uploads", "http://localhost:"+cfg.Port+"/static")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create local storage")
		}
	}

	// ---------- Repositories ----------
	followRepo := follow.NewRepository(db)
	blockRepo := block.NewRepository(db)
	profileRepo := profile.NewRepository(db)

	// ---------- WebSocket hub ----------
	followHub := follow.NewHub(redis, profileRepo)
	go followHub.Run()
	defer followHub.Stop()

	// ---------- Services ----------
	profileService := profile.NewService(profileRepo, store, imaging.NewProcessor(imaging.DefaultConfig()))
	blockService := block.NewService(blockRepo, followRepo)

	limiter := follow.NewLimiter(cfg.MaxFollowsPerHour, cfg.FollowWindow, cfg.UnfollowCooldown)
	followService := follow.NewService(
		followRepo,
		blockService,
		&profileDirectoryAdapter{service: profileService},
		limiter,
		followHub,
	)

	// ---------- Handlers ----------
	followHandler := follow.NewHandler(followService, followHub, cfg.AllowedOrigins)
	blockHandler := block.NewHandler(blockService, &blockProfileAdapter{service: profileService})
	profileHandler := profile.NewHandler(profileService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(followHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/follows", followHandler.Routes(authMiddleware))
		r.Mount("/users", followHandler.UserRoutes(authMiddleware))
		r.Mount("/blocks", blockHandler.Routes(authMiddleware))
		r.Mount("/profiles", profileHandler.Routes(authMiddleware))

		// Privacy toggle lives with the follow handler: going public
		// releases pending requests, which is follow-domain behavior.
		r.With(authMiddleware).Patch("/profiles/me/privacy", followHandler.SetPrivacy)
	})

	if cfg.R2AccountID == "" {
		// Serve local uploads in development
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir("./uploads")))
		r.Get("/static/*", fileServer.ServeHTTP)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// Adapter implementations to bridge interface mismatches

// profileDirectoryAdapter adapts profile.Service to follow.ProfileDirectory
type profileDirectoryAdapter struct {
	service *profile.Service
}

func (a *profileDirectoryAdapter) IsPrivate(ctx context.Context, userID uuid.UUID) (bool, error) {
	return a.service.IsPrivate(ctx, userID)
}

func (a *profileDirectoryAdapter) SetPrivate(ctx context.Context, userID uuid.UUID, isPrivate bool) error {
	return a.service.SetPrivate(ctx, userID, isPrivate)
}

func (a *profileDirectoryAdapter) ListCards(ctx context.Context, userIDs []uuid.UUID) ([]*follow.UserCard, error) {
	cards, err := a.service.ListCards(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	out := make([]*follow.UserCard, 0, len(cards))
	for _, c := range cards {
		card := &follow.UserCard{
			UserID:    c.UserID,
			FullName:  c.FullName,
			AvatarURL: c.AvatarURL,
			IsOnline:  c.IsOnline,
		}
		if c.Headline != nil {
			card.Headline = *c.Headline
		}
		if c.Organization != nil {
			card.Organization = *c.Organization
		}
		out = append(out, card)
	}
	return out, nil
}

// blockProfileAdapter adapts profile.Service to block.ProfileFetcher
type blockProfileAdapter struct {
	service *profile.Service
}

func (a *blockProfileAdapter) GetUserProfile(ctx context.Context, userID uuid.UUID) (*block.UserProfile, error) {
	p, err := a.service.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	up := &block.UserProfile{
		UserID:   p.UserID,
		FullName: p.FullName,
	}
	if p.AvatarThumbURL.Valid {
		up.AvatarURL = &p.AvatarThumbURL.String
	}
	return up, nil
}

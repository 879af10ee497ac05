package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"deliciasmz/auth"
	"deliciasmz/chef"
	"deliciasmz/config"
	"deliciasmz/db"
	"deliciasmz/home"
	"deliciasmz/kv"
	"deliciasmz/middleware"
	"deliciasmz/mq"
	"deliciasmz/ratelim"
	"deliciasmz/recipes"
	"deliciasmz/routes"
	"deliciasmz/social"
	"deliciasmz/storage"
	"deliciasmz/utils"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// app holds the wired components of one process.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	kv      kv.Store
	mongo   *db.Mongo
	bus     *mq.Bus
	limiter *ratelim.RateLimiter
	handler http.Handler
	closers []func(context.Context)
}

func openKV(ctx context.Context, cfg config.Config, log *zap.Logger) (kv.Store, func(context.Context)) {
	if cfg.RedisAddr == "" {
		log.Info("Using in-memory key-value store")
		return kv.NewMemory(), nil
	}
	r, err := kv.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn("Redis unreachable, using in-memory key-value store", zap.Error(err))
		return kv.NewMemory(), nil
	}
	log.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	return r, func(context.Context) { _ = r.Close() }
}

func openMongo(ctx context.Context, cfg config.Config, log *zap.Logger) *db.Mongo {
	m, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		if errors.Is(err, db.ErrUnconfigured) {
			log.Warn("MONGODB_URI not set, running in demo mode")
		} else {
			log.Warn("MongoDB unreachable, running in demo mode", zap.Error(err))
		}
		return nil
	}
	if err := m.EnsureIndexes(ctx); err != nil {
		log.Warn("Could not ensure indexes", zap.Error(err))
	}
	log.Info("Pinged your deployment. You successfully connected to MongoDB!")
	return m
}

func newApp(ctx context.Context, cfg config.Config, log *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, bus: mq.NewBus(log)}

	store, closeKV := openKV(ctx, cfg, log)
	a.kv = store
	if closeKV != nil {
		a.closers = append(a.closers, closeKV)
	}

	favorites := storage.NewFavorites(store, "", log)
	var (
		persistence storage.Storage
		profiles    auth.ProfileStore
	)
	switch cfg.StorageMode {
	case storage.ModeRemote:
		var backend storage.Backend
		if a.mongo = openMongo(ctx, cfg, log); a.mongo != nil {
			backend, profiles = a.mongo, a.mongo
			m := a.mongo
			a.closers = append(a.closers, func(ctx context.Context) { _ = m.Close(ctx) })
		}
		persistence = storage.NewRemote(backend, favorites, log)
	default:
		persistence = storage.NewLocal(store, favorites, log)
	}
	log.Info("Storage ready", zap.String("mode", string(cfg.StorageMode)))

	secret := cfg.JWTSecret
	if cfg.DevSecret() {
		secret = uuid.NewString()
		log.Warn("JWT_SECRET not set, sessions will not survive a restart")
	}
	identity, err := auth.NewService(profiles, store, a.bus, auth.Config{
		Secret:              []byte(secret),
		AdminSecret:         cfg.AdminSecret,
		RequireConfirmation: cfg.RequireConfirmation,
	}, log)
	if err != nil {
		return nil, err
	}
	a.bus.Subscribe(func(event string, c mq.Index) {
		log.Info("Session changed", zap.String("event", event), zap.String("user", c.EntityId))
	})

	var gen chef.Generator
	if g, err := chef.NewGenAI(ctx, cfg.GeminiAPIKey, ""); err == nil {
		gen = g
	} else {
		log.Warn("AI chef disabled", zap.Error(err))
	}

	engine := social.NewEngine(persistence, social.Options{
		Timeout: cfg.RequestTimeout,
		Devices: store,
		Log:     log,
	})
	uploader := &utils.Uploader{Dir: cfg.UploadDir, URLPrefix: "/static/uploads", Log: log}
	a.limiter = ratelim.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)

	router := routes.New(routes.Deps{
		Auth:     &middleware.Auth{Verifier: identity},
		Limiter:  a.limiter,
		Recipes:  &recipes.Handler{Engine: engine, Uploader: uploader, Log: log},
		Home:     &home.Handler{Engine: engine},
		Identity: identity,
		Chef:     chef.New(gen, log),
		Uploader: uploader,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Device-ID"},
		AllowCredentials: true,
	})
	a.handler = middleware.RecoverMiddleware(log,
		middleware.LoggingMiddleware(log,
			middleware.SecurityHeaders(c.Handler(router))))
	return a, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
}

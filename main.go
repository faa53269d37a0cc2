package main

import (
	"context"
	"os"
	"strings"
	"time"

	"portfolio-site/config"
	"portfolio-site/database"
	adminapi "portfolio-site/internal/api/admin"
	authapi "portfolio-site/internal/api/auth"
	worksapi "portfolio-site/internal/api/works"
	routes "portfolio-site/internal/app/http"
	"portfolio-site/internal/app/http/middleware"
	"portfolio-site/internal/app/http/views"
	"portfolio-site/internal/app/publish"
	"portfolio-site/internal/domain/works"
	"portfolio-site/internal/infra/backend"
	"portfolio-site/internal/infra/cache"
	"portfolio-site/internal/infra/staging"
	"portfolio-site/internal/infra/store"
	"portfolio-site/internal/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	maxStagedFile = 200 << 20
	sweepEvery    = time.Hour
	draftMaxAge   = 24 * time.Hour
)

func main() {
	dotenvErr := config.LoadDotEnv()

	logger, err := logging.New(os.Getenv("LOG_LEVEL"), strings.EqualFold(os.Getenv("APP_ENV"), "production"))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	if dotenvErr != nil {
		logger.Info("no .env file loaded", zap.Error(dotenvErr))
	}

	config.LoadEnv()
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.InitDB(config.DB_URL); err != nil {
		logger.Fatal("database", zap.Error(err))
	}

	api, err := backend.New(config.BACKEND_API_URL, nil)
	if err != nil {
		logger.Fatal("backend client", zap.Error(err))
	}
	files, err := staging.NewStore(config.STAGING_DIR, maxStagedFile)
	if err != nil {
		logger.Fatal("staging store", zap.Error(err))
	}

	snapshots := snapshotStore(logger)
	admin := adminapi.NewHandler(adminapi.Deps{
		Source:    api,
		Snapshots: snapshots,
		Drafts:    store.NewDraftStore(database.DB),
		Files:     files,
		Publisher: publish.New(api, files, logger.Named("publish")),
		Uploader:  api,
		Logger:    logger.Named("admin"),
	})

	tmpl, err := views.Load()
	if err != nil {
		logger.Fatal("templates", zap.Error(err))
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLog(logger), middleware.Recovery(logger))

	if config.CORS_ORIGIN != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Split(config.CORS_ORIGIN, ","),
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.SetHTMLTemplate(tmpl)

	routes.RegisterRoutes(r, routes.Handlers{
		Works: worksapi.NewHandler(api, snapshots, logger.Named("works")),
		Auth: authapi.NewHandler(authapi.Settings{
			AdminPassword: config.ADMIN_PWD,
			Secret:        config.JWT_SECRET_KEY,
			SecureCookie:  config.IsProduction(),
		}, logger.Named("auth")),
		Admin:  admin,
		Secret: func() string { return config.JWT_SECRET_KEY },
	})

	go sweep(context.Background(), admin)

	logger.Info("listening", zap.String("port", config.PORT), zap.String("env", config.APP_ENV))
	if err := r.Run(":" + config.PORT); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// snapshotStore prefers redis when configured and reachable.
func snapshotStore(logger *zap.Logger) works.SnapshotStore {
	if config.REDIS_ADDR != "" {
		s := cache.NewSnapshotStore(cache.NewClient(config.REDIS_ADDR, config.REDIS_PASSWORD, 0), "portfolio:", 0)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		err := s.Ping(ctx)
		if err == nil {
			return s
		}
		logger.Warn("redis unreachable, keeping the snapshot in the database", zap.Error(err))
	}
	return store.NewSnapshotStore(database.DB)
}

func sweep(ctx context.Context, admin *adminapi.Handler) {
	t := time.NewTicker(sweepEvery)
	defer t.Stop()
	for {
		admin.SweepStale(ctx, draftMaxAge)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

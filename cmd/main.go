package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"partnerhub/internal/caching"
	"partnerhub/internal/config"
	"partnerhub/internal/handlers"
	"partnerhub/internal/jobs/background"
	"partnerhub/internal/logger"
	"partnerhub/internal/middleware"
	"partnerhub/internal/repositories"
	"partnerhub/internal/services"
	"partnerhub/pkg/database"
)

const version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "partnerhub",
		Usage:   "referral partner portal API",
		Version: version,
		Commands: []*cli.Command{
			commandServe(),
			commandMigrate(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigrate() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply the database schema",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			lg := logger.New()
			defer lg.Sync() //nolint:errcheck

			pool, err := database.NewPool(c.Context, cfg.DatabaseURL, lg)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			if err := database.Migrate(c.Context, pool); err != nil {
				return err
			}
			lg.Info("schema applied")
			return nil
		},
	}
}

func commandServe() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the HTTP server and the mirror resync scheduler",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "apply the schema before serving",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			lg := logger.New()
			defer lg.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, lg, c.Bool("migrate"))
		},
	}
}

func newBlobStore(ctx context.Context, cfg config.StorageConfig) (services.BlobStore, error) {
	switch cfg.Driver {
	case config.DriverS3:
		return services.NewS3Store(ctx, cfg.AWSRegion, cfg.Bucket, cfg.PublicBaseURL)
	default:
		return services.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.Bucket, cfg.PublicBaseURL)
	}
}

func serve(ctx context.Context, cfg *config.Config, lg *zap.SugaredLogger, migrate bool) error {
	if cfg.JWTGenerated {
		lg.Warn("JWT_SECRET not set, using a generated secret; sessions will not survive a restart")
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, lg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, lg)
	defer redisClient.Close()
	cacheSvc := caching.NewRedisCacheService(redisClient)

	blobs, err := newBlobStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init blob store: %w", err)
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		lg.Warnw("document bucket unavailable", "bucket", cfg.Storage.Bucket, "error", err)
	}

	// Repositories
	partnerRepo := repositories.NewPartnerRepo(pool)
	adminRepo := repositories.NewAdminRepo(pool)
	leadRepo := repositories.NewLeadRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	partnerProductRepo := repositories.NewPartnerProductRepo(pool)
	productDocs := repositories.NewDocumentRepo(pool, repositories.ProductDocuments)
	partnerProductDocs := repositories.NewDocumentRepo(pool, repositories.PartnerProductDocuments)

	// Services
	partnerSvc := services.NewPartnerService(partnerRepo, lg)
	leadSvc := services.NewLeadService(leadRepo, lg)
	productSvc := services.NewProductService(pool, productRepo, productDocs, blobs, lg)
	partnerProductSvc := services.NewPartnerProductService(pool, partnerProductRepo, partnerProductDocs, blobs, lg)
	adminSvc := services.NewAdminAuthService(adminRepo, lg)
	authSvc := services.NewAuthService(cacheSvc, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, lg)

	mirrors := map[string]background.Loader{
		"partners":         partnerSvc,
		"leads":            leadSvc,
		"products":         productSvc,
		"partner_products": partnerProductSvc,
		"admin":            adminSvc,
	}

	scheduler, err := background.NewJobScheduler(cfg.MirrorRefreshInterval, mirrors, lg)
	if err != nil {
		return err
	}
	if failed := scheduler.RefreshMirrors(ctx); len(failed) > 0 {
		return fmt.Errorf("initial mirror load failed: %v", failed)
	}

	e := newServer(pool, cacheSvc, blobs, lg, partnerSvc, leadSvc, productSvc, partnerProductSvc, adminSvc, authSvc)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		return scheduler.Stop()
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Port)
		lg.Infow("partnerhub server starting", "version", version, "addr", addr, "storage", cfg.Storage.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		lg.Info("shutting down HTTP server")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newServer(
	pool *pgxpool.Pool,
	cacheSvc caching.CacheService,
	blobs services.BlobStore,
	lg *zap.SugaredLogger,
	partnerSvc services.PartnerService,
	leadSvc services.LeadService,
	productSvc services.ProductService,
	partnerProductSvc services.PartnerProductService,
	adminSvc services.AdminAuthService,
	authSvc services.AuthService,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(gommonlog.INFO)

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	handlers.RegisterRoutes(e, &handlers.Handlers{
		Auth:            handlers.NewAuthHandlers(authSvc, adminSvc, partnerSvc, lg),
		Partners:        handlers.NewPartnerHandlers(partnerSvc, leadSvc, partnerProductSvc, productSvc, lg),
		Leads:           handlers.NewLeadHandlers(leadSvc, partnerSvc, productSvc, partnerProductSvc, adminSvc, lg),
		Products:        handlers.NewProductHandlers(productSvc, partnerSvc, lg),
		PartnerProducts: handlers.NewPartnerProductHandlers(partnerProductSvc, partnerSvc, lg),
		Health:          handlers.NewHealthHandlers(pool, cacheSvc, blobs, version),
	}, authSvc, middleware.NewAuditMiddleware(lg))

	return e
}

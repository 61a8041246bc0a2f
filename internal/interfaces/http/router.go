// Package http assembles the HTTP surface: repositories, use cases,
// handlers, middleware and routes.
package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/blobstore"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/idalloc"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/linkcodec"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/usecases"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/auth"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/blockchain"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/config"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/ratelimit"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/repository"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/storage"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/interfaces/http/handlers"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/interfaces/http/middleware"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/interfaces/http/routes"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

// Router owns the gin engine and the full dependency graph behind it.
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
	db     *gorm.DB
	redis  *redis.Client
	logger logger.Interface
}

func NewRouter(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger logger.Interface) *Router {
	return &Router{
		engine: gin.New(),
		cfg:    cfg,
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

// Setup wires repositories, services, use cases and handlers, then registers
// all routes.
func (r *Router) Setup() error {
	repo := repository.NewButtonRepository(r.db)
	allocator := idalloc.NewAllocator(repo, r.logger)
	codec := linkcodec.NewCodec(
		repoResolver{repo: repo},
		r.cfg.Chain.DefaultToken().Address,
		r.logger,
	)

	provider, err := blockchain.NewRPCProvider(&r.cfg.Chain, r.logger)
	if err != nil {
		return err
	}

	// storage.New returns a typed nil when no endpoint is configured; keep
	// the interface nil in that case so use cases see "not configured".
	var images blobstore.Store
	var imageBaseURL string
	if s := storage.New(&r.cfg.Storage, r.logger); s != nil {
		images = s
		imageBaseURL = strings.TrimSuffix(s.PublicURL(""), "/")
	}

	tokens := auth.NewSessionTokenService(r.cfg.Auth.JWT.Secret, r.cfg.Auth.JWT.SessionExpHours)
	walletAuth := auth.NewWalletAuthService(
		auth.NewRedisChallengeStore(r.redis),
		tokens,
		time.Duration(r.cfg.Auth.Challenge.TTLMinutes)*time.Minute,
		r.logger,
	)

	limiter := ratelimit.NewRedisRateLimiter(r.redis)

	links := usecases.LinkConfig{
		Origin:   r.cfg.Server.BaseURL,
		BasePath: r.cfg.Server.LinkBasePath,
		PagePath: "/",
	}
	confirmTimeout := time.Duration(r.cfg.Chain.ConfirmTimeoutSeconds) * time.Second

	createUC := usecases.NewCreateButtonUseCase(repo, allocator, codec, links, r.logger)
	listUC := usecases.NewListButtonsUseCase(repo)
	updateUC := usecases.NewUpdateButtonUseCase(repo)
	archiveUC := usecases.NewArchiveButtonUseCase(repo)
	unarchiveUC := usecases.NewUnarchiveButtonUseCase(repo)
	deleteUC := usecases.NewDeleteButtonUseCase(repo, images, imageBaseURL, r.logger)
	uploadUC := usecases.NewUploadImageUseCase(images, r.logger)
	resolveUC := usecases.NewResolveLinkUseCase(repo, codec)
	payUC := usecases.NewExecutePaymentUseCase(repo, provider, r.cfg.Chain.ChainID, confirmTimeout, r.logger)

	authHandler := handlers.NewAuthHandler(walletAuth, r.logger)
	buttonHandler := handlers.NewButtonHandler(
		createUC, listUC, updateUC, archiveUC, unarchiveUC, deleteUC, uploadUC, r.logger)
	payLinkHandler := handlers.NewPayLinkHandler(
		resolveUC, payUC,
		strings.TrimSuffix(r.cfg.Server.BaseURL, "/")+r.cfg.Server.LinkBasePath,
		provider.PayerAddress(),
		r.logger,
	)

	authMW := middleware.NewAuthMiddleware(walletAuth, r.logger)
	rateLimitMW := middleware.NewRateLimitMiddleware(limiter, r.logger)

	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestLogger(r.logger))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler: authHandler,
	})
	routes.SetupButtonRoutes(r.engine, &routes.ButtonRouteConfig{
		ButtonHandler: buttonHandler,
		Auth:          authMW,
		RateLimit:     rateLimitMW,
		CreateLimit:   ratelimit.Limit{PerMinute: r.cfg.RateLimit.CreatePerMinute},
	})
	routes.SetupPayLinkRoutes(r.engine, &routes.PayLinkRouteConfig{
		PayLinkHandler:    payLinkHandler,
		RateLimit:         rateLimitMW,
		ShortLinkBasePath: r.cfg.Server.LinkBasePath,
		ResolveLimit:      ratelimit.Limit{PerMinute: r.cfg.RateLimit.ResolvePerMinute},
		PayLimit:          ratelimit.Limit{PerMinute: r.cfg.RateLimit.CreatePerMinute},
	})

	return nil
}

// Engine exposes the configured gin engine to the HTTP server.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// repoResolver adapts the repository to the codec's resolver port.
type repoResolver struct {
	repo button.Repository
}

func (r repoResolver) Resolve(ctx context.Context, linkID string) (*button.Button, error) {
	return r.repo.GetByID(ctx, linkID)
}

package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/helpdeskhq/ticketdesk/internal/auth"
	"github.com/helpdeskhq/ticketdesk/internal/cache"
	"github.com/helpdeskhq/ticketdesk/internal/config"
	"github.com/helpdeskhq/ticketdesk/internal/http/handlers"
	"github.com/helpdeskhq/ticketdesk/internal/http/middlewares"
	"github.com/helpdeskhq/ticketdesk/internal/observability"
	"github.com/helpdeskhq/ticketdesk/internal/repo/postgres"
	"github.com/helpdeskhq/ticketdesk/internal/security"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Deps carries the router's collaborators so tests can swap in fakes.
type Deps struct {
	Users   handlers.UserStore
	Tickets handlers.TicketStore
	Cache   handlers.TicketListCache
	JWT     *auth.Manager
	Hasher  security.Hasher
	Ping    func() error
	Metrics *observability.Prom
}

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, redisClient *cache.Client, cfg config.Config) *gin.Engine {
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	// one Prom shared by the HTTP middleware and the repos, so db
	// metrics land in the same registry /metrics scrapes
	prom := observability.NewProm(prometheus.NewRegistry())

	deps := Deps{
		Users:   postgres.NewUsersRepo(pool, prom),
		Tickets: postgres.NewTicketsRepo(pool, prom),
		JWT:     auth.NewManager(cfg.JWTSecret, cfg.JWTTTL()),
		Hasher:  security.NewHasher(cfg.BcryptCost),
		Ping:    ping,
		Metrics: prom,
	}

	if redisClient != nil {
		deps.Cache = redisClient
	}

	return NewRouterWithDeps(log, cfg, deps)
}

func NewRouterWithDeps(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("ticketdesk"))

	// per-router registry so tests can build routers freely
	prom := deps.Metrics
	if prom == nil {
		prom = observability.NewProm(prometheus.NewRegistry())
	}
	r.Use(prom.GinHandleMiddleware())

	r.GET("/metrics", gin.WrapH(prom.Handler()))

	// health

	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// auth gate

	authMW := middlewares.NewAuthMiddleware(deps.JWT).WithObserver(func(result string) {
		prom.AuthResults.WithLabelValues(result).Inc()
	})

	// handlers

	usersHandler := handlers.NewUsersHandler(deps.Users, deps.JWT, deps.Hasher)
	ticketsHandler := handlers.NewTicketsHandler(deps.Tickets, deps.Users, deps.Cache)

	r.POST("/register", usersHandler.Register)
	r.POST("/login", usersHandler.Login)

	protected := r.Group("/", authMW.RequireAuth())

	protected.GET("/users", usersHandler.ListUsers)
	protected.GET("/tickets", ticketsHandler.ListTickets)
	protected.POST("/tickets", ticketsHandler.CreateTicket)
	protected.GET("/tickets/:id", ticketsHandler.GetTicketByID)

	return r
}

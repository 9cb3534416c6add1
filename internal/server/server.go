package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Huve14/Go-Moto-sub000/internal/billing/lifecycle"
	"github.com/Huve14/Go-Moto-sub000/internal/clock"
	"github.com/Huve14/Go-Moto-sub000/internal/config"
	listingdomain "github.com/Huve14/Go-Moto-sub000/internal/listing/domain"
	"github.com/Huve14/Go-Moto-sub000/internal/observability/logger"
	"github.com/Huve14/Go-Moto-sub000/internal/observability/metrics"
	plandomain "github.com/Huve14/Go-Moto-sub000/internal/plan/domain"
	rentaldomain "github.com/Huve14/Go-Moto-sub000/internal/rental/domain"
	subscriptiondomain "github.com/Huve14/Go-Moto-sub000/internal/subscription/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(RunHTTP),
)

// Server holds handler dependencies.
type Server struct {
	engine *gin.Engine
	db     *gorm.DB
	log    *zap.Logger
	cfg    config.Config
	clk    clock.Clock

	runner          *lifecycle.Runner
	planSvc         plandomain.Service
	listingSvc      listingdomain.Service
	subscriptionSvc subscriptiondomain.Service
	rentalSvc       rentaldomain.Service

	cronLimiter *rateLimiter
}

type Params struct {
	fx.In

	Engine *gin.Engine
	DB     *gorm.DB
	Log    *zap.Logger
	Config config.Config
	Clock  clock.Clock

	Runner          *lifecycle.Runner
	PlanSvc         plandomain.Service
	ListingSvc      listingdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	RentalSvc       rentaldomain.Service
}

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(metrics.GinMiddleware(metrics.HTTP()))
	return engine
}

func NewServer(p Params) *Server {
	return &Server{
		engine:          p.Engine,
		db:              p.DB,
		log:             p.Log.Named("server"),
		cfg:             p.Config,
		clk:             p.Clock,
		runner:          p.Runner,
		planSvc:         p.PlanSvc,
		listingSvc:      p.ListingSvc,
		subscriptionSvc: p.SubscriptionSvc,
		rentalSvc:       p.RentalSvc,
		cronLimiter:     newRateLimiter(10, time.Minute),
	}
}

// RegisterRoutes attaches all API routes.
func (s *Server) RegisterRoutes() {
	s.engine.GET("/healthz", s.Health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	{
		api.GET("/plans", s.ListPlans)
		api.GET("/plans/:id", s.GetPlanByID)

		api.GET("/listings", s.BrowseListings)
		api.GET("/listings/:id", s.GetListingByID)
		api.POST("/listings", s.CreateListing)

		api.GET("/subscriptions", s.ListSubscriptions)
		api.GET("/subscriptions/:id", s.GetSubscriptionByID)

		api.POST("/applications", s.SubmitApplication)
		api.GET("/applications", s.ListApplications)
		api.PATCH("/applications/:id", s.ReviewApplication)
		api.GET("/bookings", s.ListBookings)

		api.POST("/leads", s.CaptureLead)
		api.GET("/leads", s.ListLeads)

		cron := api.Group("/cron", s.CronAuthRequired())
		{
			cron.POST("/billing", s.RunBillingCron)
			// Alias kept for older scheduler configurations.
			cron.POST("/billing-daily", s.RunBillingCron)
		}
	}
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

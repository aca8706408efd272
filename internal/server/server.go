package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	accountdomain "github.com/smallbiznis/taxdesk/internal/account/domain"
	"github.com/smallbiznis/taxdesk/internal/auth/session"
	"github.com/smallbiznis/taxdesk/internal/auth/token"
	"github.com/smallbiznis/taxdesk/internal/config"
	invoicedomain "github.com/smallbiznis/taxdesk/internal/invoice/domain"
	"github.com/smallbiznis/taxdesk/internal/observability"
	taxprofiledomain "github.com/smallbiznis/taxdesk/internal/taxprofile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.GinMiddleware(log))
	r.Use(observability.MetricsMiddleware(httpMetrics))
	r.Use(CORSMiddleware(cfg.AllowedOrigin))
	r.Use(ErrorHandlingMiddleware(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Bounded-grace drain: stop accepting, let in-flight requests
			// finish, force-close at the deadline.
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	log           *zap.Logger
	sessions      *session.Manager
	tokenSvc      *token.Service
	accountSvc    accountdomain.Service
	taxProfileSvc taxprofiledomain.Service
	invoiceSvc    invoicedomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	Log           *zap.Logger
	Sessions      *session.Manager
	TokenSvc      *token.Service
	AccountSvc    accountdomain.Service
	TaxProfileSvc taxprofiledomain.Service
	InvoiceSvc    invoicedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		log:           p.Log.Named("server"),
		sessions:      p.Sessions,
		tokenSvc:      p.TokenSvc,
		accountSvc:    p.AccountSvc,
		taxProfileSvc: p.TaxProfileSvc,
		invoiceSvc:    p.InvoiceSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.AuthRequired(), s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Accounts --------
	api.GET("/accounts", s.ListAccounts)
	api.POST("/accounts", s.CreateAccount)
	api.GET("/accounts/:id", s.GetAccountByID)
	api.PATCH("/accounts/:id", s.UpdateAccount)
	api.DELETE("/accounts/:id", s.DeleteAccount)

	// -------- Tax profiles --------
	api.GET("/tax-profiles", s.ListTaxProfiles)
	api.POST("/tax-profiles", s.CreateTaxProfile)
	api.GET("/tax-profiles/:id", s.GetTaxProfileByID)
	api.PATCH("/tax-profiles/:id", s.UpdateTaxProfile)
	api.DELETE("/tax-profiles/:id", s.DeleteTaxProfile)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PATCH("/invoices/:id", s.UpdateInvoice)
	api.DELETE("/invoices/:id", s.DeleteInvoice)
}

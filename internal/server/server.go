package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/pensio/internal/config"
	contributiondomain "github.com/smallbiznis/pensio/internal/contribution/domain"
	eligibilitydomain "github.com/smallbiznis/pensio/internal/eligibility/domain"
	memberdomain "github.com/smallbiznis/pensio/internal/member/domain"
	obsmetrics "github.com/smallbiznis/pensio/internal/observability/metrics"
	statementdomain "github.com/smallbiznis/pensio/internal/statement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(obsmetrics.GinMiddleware(obsmetrics.HTTP()))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	memberSvc       memberdomain.Service
	contributionSvc contributiondomain.Service
	eligibilitySvc  eligibilitydomain.Service
	statementSvc    statementdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	MemberSvc       memberdomain.Service
	ContributionSvc contributiondomain.Service
	EligibilitySvc  eligibilitydomain.Service
	StatementSvc    statementdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		memberSvc:       p.MemberSvc,
		contributionSvc: p.ContributionSvc,
		eligibilitySvc:  p.EligibilitySvc,
		statementSvc:    p.StatementSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Members --------
	api.GET("/members", s.ListMembers)
	api.POST("/members", s.CreateMember)
	api.GET("/members/:id", s.GetMemberByID)
	api.PATCH("/members/:id", s.UpdateMember)
	api.DELETE("/members/:id", s.DeleteMember)

	// -------- Contributions --------
	api.POST("/contributions", s.SubmitContribution)
	api.GET("/contributions/:id", s.GetContributionByID)
	api.PATCH("/contributions/:id/status", s.UpdateContributionStatus)
	api.DELETE("/contributions/:id", s.DeleteContribution)
	api.GET("/members/:id/contributions", s.ListMemberContributions)

	// -------- Eligibility --------
	api.GET("/members/:id/eligibility", s.GetMemberEligibility)

	// -------- Statements --------
	api.GET("/members/:id/total", s.GetMemberTotal)
	api.GET("/members/:id/statement", s.GetMemberStatement)
	api.GET("/members/:id/statement/document", s.DownloadMemberStatement)
}

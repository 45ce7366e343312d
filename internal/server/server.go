package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vzwbeheer/ledger/internal/budget"
	budgetdomain "github.com/vzwbeheer/ledger/internal/budget/domain"
	"github.com/vzwbeheer/ledger/internal/config"
	"github.com/vzwbeheer/ledger/internal/inventory"
	inventorydomain "github.com/vzwbeheer/ledger/internal/inventory/domain"
	"github.com/vzwbeheer/ledger/internal/invoice"
	invoicedomain "github.com/vzwbeheer/ledger/internal/invoice/domain"
	"github.com/vzwbeheer/ledger/internal/ledger"
	ledgerdomain "github.com/vzwbeheer/ledger/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	invoice.Module,
	ledger.Module,
	budget.Module,
	inventory.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, metrics *HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(MetricsMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log, NewHTTPMetrics())
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine       *gin.Engine
	cfg          config.Config
	genID        *snowflake.Node
	invoiceSvc   invoicedomain.Service
	ledgerSvc    ledgerdomain.Service
	budgetSvc    budgetdomain.Service
	inventorySvc inventorydomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	GenID        *snowflake.Node
	InvoiceSvc   invoicedomain.Service
	LedgerSvc    ledgerdomain.Service
	BudgetSvc    budgetdomain.Service
	InventorySvc inventorydomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		genID:        p.GenID,
		invoiceSvc:   p.InvoiceSvc,
		ledgerSvc:    p.LedgerSvc,
		budgetSvc:    p.BudgetSvc,
		inventorySvc: p.InventorySvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")

	invoices := api.Group("/invoices")
	invoices.POST("", s.CreateInvoice)
	invoices.GET("", s.ListInvoices)
	invoices.GET("/:id", s.GetInvoiceByID)
	invoices.PUT("/:id/lines", s.UpdateInvoiceLines)
	invoices.POST("/:id/send", s.SendInvoice)
	invoices.POST("/:id/remind", s.RemindInvoice)
	invoices.POST("/:id/pay", s.PayInvoice)
	invoices.POST("/:id/overdue", s.MarkInvoiceOverdue)
	invoices.DELETE("/:id", s.DeleteInvoice)

	ledgerGroup := api.Group("/ledger")
	ledgerGroup.GET("/snapshot", s.LedgerSnapshot)
	ledgerGroup.POST("/transactions", s.RecordTransaction)
	ledgerGroup.DELETE("/transactions/:id", s.DeleteTransaction)

	budgetGroup := api.Group("/budget")
	budgetGroup.GET("/comparison", s.BudgetComparison)
	budgetGroup.PUT("/entries", s.UpsertBudgetEntry)
	budgetGroup.POST("/recompute", s.RecomputeBudget)

	inventoryGroup := api.Group("/inventory")
	inventoryGroup.GET("/balance", s.InventoryBalance)
	inventoryGroup.POST("/items", s.AddInventoryItem)
	inventoryGroup.DELETE("/items/:id", s.DeleteInventoryItem)
}

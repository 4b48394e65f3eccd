package httpapi

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/saiMhatre/stock-api/internal/stock"
)

const APIBasePath = "/api/stocks"

type Options struct {
	// UpdateNoContent answers a successful PUT with 204 and no body.
	UpdateNoContent bool
	MetricsEnabled  bool
	MetricsPath     string
	// Pinger backs /health; nil reports healthy unconditionally.
	Pinger stock.Pinger
}

func NewRouter(svc stock.Service, logger logrus.FieldLogger, opts Options) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := stock.RegisterValidations(v); err != nil {
			return nil, fmt.Errorf("register validations: %w", err)
		}
	}
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery(), requestID(), requestLogger(logger))

	if opts.MetricsEnabled {
		m := newMetrics()
		r.Use(m.middleware())
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, m.handler())
	}

	r.GET("/health", healthHandler(opts.Pinger, logger))

	api := &Handler{Service: svc, Logger: logger, UpdateNoContent: opts.UpdateNoContent}
	g := r.Group(APIBasePath)
	{
		g.GET("", api.ListStocksHandler)
		g.GET("/:id", api.GetStockHandler)
		g.POST("", api.CreateStockHandler)
		g.PUT("/:id", api.UpdateStockHandler)
	}

	web := &WebHandler{Service: svc, Logger: logger}
	r.GET("/", web.ListPage)
	r.GET("/stocks/list", web.ListPage)
	r.GET("/stocks/add", web.AddPage)
	r.POST("/stocks/add", web.AddSubmit)
	r.GET("/stocks/update/:id", web.UpdatePage)
	r.POST("/stocks/update", web.UpdateSubmit)

	return r, nil
}

// pkg/server/server.go
package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/config"
	"github.com/bomdash/bom-ingress/pkg/etl"
	"github.com/bomdash/bom-ingress/pkg/excel"
	"github.com/bomdash/bom-ingress/pkg/storage"
)

// Server is the HTTP surface: upload, preview, transform and health.
type Server struct {
	router *gin.Engine
	store  *excel.Store
	svc    *etl.Service
	cfg    *config.Config
	logger *zap.Logger
}

// NewServer wires the upload store, the table writer and the transform
// service behind a gin router.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := excel.NewStore(cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload store: %w", err)
	}

	writer, err := storage.NewWriter(cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize table writer: %w", err)
	}

	opener := etl.OpenerFunc(func(handle string) (etl.Workbook, error) {
		return store.Open(handle)
	})
	svc := etl.NewService(opener, writer, logger, cfg.DefaultIDColumn)

	s := &Server{
		router: gin.Default(),
		store:  store,
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/upload", s.handleUpload)
		api.GET("/preview", s.handlePreview)
		api.GET("/profile", s.handleProfile)
		api.POST("/transform", s.handleTransform)
	}
}

// Run starts the server on the given address, blocking until it stops.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

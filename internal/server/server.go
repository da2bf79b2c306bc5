package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/config"
	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/handler"
	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/repository"
	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/service"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	store, err := repository.NewS3SkinStore(&cfg.S3, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create skin store: %w", err)
	}

	skinService := service.NewSkinService(store, log)

	h := handler.NewHandler(skinService, cfg, log)

	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/convert", h.ConvertSkin)
		api.POST("/swap", h.SwapSkinLayers)
		api.POST("/remove-layer/:layer", h.RemoveSkinLayer)
		api.POST("/model", h.ConvertSkinModel)
		api.POST("/upload", h.UploadSkin)
		api.POST("/process", h.ProcessSkins)
		api.POST("/move", h.MoveSkins)
		api.GET("/skins", h.ListSkins)
	}

	server := &Server{
		httpServer: &http.Server{
			Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:        router,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	return server, nil
}

func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

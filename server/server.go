// Package server exposes the HTTP API consumed by the web UI: reply
// generation (blocking and SSE streaming), chat and project persistence,
// credential management and the provider registry.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"omnichat/chat"
	"omnichat/config"
	"omnichat/storage"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo    *echo.Echo
	cfg     *config.Config
	service *chat.Service
	store   *storage.ChatStorage
	logger  *slog.Logger
}

func New(cfg *config.Config, service *chat.Service, store *storage.ChatStorage, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
				logger.Error("request", attrs...)
			} else {
				logger.Info("request", attrs...)
			}
			return nil
		},
	}))

	s := &Server{
		echo:    e,
		cfg:     cfg,
		service: service,
		store:   store,
		logger:  logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	api.POST("/chat", s.handleChat)
	api.POST("/chat/stream", s.handleChatStream)

	api.GET("/chats", s.handleListChats)
	api.GET("/chats/search", s.handleSearchChats)
	api.GET("/chats/:id", s.handleGetChat)
	api.PATCH("/chats/:id", s.handleUpdateChat)
	api.DELETE("/chats/:id", s.handleDeleteChat)

	api.GET("/projects", s.handleListProjects)
	api.POST("/projects", s.handleCreateProject)
	api.PATCH("/projects/:id", s.handleRenameProject)
	api.DELETE("/projects/:id", s.handleDeleteProject)

	api.GET("/keys", s.handleListKeys)
	api.PUT("/keys/:provider", s.handleSetKey)
	api.DELETE("/keys/:provider", s.handleDeleteKey)

	api.GET("/model-config", s.handleModelConfig)
	api.GET("/providers-config", s.handleProvidersConfig)
	api.PUT("/default-model", s.handleSetDefaultModel)

	api.GET("/ollama/status", s.handleOllamaStatus)
	api.POST("/ollama/start", s.handleOllamaStart)
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: message})
}

func internalError(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

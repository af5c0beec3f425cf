package server

import (
	"net/http"

	"omnichat/chat"
	"omnichat/ollama"
	"omnichat/provider"

	"github.com/labstack/echo/v4"
)

// handleListKeys reports which providers have a usable credential. Key
// material never leaves the server; the UI only needs presence.
func (s *Server) handleListKeys(c echo.Context) error {
	status := make(map[string]bool)
	for _, id := range []string{"openai", "gemini", "anthropic"} {
		status[id] = !chat.CredentialAbsent(s.cfg.CredentialStore.Get(id))
	}
	return c.JSON(http.StatusOK, status)
}

func (s *Server) handleSetKey(c echo.Context) error {
	providerID := c.Param("provider")
	if !provider.IsKnownProviderID(providerID) || provider.IsLocalProvider(providerID) {
		return badRequest(c, "unknown provider: "+providerID)
	}

	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.APIKey == "" {
		return badRequest(c, "api_key is required")
	}

	if err := s.cfg.CredentialStore.Set(providerID, req.APIKey); err != nil {
		return internalError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteKey(c echo.Context) error {
	providerID := c.Param("provider")
	if !provider.IsKnownProviderID(providerID) || provider.IsLocalProvider(providerID) {
		return badRequest(c, "unknown provider: "+providerID)
	}

	if err := s.cfg.CredentialStore.Delete(providerID); err != nil {
		return internalError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleModelConfig serves the static per-provider tunable option schemas
// the settings UI renders.
func (s *Server) handleModelConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, provider.ParamSchemas())
}

func (s *Server) handleProvidersConfig(c echo.Context) error {
	cfg, err := s.cfg.Registry.Load()
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (s *Server) handleSetDefaultModel(c echo.Context) error {
	var req struct {
		Provider string `json:"provider"`
		Model    string `json:"model"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ok, err := s.cfg.Registry.ValidateProviderModel(req.Provider, req.Model)
	if err != nil {
		return internalError(c, err)
	}
	if !ok {
		return badRequest(c, "unknown provider/model combination")
	}

	if err := s.cfg.Registry.SetDefault(req.Provider, req.Model); err != nil {
		return internalError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleOllamaStatus(c echo.Context) error {
	ctx := c.Request().Context()

	installed := ollama.IsInstalled(ctx)
	running := false
	var models []string

	if installed {
		client, err := ollama.NewClient(s.cfg.OllamaURL())
		if err == nil && client.IsRunning(ctx) {
			running = true
			if infos, err := client.ListModels(ctx); err == nil {
				for _, m := range infos {
					models = append(models, m.Name)
				}
			}
		}
	}
	if models == nil {
		models = []string{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"installed": installed,
		"running":   running,
		"models":    models,
	})
}

func (s *Server) handleOllamaStart(c echo.Context) error {
	client, err := ollama.NewClient(s.cfg.OllamaURL())
	if err != nil {
		return internalError(c, err)
	}

	if err := client.Start(c.Request().Context()); err != nil {
		return c.JSON(http.StatusOK, map[string]any{
			"started": false,
			"error":   err.Error(),
		})
	}

	models, err := client.ListModels(c.Request().Context())
	if err == nil {
		names := make([]string, 0, len(models))
		for _, m := range models {
			names = append(names, m.Name)
		}
		if err := s.cfg.Registry.SetOllamaModels(names); err != nil {
			s.logger.Error("failed to sync ollama models", "err", err)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{"started": true})
}

package server

import (
	"net/http"

	"omnichat/storage"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleListChats(c echo.Context) error {
	chats, err := s.store.ListChats(c.QueryParam("project_id"))
	if err != nil {
		return internalError(c, err)
	}
	if chats == nil {
		chats = []storage.Chat{}
	}
	return c.JSON(http.StatusOK, chats)
}

func (s *Server) handleSearchChats(c echo.Context) error {
	chats, err := s.store.SearchChats(c.QueryParam("q"))
	if err != nil {
		return internalError(c, err)
	}
	if chats == nil {
		chats = []storage.Chat{}
	}
	return c.JSON(http.StatusOK, chats)
}

func (s *Server) handleGetChat(c echo.Context) error {
	chat, err := s.store.GetChat(c.Param("id"))
	if err != nil {
		return internalError(c, err)
	}
	if chat == nil {
		return notFound(c, "chat not found")
	}

	messages, err := s.store.Messages(chat.ID)
	if err != nil {
		return internalError(c, err)
	}
	if messages == nil {
		messages = []storage.ChatMessage{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"chat":     chat,
		"messages": messages,
	})
}

func (s *Server) handleUpdateChat(c echo.Context) error {
	var req struct {
		Title     string  `json:"title"`
		Provider  string  `json:"provider"`
		Model     string  `json:"model"`
		ProjectID *string `json:"project_id"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	id := c.Param("id")
	chat, err := s.store.GetChat(id)
	if err != nil {
		return internalError(c, err)
	}
	if chat == nil {
		return notFound(c, "chat not found")
	}

	if req.Title != "" || req.Provider != "" || req.Model != "" {
		if err := s.store.UpdateChat(id, req.Title, req.Provider, req.Model); err != nil {
			return internalError(c, err)
		}
	}
	if req.ProjectID != nil {
		if err := s.store.SetChatProject(id, *req.ProjectID); err != nil {
			return internalError(c, err)
		}
	}

	updated, err := s.store.GetChat(id)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteChat(c echo.Context) error {
	if err := s.store.DeleteChat(c.Param("id")); err != nil {
		return internalError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.store.ListProjects()
	if err != nil {
		return internalError(c, err)
	}
	if projects == nil {
		projects = []storage.Project{}
	}
	return c.JSON(http.StatusOK, projects)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}

	project, err := s.store.CreateProject(req.Name)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, project)
}

func (s *Server) handleRenameProject(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}

	if err := s.store.RenameProject(c.Param("id"), req.Name); err != nil {
		return notFound(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	if err := s.store.DeleteProject(c.Param("id")); err != nil {
		return internalError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

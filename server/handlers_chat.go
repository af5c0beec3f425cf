package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"omnichat/chat"
	"omnichat/model"
	"omnichat/storage"

	"github.com/labstack/echo/v4"
)

type chatRequest struct {
	ChatID   string         `json:"chat_id"`
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Message  string         `json:"message"`
	Params   map[string]any `json:"params"`
}

type chatResponse struct {
	ChatID        string `json:"chat_id"`
	Reply         string `json:"reply,omitempty"`
	Warning       string `json:"warning,omitempty"`
	Error         string `json:"error,omitempty"`
	MissingKeyFor string `json:"missing_key_for,omitempty"`
}

// resolveChat loads the target chat and its history, creating a new chat
// when the request does not name one.
func (s *Server) resolveChat(req *chatRequest) (*storage.Chat, []model.Message, error) {
	if req.ChatID != "" {
		existing, err := s.store.GetChat(req.ChatID)
		if err != nil {
			return nil, nil, err
		}
		if existing == nil {
			return nil, nil, nil
		}
		history, err := s.store.History(existing.ID)
		if err != nil {
			return nil, nil, err
		}
		return existing, history, nil
	}

	created, err := s.store.CreateChat(chat.TitleFromMessage(req.Message), req.Provider, req.Model, "")
	if err != nil {
		return nil, nil, err
	}
	return created, nil, nil
}

// handleChat runs a blocking generation. Request validation failures map
// to 400; every backend condition arrives as 200 with the uniform result
// shape so the UI renders it in the conversation.
func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	genReq := chat.GenerationRequest{
		Provider: req.Provider,
		Model:    req.Model,
		Message:  req.Message,
		Params:   req.Params,
	}

	// Validate before resolveChat so a bad request never creates a chat.
	if err := chat.ValidateRequest(&genReq); err != nil {
		return badRequest(c, err.Error())
	}

	target, history, err := s.resolveChat(&req)
	if err != nil {
		return internalError(c, err)
	}
	if req.ChatID != "" && target == nil {
		return notFound(c, "chat not found")
	}
	genReq.History = history

	result, err := s.service.GenerateReply(c.Request().Context(), genReq)
	if err != nil {
		if chat.IsValidationError(err) {
			return badRequest(c, err.Error())
		}
		return internalError(c, err)
	}

	if _, err := s.store.AppendMessage(target.ID, model.RoleUser, req.Message, "", ""); err != nil {
		return internalError(c, err)
	}
	if result.Reply != "" {
		if _, err := s.store.AppendMessage(target.ID, model.RoleAssistant, result.Reply, req.Provider, req.Model); err != nil {
			return internalError(c, err)
		}
	}

	return c.JSON(http.StatusOK, chatResponse{
		ChatID:        target.ID,
		Reply:         result.Reply,
		Warning:       result.Warning,
		Error:         result.Error,
		MissingKeyFor: result.MissingKeyFor,
	})
}

// handleChatStream runs a streaming generation over SSE. Each stream event
// goes out as one "data:" frame of JSON; a final frame carries done plus
// the chat ID so a fresh chat's ID reaches the client.
func (s *Server) handleChatStream(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	genReq := chat.GenerationRequest{
		Provider: req.Provider,
		Model:    req.Model,
		Message:  req.Message,
		Params:   req.Params,
	}

	if err := chat.ValidateRequest(&genReq); err != nil {
		return badRequest(c, err.Error())
	}

	target, history, err := s.resolveChat(&req)
	if err != nil {
		return internalError(c, err)
	}
	if req.ChatID != "" && target == nil {
		return notFound(c, "chat not found")
	}
	genReq.History = history

	events, err := s.service.GenerateReplyStream(c.Request().Context(), genReq)
	if err != nil {
		if chat.IsValidationError(err) {
			return badRequest(c, err.Error())
		}
		return internalError(c, err)
	}

	if _, err := s.store.AppendMessage(target.ID, model.RoleUser, req.Message, "", ""); err != nil {
		return internalError(c, err)
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	flusher, _ := resp.Writer.(http.Flusher)

	writeEvent := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(resp.Writer, "data: %s\n\n", data); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	var reply strings.Builder
	for event := range events {
		if err := writeEvent(event); err != nil {
			// Client went away; the lazy sequence stops with us.
			return nil
		}
		reply.WriteString(event.Token)
		if event.IsError() {
			break
		}
	}

	if reply.Len() > 0 {
		if _, err := s.store.AppendMessage(target.ID, model.RoleAssistant, reply.String(), req.Provider, req.Model); err != nil {
			s.logger.Error("failed to persist streamed reply", "err", err)
		}
	}

	_ = writeEvent(map[string]any{"done": true, "chat_id": target.ID})
	return nil
}

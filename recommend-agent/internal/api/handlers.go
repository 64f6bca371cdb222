package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/graph"
)

type initialSearchRequest struct {
	Prompt        string `json:"prompt"`
	Category      string `json:"category"`
	ChatSessionID int64  `json:"chat_session_id,omitempty"`
	UserID        int64  `json:"user_id"`
}

type initialSearchResponse struct {
	ChatSessionID int64                 `json:"chat_session_id"`
	Response      *graph.Recommendation `json:"response"`
	ToolsUsed     []string              `json:"tools_used"`
	Steps         []graph.Step          `json:"steps"`
}

func (s *Server) handleInitialSearch(w http.ResponseWriter, r *http.Request) {
	var req initialSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if req.Category != "" && !slices.Contains(s.categories, req.Category) {
		writeError(w, http.StatusBadRequest, "unknown category "+strconv.Quote(req.Category))
		return
	}

	ctx := r.Context()
	sessionID := req.ChatSessionID
	if sessionID == 0 {
		if req.UserID <= 0 {
			writeError(w, http.StatusBadRequest, "user_id is required to start a chat session")
			return
		}
		cs, err := s.store.CreateSession(ctx, req.UserID)
		if err != nil {
			s.logger.Error("create chat session", slog.Any("err", err))
			writeError(w, http.StatusServiceUnavailable, "could not create chat session")
			return
		}
		sessionID = cs.ID
	}

	state, err := s.runner.Run(ctx, req.Prompt, req.Category, sessionID)
	if err != nil {
		s.writeRunError(w, err)
		return
	}

	titleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.store.UpdateSessionTitle(titleCtx, sessionID, req.Prompt); err != nil {
		s.logger.Warn("update chat session title", slog.Int64("chat_session_id", sessionID), slog.Any("err", err))
	}

	writeJSONResponse(w, http.StatusOK, initialSearchResponse{
		ChatSessionID: sessionID,
		Response:      state.Result,
		ToolsUsed:     state.ToolsUsed(),
		Steps:         state.Steps,
	})
}

func (s *Server) writeRunError(w http.ResponseWriter, err error) {
	status := http.StatusServiceUnavailable
	if errors.Is(err, graph.ErrGenerationParse) {
		status = http.StatusBadGateway
	}
	resp := errorResponse{Error: err.Error()}
	var se *graph.StepError
	if errors.As(err, &se) {
		resp.Step = se.Step
		resp.Steps = se.Steps
	}
	s.logger.Error("workflow failed", slog.Int("status", status), slog.Any("err", err))
	writeJSONResponse(w, status, resp)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id parameter is required")
		return
	}
	sessions, err := s.store.SessionsByUser(r.Context(), userID)
	if err != nil {
		s.logger.Error("list chat sessions", slog.Any("err", err))
		writeError(w, http.StatusServiceUnavailable, "could not load chat sessions")
		return
	}
	writeJSONResponse(w, http.StatusOK, sessions)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chat session id")
		return
	}
	msgs, err := s.store.MessagesBySession(r.Context(), id)
	if err != nil {
		s.logger.Error("list messages", slog.Int64("chat_session_id", id), slog.Any("err", err))
		writeError(w, http.StatusServiceUnavailable, "could not load messages")
		return
	}
	writeJSONResponse(w, http.StatusOK, msgs)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string][]string{"categories": s.categories})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := map[string]string{"status": "healthy", "database": "connected"}
	status := http.StatusOK
	if err := s.store.Ping(ctx); err != nil {
		health["status"] = "unhealthy"
		health["database"] = "disconnected"
		status = http.StatusServiceUnavailable
	}
	writeJSONResponse(w, status, health)
}

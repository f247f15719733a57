package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog/hlog"

	"github.com/diogo/faqchat/internal/history"
	"github.com/diogo/faqchat/internal/llm"
	"github.com/diogo/faqchat/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Chunks   int    `json:"chunks"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{
		Status:   "ok",
		Provider: s.provider.Name(),
		Chunks:   s.kb.Len(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	var req models.ChatRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sessionID := s.session(w, r)

	recent, err := s.store.Recent(sessionID, s.window)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load history")
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	relevant := s.kb.RelevantContext(req.Query, s.topK)
	reply, err := s.provider.Complete(r.Context(), llm.CompletionRequest{
		SystemPrompt: llm.SystemPrompt(relevant),
		History:      recent,
		Query:        req.Query,
	})
	if err != nil {
		logger.Error().Err(err).Str("provider", s.provider.Name()).Msg("completion failed")
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	full, err := s.store.Append(sessionID,
		models.HistoryMessage{Role: models.RoleUser, Content: req.Query},
		models.HistoryMessage{Role: models.RoleAssistant, Content: reply},
	)
	if err != nil {
		logger.Error().Err(err).Msg("failed to save history")
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Debug().Int("query_len", len(req.Query)).Int("reply_len", len(reply)).Int("history", len(full)).Msg("chat answered")

	render.JSON(w, r, models.ChatResponse{
		Response:            reply,
		ConversationHistory: full,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := s.session(w, r)

	if err := s.store.Reset(sessionID); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to reset history")
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	render.JSON(w, r, models.ResetResponse{Message: models.ResetMessage})
}

// session returns the caller's session id, issuing a new cookie when the
// request carries none or an unusable one.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && history.ValidSessionID(c.Value) {
		return c.Value
	}

	id := history.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	hlog.FromRequest(r).Debug().Str("session", id).Msg("new session")
	return id
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

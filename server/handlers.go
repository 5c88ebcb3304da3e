package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hupe1980/leadmesh/core"
)

type createSessionRequest struct {
	UserID string `json:"user_id"`
}

type createSessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type postMessageRequest struct {
	SessionID string         `json:"session_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	AgentID   string         `json:"agent_id,omitempty"`
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type postMessageResponse struct {
	SessionID string         `json:"session_id"`
	AgentID   string         `json:"agent_id,omitempty"`
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Message   core.Message   `json:"message"`
}

type sessionSnapshot struct {
	SessionID string         `json:"session_id"`
	UserID    string         `json:"user_id,omitempty"`
	History   []core.Message `json:"history"`
	State     map[string]any `json:"state"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type executeActionRequest struct {
	SessionID string         `json:"session_id"`
	Params    map[string]any `json:"params,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sessionID, err := s.orch.CreateSession(r.Context(), req.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	convo, err := s.orch.GetSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: sessionID, CreatedAt: convo.Created})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	convo, err := s.orch.GetSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	// Clone for a consistent read; the live context may be mutated by
	// concurrent message processing.
	snap := convo.Clone()
	writeJSON(w, http.StatusOK, sessionSnapshot{
		SessionID: snap.SessionID,
		UserID:    snap.UserID,
		History:   snap.History,
		State:     snap.State,
		Metadata:  snap.Metadata,
		CreatedAt: snap.Created,
		UpdatedAt: snap.Updated,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.orch.RemoveSession(r.Context(), sessionID); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePostMessage accepts a user message. A missing session_id opens a new
// session on the fly; its identifier is always echoed in the response so the
// caller can continue the conversation.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, errors.New("text is required"))
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		var err error
		if sessionID, err = s.orch.CreateSession(r.Context(), req.UserID); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	msg, err := s.orch.ProcessUserMessage(r.Context(), sessionID, req.Text, req.AgentID, req.Metadata)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, postMessageResponse{
		SessionID: sessionID,
		AgentID:   msg.Sender,
		Text:      msg.Text(),
		Metadata:  msg.Metadata,
		Message:   msg,
	})
}

func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": s.orch.ListAgents()})
}

func (s *Server) handleExecuteAction(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")
	action := chi.URLParam(r, "action")

	var req executeActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, errors.New("session_id is required"))
		return
	}

	result, err := s.orch.ExecuteAgentAction(r.Context(), req.SessionID, agentID, action, req.Params)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	// Failed actions are still HTTP 200; the outcome travels in the result.
	writeJSON(w, http.StatusOK, result)
}

// statusFor maps boundary errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnknownSession),
		errors.Is(err, core.ErrUnknownAgent),
		errors.Is(err, core.ErrUnknownAgentType):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close() //nolint:errcheck
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stridekit/stride/logging"
	"github.com/stridekit/stride/session"
)

// chatRequest is the wire shape of a chat call. session_id selects the
// conversation; chat_id and name are caller-side correlation data carried
// through to the logs.
type chatRequest struct {
	SessionID string `json:"session_id"`
	ChatID    string `json:"chat_id"`
	Name      string `json:"name"`
	Query     string `json:"query"`
	Stream    bool   `json:"stream"`
}

// server routes chat requests onto per-session agents.
type server struct {
	sessions session.Store
	logger   logging.Logger
}

func newServer(sessions session.Store, logger logging.Logger) *server {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &server{sessions: sessions, logger: logger}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" || req.Query == "" {
		http.Error(w, "session_id and query are required", http.StatusBadRequest)
		return
	}

	s.logger.Info("chat.request",
		"session_id", req.SessionID, "chat_id", req.ChatID,
		"name", req.Name, "stream", req.Stream)

	sess, err := s.sessions.Get(req.SessionID)
	if err != nil {
		s.logger.Error("chat.session.failed", "session_id", req.SessionID, "error", err.Error())
		http.Error(w, "failed to open session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if !req.Stream {
		out, err := sess.Agent.RunSync(r.Context(), req.Query)
		if err != nil {
			s.logger.Error("chat.run.failed", "session_id", req.SessionID, "error", err.Error())
			http.Error(w, "run failed", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, out)
		return
	}

	flusher, _ := w.(http.Flusher)
	chunks, errs := sess.Agent.Run(r.Context(), req.Query)
	for chunk := range chunks {
		if _, err := fmt.Fprint(w, chunk); err != nil {
			// Client went away; the run drains on its own.
			s.logger.Warn("chat.stream.broken", "session_id", req.SessionID)
			for range chunks {
			}
			<-errs
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	if err := <-errs; err != nil {
		// Headers are already sent; all we can do is log.
		s.logger.Error("chat.run.failed", "session_id", req.SessionID, "error", err.Error())
	}
}

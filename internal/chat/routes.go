package chat

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zoomrx/agastya/internal/agent"
)

// RegisterRoutes mounts the chat API routes.
func RegisterRoutes(r chi.Router, engine *agent.Engine, store *Store) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/init", handleInit(engine, store))
		r.Post("/message", handleMessage(engine, store))
		r.Get("/sessions/{id}/messages", handleGetMessages(store))
	})
	r.Get("/api/user/{id}", handleGetUser(engine))
}

type initRequest struct {
	UserID int64 `json:"user_id"`
}

type initResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func handleInit(engine *agent.Engine, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req initRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.UserID == 0 {
			http.Error(w, `{"error":"user_id is required"}`, http.StatusBadRequest)
			return
		}

		sess, err := store.CreateSession(r.Context(), req.UserID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		// A new session starts from clean conversation state.
		engine.Sessions().Reset(agent.SessionKey(req.UserID))

		greeting := greetingFor(r, engine, req.UserID)
		if _, err := store.AddMessage(r.Context(), Message{
			SessionID: sess.ID,
			Role:      "assistant",
			Content:   greeting,
		}); err != nil {
			log.Printf("chat: persisting greeting: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(initResponse{SessionID: sess.ID, Message: greeting})
	}
}

func greetingFor(r *http.Request, engine *agent.Engine, userID int64) string {
	if panel := engine.Panel(); panel != nil {
		if _, last, err := panel.UserName(r.Context(), userID); err == nil && last != "" {
			return fmt.Sprintf("Hello Dr. %s! How can I help you today?", last)
		}
	}
	return fmt.Sprintf("Hello User %d! How can I help you today?", userID)
}

type messageRequest struct {
	UserID    int64  `json:"user_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type messageResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
	Intent    string `json:"intent"`
}

func handleMessage(engine *agent.Engine, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.UserID == 0 {
			http.Error(w, `{"error":"user_id is required"}`, http.StatusBadRequest)
			return
		}
		if req.Message == "" {
			http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
			return
		}

		// Create a session on the fly when the client skipped /init.
		if req.SessionID == "" {
			sess, err := store.CreateSession(r.Context(), req.UserID)
			if err != nil {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
				return
			}
			req.SessionID = sess.ID
		}

		reply := engine.Process(r.Context(), agent.SessionKey(req.UserID), req.UserID, req.Message)

		if _, err := store.AddMessage(r.Context(), Message{
			SessionID: req.SessionID,
			Role:      "user",
			Content:   req.Message,
		}); err != nil {
			log.Printf("chat: persisting user message: %v", err)
		}
		if _, err := store.AddMessage(r.Context(), Message{
			SessionID: req.SessionID,
			Role:      "assistant",
			Content:   reply.Answer,
			Intent:    string(reply.Intent),
		}); err != nil {
			log.Printf("chat: persisting assistant message: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(messageResponse{
			SessionID: req.SessionID,
			Answer:    reply.Answer,
			Intent:    string(reply.Intent),
		})
	}
}

func handleGetMessages(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		messages, err := store.GetMessages(r.Context(), sessionID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if messages == nil {
			messages = []Message{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(messages)
	}
}

func handleGetUser(engine *agent.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, `{"error":"invalid user id"}`, http.StatusBadRequest)
			return
		}
		panel := engine.Panel()
		if panel == nil {
			http.Error(w, `{"error":"panel data not configured"}`, http.StatusServiceUnavailable)
			return
		}

		first, last, err := panel.UserName(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"first_name": first, "last_name": last})
	}
}

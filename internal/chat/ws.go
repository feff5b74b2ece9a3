package chat

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/zoomrx/agastya/internal/agent"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type      string `json:"type"`       // "init" or "message"
	SessionID string `json:"session_id"` // empty for new sessions
	UserID    int64  `json:"user_id"`
	Content   string `json:"content"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string `json:"type"` // "response" or "error"
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	Intent    string `json:"intent,omitempty"`
}

// HandleWebSocket serves the chat conversation over a WebSocket, mirroring
// the /api/chat HTTP endpoints for clients that keep a connection open.
func HandleWebSocket(engine *agent.Engine, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("chat: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("chat: websocket read: %v", err)
				}
				return
			}

			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				sendError(conn, "", "invalid message format")
				continue
			}
			if req.UserID == 0 {
				sendError(conn, req.SessionID, "user_id is required")
				continue
			}

			switch req.Type {
			case "init":
				handleWSInit(conn, r, engine, store, req)
			case "message":
				handleWSMessage(conn, r, engine, store, req)
			default:
				sendError(conn, req.SessionID, "unknown message type: "+req.Type)
			}
		}
	}
}

func handleWSInit(conn *websocket.Conn, r *http.Request, engine *agent.Engine, store *Store, req wsRequest) {
	ctx := r.Context()

	sess, err := store.CreateSession(ctx, req.UserID)
	if err != nil {
		sendError(conn, "", "failed to create session: "+err.Error())
		return
	}
	engine.Sessions().Reset(agent.SessionKey(req.UserID))

	greeting := greetingFor(r, engine, req.UserID)
	if _, err := store.AddMessage(ctx, Message{SessionID: sess.ID, Role: "assistant", Content: greeting}); err != nil {
		log.Printf("chat: persisting greeting: %v", err)
	}

	sendResponse(conn, wsResponse{Type: "response", SessionID: sess.ID, Content: greeting})
}

func handleWSMessage(conn *websocket.Conn, r *http.Request, engine *agent.Engine, store *Store, req wsRequest) {
	if req.Content == "" {
		sendError(conn, req.SessionID, "content is required")
		return
	}

	ctx := r.Context()
	sessionID := req.SessionID

	// Create a new session if needed.
	if sessionID == "" {
		sess, err := store.CreateSession(ctx, req.UserID)
		if err != nil {
			sendError(conn, "", "failed to create session: "+err.Error())
			return
		}
		sessionID = sess.ID
	}

	reply := engine.Process(ctx, agent.SessionKey(req.UserID), req.UserID, req.Content)

	if _, err := store.AddMessage(ctx, Message{SessionID: sessionID, Role: "user", Content: req.Content}); err != nil {
		log.Printf("chat: persisting user message: %v", err)
	}
	if _, err := store.AddMessage(ctx, Message{
		SessionID: sessionID,
		Role:      "assistant",
		Content:   reply.Answer,
		Intent:    string(reply.Intent),
	}); err != nil {
		log.Printf("chat: persisting assistant message: %v", err)
	}

	sendResponse(conn, wsResponse{
		Type:      "response",
		SessionID: sessionID,
		Content:   reply.Answer,
		Intent:    string(reply.Intent),
	})
}

func sendResponse(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("chat: websocket write: %v", err)
	}
}

func sendError(conn *websocket.Conn, sessionID, msg string) {
	sendResponse(conn, wsResponse{Type: "error", SessionID: sessionID, Content: msg})
}

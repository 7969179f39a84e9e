package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	MessageAsk      = "ask"
	MessageResponse = "response"
	MessageError    = "error"
)

type Message struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// one message at a time per connection, replies in request order
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("error reading message", "error", err)
			}
			return
		}

		if err := conn.WriteJSON(s.reply(r.Context(), msg)); err != nil {
			s.log.Warn("error sending message", "error", err)
			return
		}
	}
}

func (s *Server) reply(ctx context.Context, msg Message) Message {
	switch {
	case msg.Type != MessageAsk:
		return Message{Type: MessageError, Content: "unsupported message type: " + msg.Type}
	case msg.Content == "":
		return Message{Type: MessageError, Content: "Missing prompt"}
	}

	answer, err := s.config.Asker.Ask(ctx, msg.Content)
	if err != nil {
		s.log.Error("websocket ask failed", "error", err)
		return Message{Type: MessageError, Content: "RAG processing failed"}
	}
	return Message{Type: MessageResponse, Content: answer}
}

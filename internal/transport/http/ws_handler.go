package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/game"
)

// WSHandler exposes the session over a websocket: the server pushes session
// snapshots (loading state, questions, score, leaderboard) and the client
// sends player events (select, setUsername, submit, newPlayer).
type WSHandler struct {
	session  *game.Session
	upgrader websocket.Upgrader
}

func NewWSHandler(session *game.Session) *WSHandler {
	return &WSHandler{
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Question int `json:"question"`
	Option   int `json:"option"`
}

type usernamePayload struct {
	Username string `json:"username"`
}

type scorePayload struct {
	Score int `json:"score"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and bridges the socket to the session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case view, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "session", Payload: view}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage("invalid select payload")
				continue
			}
			total, err := h.session.SelectAnswer(payload.Question, payload.Option)
			if err != nil {
				send <- errorMessage(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "score", Payload: scorePayload{Score: total}}
		case "setUsername":
			var payload usernamePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage("invalid username payload")
				continue
			}
			h.session.SetUsername(payload.Username)
		case "submit":
			score, err := h.session.Submit(r.Context())
			if err != nil {
				if errors.Is(err, domain.ErrEmptyUsername) {
					send <- errorMessage("enter a username before submitting")
				} else {
					send <- errorMessage(err.Error())
				}
				continue
			}
			send <- outboundMessage[any]{Type: "submitted", Payload: scorePayload{Score: score}}
		case "newPlayer":
			if err := h.session.NewPlayer(r.Context()); err != nil {
				send <- errorMessage(err.Error())
			}
		default:
			send <- errorMessage("unsupported message type")
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

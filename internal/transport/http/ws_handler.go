package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"signparty-service/internal/app"
	"signparty-service/internal/domain"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

func NewWSHandler(service *app.GameService, log *logrus.Logger) *WSHandler {
	if log == nil {
		log = logrus.New()
	}
	return &WSHandler{
		service: service,
		log:     log,
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

type startPayload struct {
	CatalogID string   `json:"catalogId"`
	Players   []string `json:"players"`
	Mode      string   `json:"mode"`
	Questions int      `json:"questions"`
}

type answerPayload struct {
	Choice string `json:"choice"`
}

type judgePayload struct {
	Player  string `json:"player"`
	Correct bool   `json:"correct"`
}

type modePayload struct {
	Mode string `json:"mode"`
}

type answerResult struct {
	Choice  string `json:"choice"`
	Correct bool   `json:"correct"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and wires the connection into the game
// use cases. The connecting player acts through this socket; the one
// that sends "start" owns the session and takes it down on disconnect.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	playerName := r.URL.Query().Get("player")
	if sessionID == "" || playerName == "" {
		http.Error(w, "missing sessionId or player", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("ws upgrade failed")
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.WithError(err).Debug("ws write error")
				return
			}
		}
	}()

	var (
		cancelUpdates func()
		updatesDone   chan struct{}
		owner         bool
	)

	pump := func(updates <-chan domain.SessionSnapshot) {
		updatesDone = make(chan struct{})
		go func(done chan struct{}) {
			defer close(done)
			for {
				select {
				case update, ok := <-updates:
					if !ok {
						return
					}
					select {
					case send <- outboundMessage[any]{Type: "session", Payload: update}:
					case <-closeSignals:
						return
					}
				case <-closeSignals:
					return
				}
			}
		}(updatesDone)
	}

	// Late joiners attach to the running session straight away.
	if updates, cancel, err := h.service.Subscribe(r.Context(), sessionID); err == nil {
		cancelUpdates = cancel
		pump(updates)
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid start payload")
				continue
			}
			mode, ok := domain.ParseMode(payload.Mode)
			if !ok {
				send <- errMsg("unknown mode " + payload.Mode)
				continue
			}
			snap, err := h.service.Start(r.Context(), app.StartInput{
				SessionID:      sessionID,
				CatalogID:      payload.CatalogID,
				MainPlayer:     playerName,
				Players:        payload.Players,
				Mode:           mode,
				QuestionsCount: payload.Questions,
			})
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			owner = true
			send <- outboundMessage[any]{Type: "session", Payload: snap}
			if updates, cancel, err := h.service.Subscribe(r.Context(), sessionID); err == nil {
				if cancelUpdates != nil {
					cancelUpdates()
				}
				cancelUpdates = cancel
				pump(updates)
			}

		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid answer payload")
				continue
			}
			_, correct, err := h.service.SubmitAnswer(r.Context(), sessionID, playerName, payload.Choice)
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: answerResult{Choice: payload.Choice, Correct: correct}}

		case "judge":
			var payload judgePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid judge payload")
				continue
			}
			if _, err := h.service.Judge(r.Context(), sessionID, payload.Player, payload.Correct); err != nil {
				send <- errMsg(err.Error())
			}

		case "reveal":
			if _, err := h.service.Reveal(r.Context(), sessionID); err != nil {
				send <- errMsg(err.Error())
			}

		case "mode":
			var payload modePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid mode payload")
				continue
			}
			mode, ok := domain.ParseMode(payload.Mode)
			if !ok {
				send <- errMsg("unknown mode " + payload.Mode)
				continue
			}
			if _, err := h.service.SetMode(r.Context(), sessionID, mode); err != nil {
				send <- errMsg(err.Error())
			}

		default:
			send <- errMsg("unsupported message type")
		}
	}

	close(closeSignals)
	if updatesDone != nil {
		<-updatesDone
	}
	if cancelUpdates != nil {
		cancelUpdates()
	}
	close(send)
	<-writerDone

	if owner {
		h.service.End(r.Context(), sessionID)
	}
}

func errMsg(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

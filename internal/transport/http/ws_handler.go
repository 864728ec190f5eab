package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/domain"
)

// WSHandler bridges the challenge engine to a browser over a websocket.
// Every connection sees the same engine; snapshots are pushed on each change.
type WSHandler struct {
	service  *app.ChallengeService
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ChallengeService, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
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

type answerPayload struct {
	Index *int `json:"index"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ServeWS upgrades the request and runs the command loop until the client goes away.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	snapshots, cancel := h.service.Engine().Subscribe()
	defer cancel()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	snapshotsDone := make(chan struct{})

	// Single writer; gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(snapshotsDone)
		for {
			select {
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage{Type: "snapshot", Payload: snap}:
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
		if msg, ok := h.handle(r, inbound); ok {
			send <- msg
		}
	}

	close(closeSignals)
	<-snapshotsDone
	close(send)
	<-writerDone
}

// handle runs one client command. State changes also reach the client through
// the snapshot stream, so only results that carry extra data are replied to.
func (h *WSHandler) handle(r *http.Request, in inboundMessage) (outboundMessage, bool) {
	ctx := r.Context()
	engine := h.service.Engine()

	var (
		reply outboundMessage
		err   error
	)
	switch in.Type {
	case "start":
		_, err = h.service.StartToday(ctx)
		if err == nil {
			return reply, false
		}
	case "answer":
		var payload answerPayload
		if jerr := json.Unmarshal(in.Payload, &payload); jerr != nil || payload.Index == nil {
			return errorMessage("bad_request", "invalid answer payload"), true
		}
		var result domain.AnswerResult
		result, err = engine.SubmitAnswer(*payload.Index)
		reply = outboundMessage{Type: "answerResult", Payload: result}
	case "advance":
		_, err = engine.Advance()
		if err == nil {
			return reply, false
		}
	case "finish":
		var outcome domain.Outcome
		outcome, err = engine.Finish()
		reply = outboundMessage{Type: "outcome", Payload: outcome}
	case "commit":
		var progress domain.Progress
		progress, err = engine.Commit(ctx)
		reply = outboundMessage{Type: "progress", Payload: progress}
	case "abandon":
		err = engine.Abandon()
		if err == nil {
			return reply, false
		}
	default:
		return errorMessage("bad_request", "unsupported message type"), true
	}

	if err != nil {
		h.logger.Debug().Err(err).Str("type", in.Type).Msg("ws command rejected")
		return outboundMessage{Type: "error", Payload: toErrorPayload(err)}, true
	}
	return reply, true
}

func errorMessage(code, message string) outboundMessage {
	return outboundMessage{Type: "error", Payload: errorPayload{Code: code, Message: message}}
}

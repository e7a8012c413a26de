package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"studymatch-service/internal/app"
	"studymatch-service/internal/domain"
)

// WSHandler serves match reports over a WebSocket so a partner-finder UI can
// re-request without new HTTP round trips. Matching is stateless, so a
// refresh is simply a recompute over the current data snapshot.
type WSHandler struct {
	service  *app.MatchService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.MatchService) *WSHandler {
	return &WSHandler{
		service: service,
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

type refreshPayload struct {
	TopN int `json:"topN"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and streams match reports: one on connect,
// then one per {"type":"refresh"} message.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("courseId")
	studentID := r.URL.Query().Get("studentId")
	if courseID == "" || studentID == "" {
		http.Error(w, "missing courseId or studentId", http.StatusBadRequest)
		return
	}
	topN, err := parseTopN(r.URL.Query().Get("topN"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if !h.sendMatches(conn, r, courseID, studentID, topN) {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "refresh":
			n := topN
			if len(inbound.Payload) > 0 {
				var payload refreshPayload
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					h.sendError(conn, "invalid refresh payload")
					continue
				}
				if payload.TopN != 0 {
					if payload.TopN < 1 || payload.TopN > maxTopN {
						h.sendError(conn, "topN must be between 1 and 10")
						continue
					}
					n = payload.TopN
				}
			}
			if !h.sendMatches(conn, r, courseID, studentID, n) {
				return
			}
		default:
			h.sendError(conn, "unsupported message type")
		}
	}
}

// sendMatches writes a match report or an error message; it reports whether
// the connection is worth keeping open.
func (h *WSHandler) sendMatches(conn *websocket.Conn, r *http.Request, courseID, studentID string, topN int) bool {
	report, err := h.service.PeerMatches(r.Context(), courseID, studentID, topN)
	if err != nil {
		if errors.Is(err, domain.ErrNotEnrolled) || errors.Is(err, domain.ErrCourseNotFound) {
			h.sendError(conn, err.Error())
			return false
		}
		log.Printf("ws match request failed: %v", err)
		h.sendError(conn, "could not compute matches")
		return true
	}
	return conn.WriteJSON(outboundMessage[domain.MatchReport]{Type: "matches", Payload: report}) == nil
}

func (h *WSHandler) sendError(conn *websocket.Conn, message string) {
	_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}

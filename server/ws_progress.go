package server

import (
	"net/http"
	"time"

	"JerseyFM/core/pipeline"
	"JerseyFM/logger"
	"JerseyFM/model"

	"github.com/gorilla/websocket"
)

const (
	wsReadTimeout  = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// progressMessage is every frame the progress socket sends.
type progressMessage struct {
	Type         string `json:"type"` // state, result or error
	State        string `json:"state,omitempty"`
	Status       string `json:"status,omitempty"`
	AssetID      string `json:"assetId,omitempty"`
	Signature    string `json:"signature,omitempty"`
	ExplorerLink string `json:"explorerLink,omitempty"`
	Message      string `json:"message,omitempty"`
}

// MintProgress handles GET /api/mint/ws. The client sends one mint request
// and receives every state the run enters, then the result.
func (h *MintHandler) MintProgress(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	send := func(msg progressMessage) {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			logger.Debug("progress write failed", logger.String("type", msg.Type), logger.ErrorField(err))
		}
	}

	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	var req model.MintRequest
	if err := conn.ReadJSON(&req); err != nil {
		send(progressMessage{Type: "error", Status: statusError, Message: pipeline.ErrMissingFields.Error()})
		return
	}

	// The run continues even if the socket goes away mid-mint.
	res, err := h.run(r.Context(), &req, func(s pipeline.State) {
		send(progressMessage{Type: "state", State: s.String()})
	})
	if err != nil {
		msg := err.Error()
		if isValidation(err) {
			msg = pipeline.ErrMissingFields.Error()
		}
		send(progressMessage{Type: "error", Status: statusError, Message: msg})
		return
	}

	send(progressMessage{
		Type:         "result",
		Status:       statusSuccess,
		AssetID:      res.Outcome.AssetID,
		Signature:    res.Outcome.Signature,
		ExplorerLink: res.Outcome.ExplorerLink,
	})
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	readmesvc "readmegen/internal/gateway/service/readme"
)

const (
	readmeWSWriteWait = 10 * time.Second
	readmeWSPongWait  = 60 * time.Second
	readmeWSPingEvery = (readmeWSPongWait * 9) / 10
)

var readmeWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type readmeWSInbound struct {
	RepoURL string `json:"repoUrl"`
}

type readmeWSOutbound struct {
	Type    string `json:"type"`
	Stage   string `json:"stage,omitempty"`
	Readme  string `json:"readme,omitempty"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// HandleGenerateWS serves GET /ws/generate-readme. The client sends one
// {"repoUrl"} message and receives progress stages followed by a single
// terminal "readme" or "error" message.
func (h *ReadmeHandler) HandleGenerateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := readmeWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(readmeWSPongWait)); err != nil {
		h.log.WithError(err).Warn("readme ws set read deadline failed")
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readmeWSPongWait))
	})

	var in readmeWSInbound
	if err := conn.ReadJSON(&in); err != nil {
		return
	}

	// The client closing the socket cancels generation.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	writeCh := make(chan readmeWSOutbound, 8)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(readmeWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case out, ok := <-writeCh:
				if !ok {
					return
				}
				if err := conn.SetWriteDeadline(time.Now().Add(readmeWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(readmeWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	push := func(out readmeWSOutbound) {
		select {
		case writeCh <- out:
		case <-writerDone:
		}
	}

	genCtx := readmesvc.WithProgress(ctx, func(stage readmesvc.Stage) {
		push(readmeWSOutbound{Type: "progress", Stage: string(stage)})
	})
	res, genErr := h.svc.Generate(genCtx, in.RepoURL)
	switch {
	case genErr == nil:
		push(readmeWSOutbound{Type: "readme", Readme: res.Readme, ID: res.ID})
	case readmesvc.IsClientError(genErr):
		push(readmeWSOutbound{Type: "error", Code: "invalid_argument", Message: genErr.Error()})
	default:
		h.log.WithError(genErr).Error("Error in generate-readme (ws)")
		push(readmeWSOutbound{Type: "error", Code: "internal", Message: genErr.Error()})
	}
	close(writeCh)
	<-writerDone

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(readmeWSWriteWait))
}

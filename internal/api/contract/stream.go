package contract

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/pkg/logger"
	"go.uber.org/zap"
)

const (
	progressWSWriteWait = 10 * time.Second
	progressWSPongWait  = 60 * time.Second
	progressWSPingEvery = (progressWSPongWait * 9) / 10
)

var progressWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// StreamProgress handles GET /api/contract/progress/{draft_id}/stream.
// A snapshot is pushed on connect and on every change until the draft
// reaches a terminal status, then the socket is closed normally.
func (h *Handler) StreamProgress(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draft_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("draft_id", draftID),
		zap.String("action", "StreamProgress"),
	)

	conn, err := progressWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		ctxzap.Warn(ctx, "websocket upgrade failed", zap.Error(err))
		return
	}

	// Reads only serve control frames and detect the client going away.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		_ = conn.SetReadDeadline(time.Now().Add(progressWSPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(progressWSPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	defer func() {
		conn.Close()
		<-readerDone
	}()

	ctxzap.Debug(ctx, "progress stream opened")

	poll := time.NewTicker(h.streamInterval)
	defer poll.Stop()
	ping := time.NewTicker(progressWSPingEvery)
	defer ping.Stop()

	var last *entity.Progress
	for {
		current := h.usecase.GetProgress(ctx, draftID)
		if progressChanged(last, current) {
			if err := writeProgress(conn, current); err != nil {
				ctxzap.Debug(ctx, "progress stream write failed", zap.Error(err))
				return
			}
			last = current
		}

		if current.Status.IsTerminal() {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(current.Status)),
				time.Now().Add(progressWSWriteWait))
			ctxzap.Debug(ctx, "progress stream finished", zap.String("status", string(current.Status)))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-readerDone:
			ctxzap.Debug(ctx, "progress stream closed by client")
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(progressWSWriteWait)); err != nil {
				return
			}
		case <-poll.C:
		}
	}
}

func writeProgress(conn *websocket.Conn, p *entity.Progress) error {
	if err := conn.SetWriteDeadline(time.Now().Add(progressWSWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(p)
}

func progressChanged(last, current *entity.Progress) bool {
	if last == nil {
		return true
	}
	return last.Status != current.Status ||
		last.Percent != current.Percent ||
		last.CompletedSections != current.CompletedSections ||
		last.TotalSections != current.TotalSections ||
		last.CurrentStep != current.CurrentStep ||
		!last.UpdatedAt.Equal(current.UpdatedAt)
}

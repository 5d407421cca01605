package api

import (
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
)

type streamEvent struct {
	Source string       `json:"source"`
	View   viewResponse `json:"view"`
}

// streamViews sends the current view, then one "view" event per update
// until the client disconnects or the hub closes.
func (h *Handler) streamViews(c *gin.Context) {
	id, updates := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)

	slog.Debug("stream subscriber connected", "id", id, "client", c.ClientIP())

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	v, loc := h.ranking.CurrentView(sourceAPI)
	c.SSEvent("view", streamEvent{Source: "snapshot", View: newViewResponse(v, loc, h.thresholds)})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case u, ok := <-updates:
			if !ok {
				return false
			}
			loc := u.Location
			c.SSEvent("view", streamEvent{Source: u.Source, View: newViewResponse(u.View, &loc, h.thresholds)})
			return true
		}
	})

	slog.Debug("stream subscriber disconnected", "id", id)
}

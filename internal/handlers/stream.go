package handlers

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/necohost/pos/internal/hub"
	"github.com/necohost/pos/internal/logging"
)

type StreamHandler struct {
	Hub *hub.Hub
}

// Stream keeps an SSE connection open and forwards hub broadcasts to
// the display client until it disconnects.
func (h *StreamHandler) Stream(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_stream")

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	subscriberID := uuid.New().String()
	events := h.Hub.Subscribe(subscriberID)
	defer h.Hub.Unsubscribe(subscriberID)

	l.Info("display client connected", "subscriber_id", subscriberID)

	fmt.Fprintf(w, ": connected\n\n")
	fmt.Fprintf(w, "retry: 2000\n\n")
	w.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Info("display client disconnected", "subscriber_id", subscriberID)
			return nil

		case <-ticker.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			w.Flush()

		case msg, ok := <-events:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "event: new-order\n")
			fmt.Fprintf(w, "data: %s\n\n", msg)
			w.Flush()
		}
	}
}

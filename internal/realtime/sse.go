package realtime

import (
	"fmt"
	"net/http"
	"time"
)

// Time between SSE keepalive comments
const keepalivePeriod = 15 * time.Second

// ServeSSE streams the client's queue as server-sent events until the
// request ends or the hub drops the client. initial is written first.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, client *Client, initial ...Message) {
	defer hub.Unregister(client)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// the stream outlives the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	for _, msg := range initial {
		if _, err := w.Write(formatSSE(msg)); err != nil {
			return
		}
	}
	flusher.Flush()

	ticker := time.NewTicker(keepalivePeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.Messages():
			if !ok {
				return
			}
			if _, err := w.Write(formatSSE(msg)); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// formatSSE renders one event. JSON data never contains raw newlines.
func formatSSE(msg Message) []byte {
	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
}

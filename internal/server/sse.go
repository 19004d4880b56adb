package server

import (
	"fmt"
	"net/http"
)

// handleSSE streams reload events to the browser over Server-Sent Events.
func (rl *reloader) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan struct{}, 1)
	rl.clientMu.Lock()
	rl.clients[clientChan] = struct{}{}
	rl.clientMu.Unlock()

	defer func() {
		rl.clientMu.Lock()
		delete(rl.clients, clientChan)
		rl.clientMu.Unlock()
	}()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-clientChan:
			_, _ = fmt.Fprintf(w, "data: reload\n\n")
			flusher.Flush()
		}
	}
}

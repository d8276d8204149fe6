package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust for production
	},
}

// streamSnapshots upgrades the request to a WebSocket and runs a live
// subscription until the client disconnects. run receives a send function
// that writes one full snapshot as a JSON frame; every frame replaces the
// previous one entirely on the client side.
func streamSnapshots(c echo.Context, run func(ctx context.Context, send func(v interface{})) error) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Reader loop only detects the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var writeMu sync.Mutex
	send := func(v interface{}) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(v); err != nil {
			cancel()
		}
	}

	if err := run(ctx, send); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("live subscription ended: %v", err)
	}
	return nil
}

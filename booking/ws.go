package booking

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"gatherly/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	mu          sync.Mutex
)

// HandleWS streams live booking activity for one event.
func HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	mu.Lock()
	subscribers[eventID] = append(subscribers[eventID], conn)
	mu.Unlock()

	for {
		// keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	mu.Lock()
	conns := subscribers[eventID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[eventID] = newList
	mu.Unlock()

	conn.Close()
}

// Broadcast pushes a payload to everyone watching an event. The mutex is
// held across the writes: gorilla/websocket allows only one writer per
// connection, and concurrent handlers call Broadcast for the same event.
func Broadcast(eventID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()
	for _, c := range subscribers[eventID] {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Sugar.Debugw("ws write failed", "eventid", eventID, "err", err)
		}
	}
}

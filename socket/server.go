package socket

import (
	"log"

	"coopnotes_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes and returns a new Socket.IO server.
// Clients join one room per chat id and get nudged whenever that chat
// changes; they reload the full state over the REST API.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, chatID string) {
		if chatID == "" {
			log.Println("Invalid chatId in join request")
			return
		}
		c.Join(chatID)
	})

	server.OnEvent("/", "leave", func(c socketio.Conn, chatID string) {
		if chatID != "" {
			c.Leave(chatID)
		}
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("Socket disconnected:", c.ID(), reason)
	})

	return server
}

// RunBridge forwards change-bus events to the socket rooms. The returned
// stop func cancels the bus registration and ends the forwarding
// goroutine; call it on shutdown.
func RunBridge(server *socketio.Server, bus *services.ChangeBus) func() {
	events, cancel := bus.Subscribe()
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case ev := <-events:
				switch ev.Kind {
				case services.EventMessage:
					server.BroadcastToRoom("/", ev.ChatID, "newMessage", ev.ChatID)
				default:
					server.BroadcastToRoom("/", ev.ChatID, "chatUpdated", ev.ChatID)
				}
			}
		}
	}()

	return func() {
		cancel()
		close(done)
	}
}

package handlers

import (
	"net/http"

	"github.com/RympeR/blob-ai/pkg/logger"
	"github.com/RympeR/blob-ai/pkg/utils"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
)

var SocketServer *socketio.Server

// EmitToUser pushes an event to every connection of one user. No-op when
// the socket server is not running (tests, CLI tools).
func EmitToUser(userId, event string, data interface{}) {
	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", userId, event, data)
	}
}

// InitSocketServer wires the real-time channel. Clients authenticate with
// their JWT and join a room named after their user id; the chat handlers
// broadcast into those rooms after their transactions commit.
func InitSocketServer() *socketio.Server {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		return nil
	})

	server.OnEvent("/", "authenticate", func(s socketio.Conn, token string) {
		claims, err := utils.ValidateToken(token)
		if err != nil {
			s.Emit("auth_error", map[string]interface{}{"error": "Invalid token"})
			return
		}
		s.SetContext(claims.UserID)
		s.Join(claims.UserID)
		s.Emit("authenticated", map[string]interface{}{"userId": claims.UserID})
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		logger.Warn().Err(e).Msg("Socket error")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if userId, ok := s.Context().(string); ok && userId != "" {
			s.Leave(userId)
		}
	})

	SocketServer = server
	return server
}

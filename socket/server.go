package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"

	"tindler_server/models"
)

// NewSocketServer initializes and returns a new Socket.IO server. Clients
// join one room per match to receive message and match pushes.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, matchID string) {
		if matchID == "" {
			log.Println("❌ Invalid matchId in join request")
			return
		}
		log.Printf("👥 Client %s joined match %s\n", c.ID(), matchID)
		c.Join(matchID)
	})

	server.OnEvent("/", "leave", func(c socketio.Conn, matchID string) {
		c.Leave(matchID)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}

// Broadcaster pushes engine events into match rooms.
type Broadcaster struct {
	Server *socketio.Server
}

func NewBroadcaster(server *socketio.Server) *Broadcaster {
	return &Broadcaster{Server: server}
}

func (b *Broadcaster) NotifyNewMatch(match models.Match) {
	b.Server.BroadcastToRoom("/", match.ID, "newMatch", match)
}

func (b *Broadcaster) NotifyNewMessage(matchID string, message models.Message) {
	b.Server.BroadcastToRoom("/", matchID, "newMessage", message)
}

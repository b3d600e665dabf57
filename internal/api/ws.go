package api

import (
	"context"
	"sync"
	"time"

	"peoplebot-go/internal/bot"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const commandTimeout = 60 * time.Second

// wsTransport adapts a websocket connection to the chat session
// transport. Writes are serialized because settlement notifications
// arrive from other goroutines than the command loop.
type wsTransport struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (t *wsTransport) SendText(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (t *wsTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.Close()
}

// chatEndpoint runs one chat session over a websocket connection.
// Authentication uses the session token passed as a query parameter on
// the upgrade request.
func (s *Server) chatEndpoint(conn *websocket.Conn) {
	claims, err := s.tokens.Validate(conn.Query("token"))
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("Unauthorized. Reconnect with a valid token."))
		_ = conn.Close()
		return
	}
	userId := claims.UserId

	transport := &wsTransport{conn: conn}
	session := bot.NewSession(userId, transport)

	// Installing tears down any prior session for this user, so the same
	// chat account is never handled twice.
	s.registry.Install(userId, session)
	defer s.registry.Remove(userId, session)

	chatId := uuid.New().String()
	linkCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := s.store.SetUserChatId(linkCtx, userId, chatId); err != nil {
		zap.L().Warn("Failed to link chat session", zap.String("user_id", userId), zap.Error(err))
	}
	cancel()

	zap.L().Info("Chat session opened",
		zap.String("user_id", userId),
		zap.String("chat_id", chatId))

	if err := transport.SendText("Connected. Type /wallets, /import, /delete, /trade or /transactions."); err != nil {
		return
	}

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			zap.L().Debug("Chat session closed", zap.String("user_id", userId), zap.Error(err))
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		reply := s.commands.HandleCommand(ctx, userId, string(msg))
		cancel()

		if err := transport.SendText(reply); err != nil {
			zap.L().Debug("Chat reply failed", zap.String("user_id", userId), zap.Error(err))
			return
		}
	}
}

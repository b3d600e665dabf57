package bot

import (
	"fmt"
	"sync"

	"peoplebot-go/internal/models"

	"go.uber.org/zap"
)

// Transport is one live chat connection capable of delivering outbound
// text to the user.
type Transport interface {
	SendText(text string) error
	Close() error
}

// Session binds a user to one live chat transport.
type Session struct {
	UserId    string
	transport Transport
}

func NewSession(userId string, transport Transport) *Session {
	return &Session{UserId: userId, transport: transport}
}

func (s *Session) Send(text string) error {
	return s.transport.SendText(text)
}

func (s *Session) Close() {
	if err := s.transport.Close(); err != nil {
		zap.L().Debug("Chat session close", zap.String("user_id", s.UserId), zap.Error(err))
	}
}

// Registry tracks the active chat session per user. At most one session
// may exist per user: installing a new one first tears down any prior
// session for the same user, so the same chat account can never be
// handled twice. Owned by the process lifecycle, never a package global.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Install registers the session as the user's active one, tearing down
// and replacing any prior entry.
func (r *Registry) Install(userId string, session *Session) {
	r.mu.Lock()
	prior := r.sessions[userId]
	r.sessions[userId] = session
	r.mu.Unlock()

	if prior != nil {
		zap.L().Info("Replacing active chat session", zap.String("user_id", userId))
		prior.Close()
	}
}

// Lookup returns the user's active session, if any.
func (r *Registry) Lookup(userId string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userId]
	return s, ok
}

// Remove drops the session if it is still the user's active one. A
// session that was already replaced stays untouched.
func (r *Registry) Remove(userId string, session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[userId] == session {
		delete(r.sessions, userId)
	}
}

// TradeSettled delivers a settlement notification to the user's active
// chat session. Best effort and at most once: if the session is gone or
// the send fails, the notification is dropped.
func (r *Registry) TradeSettled(userId string, tx models.Transaction) {
	session, ok := r.Lookup(userId)
	if !ok {
		return
	}

	msg := fmt.Sprintf("Trade %s settled: %s %s", tx.TradeId, tx.Type, tx.Pair)
	if tx.TxPriceUsd.Valid {
		msg += fmt.Sprintf(" @ $%s", tx.TxPriceUsd.Decimal.String())
	}
	if tx.SwapHash.Valid {
		msg += fmt.Sprintf(" (tx %s)", tx.SwapHash.String)
	}

	if err := session.Send(msg); err != nil {
		zap.L().Warn("Failed to deliver trade notification",
			zap.String("user_id", userId),
			zap.String("trade_id", tx.TradeId),
			zap.Error(err))
	}
}

package support

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	analysis "github.com/mindcare/backend/internal/analysis/support"
	"github.com/mindcare/backend/internal/model/chat"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message is empty")
)

// Composer writes a free-form reply for messages that matched no rule.
type Composer interface {
	Compose(ctx context.Context, history []chat.Message, userMessage string) (string, error)
}

// Exchange is the result of one user turn.
type Exchange struct {
	User      chat.Message   `json:"user"`
	Assistant chat.Message   `json:"assistant"`
	Reply     analysis.Reply `json:"reply"`
}

// Service keeps support conversations in memory.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	messages map[string][]chat.Message

	selector *analysis.Selector
	composer Composer
	logger   *zap.Logger
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithComposer delegates fallback replies to c.
func WithComposer(c Composer) Option {
	return func(s *Service) { s.composer = c }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService bootstraps the in-memory support service.
func NewService(selector *analysis.Selector, opts ...Option) *Service {
	if selector == nil {
		selector = analysis.NewSelector(analysis.RoundRobin)
	}
	s := &Service{
		sessions: make(map[string]chat.Session),
		messages: make(map[string][]chat.Message),
		selector: selector,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession provisions an anonymous session opened with the greeting.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = []chat.Message{s.greeting(session.ID)}
	s.mu.Unlock()

	s.logger.Debug("support session created", zap.String("session", session.ID))
	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Send records the user message and the selected reply. The fallback turn is
// reserved under the write lock, so concurrent sends to one session never share
// a round-robin index.
func (s *Service) Send(ctx context.Context, sessionID, content string) (Exchange, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Exchange{}, ErrEmptyMessage
	}

	reply, history, err := s.reserveReply(sessionID, content)
	if err != nil {
		return Exchange{}, err
	}

	text := reply.Text
	if reply.IsFallback() && s.composer != nil {
		composed, err := s.composer.Compose(ctx, history, content)
		switch {
		case err != nil:
			s.logger.Warn("composer failed, using canned reply", zap.String("session", sessionID), zap.Error(err))
		case strings.TrimSpace(composed) != "":
			text = strings.TrimSpace(composed)
		}
	}
	if reply.Crisis {
		s.logger.Warn("crisis keywords detected", zap.String("session", sessionID))
	}

	now := s.now().UTC()
	userMsg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      chat.RoleUser,
		Content:   content,
		CreatedAt: now,
	}
	assistantMsg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      chat.RoleAssistant,
		Content:   text,
		Category:  string(reply.Category),
		CreatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return Exchange{}, ErrSessionNotFound
	}
	s.messages[sessionID] = append(s.messages[sessionID], userMsg, assistantMsg)

	return Exchange{User: userMsg, Assistant: assistantMsg, Reply: reply}, nil
}

// reserveReply selects the reply and, for fallbacks, advances the session's
// turn counter in the same critical section. The transcript snapshot is only
// taken when a composer will need it.
func (s *Service) reserveReply(sessionID, content string) (analysis.Reply, []chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return analysis.Reply{}, nil, ErrSessionNotFound
	}

	reply := s.selector.Select(content, session.FallbackTurns)
	if !reply.IsFallback() {
		return reply, nil, nil
	}

	session.FallbackTurns++
	s.sessions[sessionID] = session

	var history []chat.Message
	if s.composer != nil {
		history = append([]chat.Message(nil), s.messages[sessionID]...)
	}
	return reply, history, nil
}

// QuickHelp posts the crisis-line message without a user turn.
func (s *Service) QuickHelp(_ context.Context, sessionID string) (chat.Message, error) {
	msg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      chat.RoleAssistant,
		Content:   analysis.QuickHelp(),
		Category:  string(analysis.Crisis),
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return chat.Message{}, ErrSessionNotFound
	}
	s.messages[sessionID] = append(s.messages[sessionID], msg)
	return msg, nil
}

// Clear resets the transcript to the greeting.
func (s *Service) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	session.FallbackTurns = 0
	s.sessions[sessionID] = session
	s.messages[sessionID] = []chat.Message{s.greeting(sessionID)}
	return nil
}

// Transcript returns stored messages for the provided session.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

func (s *Service) greeting(sessionID string) chat.Message {
	return chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      chat.RoleAssistant,
		Content:   analysis.Greeting(),
		CreatedAt: s.now().UTC(),
	}
}

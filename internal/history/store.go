// Package history keeps the per-session conversation memory of the chat server.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/faqchat/internal/models"
)

// Session is the conversation memory of one client session
type Session struct {
	ID        string                  `json:"id"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
	Messages  []models.HistoryMessage `json:"messages"`
}

// Store manages session histories in memory, optionally mirrored to one JSON
// file per session so memory survives a server restart.
type Store struct {
	baseDir  string
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates a new store. An empty baseDir keeps history in memory only.
func NewStore(baseDir string) (*Store, error) {
	s := &Store{sessions: make(map[string]*Session)}

	if baseDir != "" {
		historyDir := filepath.Join(baseDir, "sessions")
		if err := os.MkdirAll(historyDir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		s.baseDir = historyDir
	}

	return s, nil
}

// NewSessionID returns a fresh session identifier
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether id can name a session
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Recent returns up to the last n messages of the session, oldest first.
// n <= 0 returns the whole history.
func (s *Store) Recent(id string, n int) ([]models.HistoryMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil || sess == nil {
		return nil, err
	}

	msgs := sess.Messages
	if n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]models.HistoryMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Append adds messages to the session, creating it if needed, and returns
// the full updated history.
func (s *Store) Append(id string, msgs ...models.HistoryMessage) ([]models.HistoryMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if sess == nil {
		sess = &Session{ID: id, CreatedAt: now}
		s.sessions[id] = sess
	}

	sess.Messages = append(sess.Messages, msgs...)
	sess.UpdatedAt = now

	if err := s.saveSession(sess); err != nil {
		return nil, err
	}

	out := make([]models.HistoryMessage, len(sess.Messages))
	copy(out, sess.Messages)
	return out, nil
}

// Reset clears the session history. Resetting an unknown session is not an error.
func (s *Store) Reset(id string) error {
	if !ValidSessionID(id) {
		return fmt.Errorf("invalid session id: %q", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}

	sess.Messages = nil
	sess.UpdatedAt = time.Now()
	return s.saveSession(sess)
}

// Len returns the number of sessions held in memory
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Internal methods

// lookup finds a session in memory or on disk. It returns nil, nil when the
// session does not exist. Callers hold s.mu.
func (s *Store) lookup(id string) (*Session, error) {
	if !ValidSessionID(id) {
		return nil, fmt.Errorf("invalid session id: %q", id)
	}

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}

	if s.baseDir == "" {
		return nil, nil
	}

	sess, err := s.loadSession(id)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		s.sessions[id] = sess
	}
	return sess, nil
}

func (s *Store) sessionPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *Store) loadSession(id string) (*Session, error) {
	data, err := os.ReadFile(s.sessionPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	return &sess, nil
}

func (s *Store) saveSession(sess *Session) error {
	if s.baseDir == "" {
		return nil
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.sessionPath(sess.ID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

// Package repository provides the dialogue session store and the SQLite
// leads store.
package repository

import (
	"sync"

	"github.com/mariil/leadbot/internal/models"
)

// SessionsState keeps per-chat dialogue state in memory. Sessions are created
// lazily on first access and live until the process exits; volume is low
// enough that idle sessions are never evicted.
type SessionsState struct {
	sessions map[int64]models.Session
	mu       sync.RWMutex
}

// NewSessionsState creates a SessionsState with an empty buffer.
func NewSessionsState() *SessionsState {
	return &SessionsState{
		sessions: make(map[int64]models.Session),
	}
}

// Get returns the session for a chat, creating a fresh default one if the
// chat has never been seen. The returned value is a copy.
func (s *SessionsState) Get(chatID int64) models.Session {
	s.mu.RLock()
	session, ok := s.sessions[chatID]
	s.mu.RUnlock()
	if ok {
		return session
	}
	return models.Session{ChatID: chatID}
}

// Set replaces the stored session for a chat.
func (s *SessionsState) Set(chatID int64, session models.Session) {
	session.ChatID = chatID
	s.mu.Lock()
	s.sessions[chatID] = session
	s.mu.Unlock()
}

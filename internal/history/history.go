package history

import (
	"sync"

	"ai-chat/internal/llm"
)

// Store holds the single in-process conversation. Messages are only ever
// appended; Clear drops all of them at once.
type Store struct {
	mu       sync.RWMutex
	messages []llm.Message
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

func (s *Store) AppendUser(content string) {
	s.Append(llm.Message{Role: llm.RoleUser, Content: content})
}

func (s *Store) AppendAssistant(content string) {
	s.Append(llm.Message{Role: llm.RoleAssistant, Content: content})
}

func (s *Store) Append(msg llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// AppendAndSnapshot appends msg and returns the history including it, so
// the caller sends exactly what it appended to.
func (s *Store) AppendAndSnapshot(msg llm.Message) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return copyMessages(s.messages)
}

// Snapshot returns a copy; callers may modify it freely.
func (s *Store) Snapshot() []llm.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMessages(s.messages)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

func copyMessages(in []llm.Message) []llm.Message {
	out := make([]llm.Message, len(in))
	copy(out, in)
	return out
}

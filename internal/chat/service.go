package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-chat/internal/history"
	"ai-chat/internal/llm"
	"ai-chat/internal/storage"
)

var ErrEmptyMessage = errors.New("message is empty")

// CompletionError means the backend call failed after the user message
// was already appended.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string { return e.Err.Error() }
func (e *CompletionError) Unwrap() error { return e.Err }

// Exchange is the outcome of one user message.
type Exchange struct {
	Reply   string
	Failed  bool
	History []llm.Message
}

// Service owns the conversation and talks to the backend.
type Service struct {
	store    *history.Store
	client   llm.Client
	counter  *llm.TokenCounter
	recorder storage.Recorder
	now      func() time.Time
}

// New wires a service. recorder may be nil.
func New(store *history.Store, client llm.Client, counter *llm.TokenCounter, recorder storage.Recorder) *Service {
	if counter == nil {
		counter = llm.NewTokenCounter()
	}
	return &Service{
		store:    store,
		client:   client,
		counter:  counter,
		recorder: recorder,
		now:      time.Now,
	}
}

// Send appends text as a user message, asks the backend for a reply and
// appends it. On backend failure the user message stays in history, no
// assistant message is added and a *CompletionError is returned.
func (s *Service) Send(ctx context.Context, text string) (Exchange, error) {
	return s.send(ctx, text, storage.ChannelAPI)
}

// SendOrApologise is Send for the HTML page: a backend failure becomes a
// visible assistant message instead of an error. Only ErrEmptyMessage is
// returned.
func (s *Service) SendOrApologise(ctx context.Context, text string) (Exchange, error) {
	ex, err := s.send(ctx, text, storage.ChannelWeb)
	var cerr *CompletionError
	if errors.As(err, &cerr) {
		reply := fmt.Sprintf("Sorry, I encountered an error: %v", cerr.Err)
		return Exchange{
			Reply:   reply,
			Failed:  true,
			History: s.store.AppendAndSnapshot(llm.Message{Role: llm.RoleAssistant, Content: reply}),
		}, nil
	}
	return ex, err
}

func (s *Service) send(ctx context.Context, text, channel string) (Exchange, error) {
	if strings.TrimSpace(text) == "" {
		return Exchange{}, ErrEmptyMessage
	}

	msgs := s.store.AppendAndSnapshot(llm.Message{Role: llm.RoleUser, Content: text})
	log.Printf("💬 [%s] user message (%d messages, ~%d tokens in context)", channel, len(msgs), s.counter.Count(msgs))

	resp, err := s.client.Generate(ctx, msgs)
	if err != nil {
		log.Printf("❌ [%s] completion failed: %v", channel, err)
		s.record(storage.Event{
			Channel:     channel,
			UserMessage: text,
			Failed:      true,
			Error:       err.Error(),
		})
		return Exchange{}, &CompletionError{Err: err}
	}

	s.record(storage.Event{
		Channel:           channel,
		UserMessage:       text,
		AssistantResponse: resp.Content,
		Model:             resp.Model,
		PromptTokens:      resp.PromptTokens,
		CompletionTokens:  resp.CompletionTokens,
		TotalTokens:       resp.TotalTokens,
	})

	return Exchange{
		Reply:   resp.Content,
		History: s.store.AppendAndSnapshot(llm.Message{Role: llm.RoleAssistant, Content: resp.Content}),
	}, nil
}

func (s *Service) Clear() {
	s.store.Clear()
	log.Println("🧹 Conversation cleared")
}

func (s *Service) History() []llm.Message {
	return s.store.Snapshot()
}

// Tokens estimates the size of the current conversation.
func (s *Service) Tokens() int {
	return s.counter.Count(s.store.Snapshot())
}

// Recorder returns the interaction log, nil when disabled.
func (s *Service) Recorder() storage.Recorder {
	return s.recorder
}

func (s *Service) record(ev storage.Event) {
	if s.recorder == nil {
		return
	}
	ev.Timestamp = s.now().UTC()
	if err := s.recorder.AppendInteraction(ev); err != nil {
		log.Printf("failed to record interaction: %v", err)
	}
}

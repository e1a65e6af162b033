package storage

import "time"

const (
	ChannelWeb = "web"
	ChannelAPI = "api"
)

// Event is one user message and what the assistant (or the error path)
// produced for it. Events are appended in chronological order.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	Channel           string    `json:"channel"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response,omitempty"`
	Model             string    `json:"model,omitempty"`
	Failed            bool      `json:"failed,omitempty"`
	Error             string    `json:"error,omitempty"`
	PromptTokens      int       `json:"prompt_tokens,omitempty"`
	CompletionTokens  int       `json:"completion_tokens,omitempty"`
	TotalTokens       int       `json:"total_tokens,omitempty"`
}

// Recorder abstracts the interaction log. It is write-mostly: nothing reads
// events back into the conversation.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}

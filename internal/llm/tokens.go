package llm

import (
	"errors"
	"log"
	"sync"
	"unicode/utf8"

	tokenizer "github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

var errEstimateOnly = errors.New("estimate only")

type encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

// TokenCounter estimates how many tokens a conversation occupies. Local
// models use their own tokenizers, so the figure is an approximation.
type TokenCounter struct {
	once sync.Once
	load func() (encoder, error)
	enc  encoder
}

func NewTokenCounter() *TokenCounter {
	return &TokenCounter{load: func() (encoder, error) {
		return tokenizer.GetEncoding(defaultEncoding)
	}}
}

// NewEstimatingTokenCounter never loads a tiktoken encoding and always
// uses the character-based estimate.
func NewEstimatingTokenCounter() *TokenCounter {
	return &TokenCounter{load: func() (encoder, error) {
		return nil, errEstimateOnly
	}}
}

// Count never fails: when the encoding cannot be loaded (the BPE ranks are
// fetched on first use) it falls back to roughly four characters per token.
func (c *TokenCounter) Count(messages []Message) int {
	c.once.Do(func() {
		enc, err := c.load()
		if errors.Is(err, errEstimateOnly) {
			return
		}
		if err != nil {
			log.Printf("⚠️ tiktoken encoding %s unavailable, using rough estimate: %v", defaultEncoding, err)
			return
		}
		c.enc = enc
	})

	if len(messages) == 0 {
		return 0
	}

	total := 0
	empty := []string{}
	for _, m := range messages {
		if c.enc != nil {
			total += len(c.enc.Encode(m.Role, empty, empty))
			total += len(c.enc.Encode(m.Content, empty, empty))
			continue
		}
		total += estimate(m.Role) + estimate(m.Content)
	}
	// every reply is primed with <|start|>assistant<|message|>
	return total + 3
}

func estimate(s string) int {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

package analytics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"ai-chat/internal/storage"
)

func testEvents(day time.Time) []storage.Event {
	return []storage.Event{
		{
			Timestamp:         day.Add(2 * time.Hour),
			Channel:           storage.ChannelWeb,
			UserMessage:       "Hi",
			AssistantResponse: "Hello!",
			Model:             "llama3.2:1b",
			PromptTokens:      10,
			CompletionTokens:  5,
			TotalTokens:       15,
		},
		{
			Timestamp:   day.Add(4 * time.Hour),
			Channel:     storage.ChannelWeb,
			UserMessage: "Are you there?",
			Failed:      true,
			Error:       "connection refused",
		},
		{
			Timestamp:         day.Add(6 * time.Hour),
			Channel:           storage.ChannelAPI,
			UserMessage:       "Ping",
			AssistantResponse: "Pong",
			Model:             "llama3.2:1b",
			PromptTokens:      20,
			CompletionTokens:  2,
			TotalTokens:       22,
		},
		// next day, ignored
		{
			Timestamp:   day.AddDate(0, 0, 1),
			Channel:     storage.ChannelAPI,
			UserMessage: "tomorrow",
			TotalTokens: 100,
		},
		// no user message, ignored
		{
			Timestamp:         day.Add(8 * time.Hour),
			AssistantResponse: "[system]",
		},
	}
}

func TestAnalyzeDailyLogs(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	stats := AnalyzeDailyLogs(testEvents(day), day.Add(13*time.Hour))

	if stats.Date != "2024-01-15" {
		t.Errorf("Expected date '2024-01-15', got '%s'", stats.Date)
	}
	if stats.TotalMessages != 3 {
		t.Errorf("Expected 3 total messages, got %d", stats.TotalMessages)
	}
	if stats.FailedMessages != 1 {
		t.Errorf("Expected 1 failed message, got %d", stats.FailedMessages)
	}
	if stats.MessagesByChan["web"] != 2 || stats.MessagesByChan["api"] != 1 {
		t.Errorf("Unexpected channel counts: %+v", stats.MessagesByChan)
	}
	if stats.MessagesByModel["llama3.2:1b"] != 2 {
		t.Errorf("Unexpected model counts: %+v", stats.MessagesByModel)
	}
	if stats.TotalTokens != 37 || stats.PromptTokens != 30 || stats.CompletionTokens != 7 {
		t.Errorf("Unexpected token totals: %+v", stats)
	}
}

func TestAnalyzeDailyLogs_Empty(t *testing.T) {
	stats := AnalyzeDailyLogs(nil, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	if stats.TotalMessages != 0 || stats.TotalTokens != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}
}

func TestGenerateReportSummary(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	summary := AnalyzeDailyLogs(testEvents(day), day).GenerateReportSummary()

	for _, want := range []string{"2024-01-15", "messages: 3 (failed: 1)", "tokens: 37", "- web: 2", "- api: 1", "- llama3.2:1b: 2"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary should contain %q:\n%s", want, summary)
		}
	}
	if strings.Index(summary, "- api: 1") > strings.Index(summary, "- web: 2") {
		t.Errorf("Channels should be listed in sorted order:\n%s", summary)
	}
}

func TestToJSON(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	data, err := AnalyzeDailyLogs(testEvents(day), day).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var decoded DailyStats
	if err := json.Unmarshal([]byte(data), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.TotalMessages != 3 {
		t.Errorf("Expected 3 messages after decode, got %d", decoded.TotalMessages)
	}
}

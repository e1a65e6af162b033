package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"ai-chat/internal/storage"
)

// DailyStats summarises the interaction log for one day.
type DailyStats struct {
	Date             string         `json:"date"`
	TotalMessages    int            `json:"total_messages"`
	FailedMessages   int            `json:"failed_messages"`
	MessagesByChan   map[string]int `json:"messages_by_channel"`
	MessagesByModel  map[string]int `json:"messages_by_model"`
	PromptTokens     int            `json:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens"`
	TotalTokens      int            `json:"total_tokens"`
}

// AnalyzeDailyLogs counts the events whose timestamp falls on targetDate
// (in targetDate's location).
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	stats := &DailyStats{
		Date:            startOfDay.Format("2006-01-02"),
		MessagesByChan:  make(map[string]int),
		MessagesByModel: make(map[string]int),
	}

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		if event.UserMessage == "" {
			continue
		}

		stats.TotalMessages++
		if event.Failed {
			stats.FailedMessages++
		}
		if event.Channel != "" {
			stats.MessagesByChan[event.Channel]++
		}
		if event.Model != "" {
			stats.MessagesByModel[event.Model]++
		}
		stats.PromptTokens += event.PromptTokens
		stats.CompletionTokens += event.CompletionTokens
		stats.TotalTokens += event.TotalTokens
	}

	return stats
}

// GenerateReportSummary renders the stats as a short plain-text report.
func (ds *DailyStats) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "AI Chat usage for %s:\n", ds.Date)
	fmt.Fprintf(&b, "- messages: %d (failed: %d)\n", ds.TotalMessages, ds.FailedMessages)
	fmt.Fprintf(&b, "- tokens: %d (prompt %d, completion %d)\n", ds.TotalTokens, ds.PromptTokens, ds.CompletionTokens)

	if len(ds.MessagesByChan) > 0 {
		b.WriteString("By channel:\n")
		for _, k := range sortedKeys(ds.MessagesByChan) {
			fmt.Fprintf(&b, "- %s: %d\n", k, ds.MessagesByChan[k])
		}
	}
	if len(ds.MessagesByModel) > 0 {
		b.WriteString("By model:\n")
		for _, k := range sortedKeys(ds.MessagesByModel) {
			fmt.Fprintf(&b, "- %s: %d\n", k, ds.MessagesByModel[k])
		}
	}
	return b.String()
}

func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

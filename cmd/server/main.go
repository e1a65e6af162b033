package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ai-chat/internal/analytics"
	"ai-chat/internal/chat"
	"ai-chat/internal/config"
	"ai-chat/internal/history"
	"ai-chat/internal/llm"
	"ai-chat/internal/scheduler"
	"ai-chat/internal/storage"
	"ai-chat/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	log.Printf("⚙️ Config: %s", cfg)

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Printf("failed to init interaction log: %v", err)
		} else {
			rec = fr
		}
	}

	counter := llm.NewEstimatingTokenCounter()
	if cfg.Tiktoken {
		counter = llm.NewTokenCounter()
	}

	client := llm.NewOpenAI(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.AppName)
	svc := chat.New(history.NewStore(), client, counter, rec)

	var sched *scheduler.Scheduler
	if rec != nil {
		sched = scheduler.New(cfg.ReportSchedule)
		sched.SetReportFunction(func(ctx context.Context) error {
			return logDailyReport(rec)
		})
		if err := sched.Start(); err != nil {
			log.Printf("failed to start scheduler: %v", err)
		}
	}

	server := web.NewWebServer(cfg, svc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server failed: %v", err)
		}
	case <-ctx.Done():
		log.Println("🛑 Shutting down")
		if err := server.Stop(); err != nil {
			log.Printf("graceful shutdown failed: %v", err)
		}
	}

	if sched != nil {
		sched.Stop()
	}
}

func logDailyReport(rec storage.Recorder) error {
	events, err := rec.LoadInteractions()
	if err != nil {
		return fmt.Errorf("load interactions: %w", err)
	}
	stats := analytics.AnalyzeDailyLogs(events, time.Now().UTC())
	log.Printf("📊 %s", stats.GenerateReportSummary())
	return nil
}

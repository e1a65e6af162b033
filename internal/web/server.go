package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"ai-chat/internal/analytics"
	"ai-chat/internal/chat"
	"ai-chat/internal/config"
	"ai-chat/internal/llm"
)

const maxBodyBytes = 1 << 20

// WebServer serves the chat page and its JSON mirror.
type WebServer struct {
	cfg       *config.Config
	chat      *chat.Service
	page      *template.Template
	server    *http.Server
	startTime time.Time
	now       func() time.Time
}

type pageData struct {
	Title    string
	Messages []llm.Message
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string        `json:"response"`
	History  []llm.Message `json:"history"`
}

type historyResponse struct {
	History []llm.Message `json:"history"`
	Tokens  int           `json:"tokens"`
}

func NewWebServer(cfg *config.Config, svc *chat.Service) *WebServer {
	return &WebServer{
		cfg:       cfg,
		chat:      svc,
		page:      template.Must(template.New("page").Parse(pageTemplate)),
		startTime: time.Now(),
		now:       time.Now,
	}
}

// Handler returns the routed handler without starting a listener.
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/chat", ws.handleChat)
	mux.HandleFunc("/clear", ws.handleClear)
	mux.HandleFunc("/api/chat", ws.handleAPIChat)
	mux.HandleFunc("/api/history", ws.handleAPIHistory)
	mux.HandleFunc("/api/stats", ws.handleAPIStats)
	mux.HandleFunc("/", ws.handleRoot) // must stay last
	return mux
}

// Start blocks serving on the configured address until Stop is called.
func (ws *WebServer) Start() error {
	ws.server = &http.Server{
		Addr:         ws.cfg.Addr(),
		Handler:      ws.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: ws.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("🌐 Starting %s on http://%s (model %s at %s)", ws.cfg.AppName, ws.cfg.Addr(), ws.cfg.LLMModel, ws.cfg.LLMBaseURL)
	if err := ws.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (ws *WebServer) Stop() error {
	if ws.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return ws.server.Shutdown(ctx)
}

func (ws *WebServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	ws.renderPage(w)
}

// handleChat is the form flow: backend failures end up as an assistant
// message on the page, never as an HTTP error.
func (ws *WebServer) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := ws.chat.SendOrApologise(r.Context(), r.PostForm.Get("message")); err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			http.Error(w, "Message is required", http.StatusBadRequest)
			return
		}
		log.Printf("❌ chat failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	ws.renderPage(w)
}

func (ws *WebServer) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	ws.chat.Clear()
	ws.renderPage(w)
}

// handleAPIChat fails loudly: a backend error is reported as 502 so API
// consumers can tell it apart from a real reply.
func (ws *WebServer) handleAPIChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request: "+err.Error())
		return
	}

	ex, err := ws.chat.Send(r.Context(), req.Message)
	if err != nil {
		var cerr *chat.CompletionError
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "message is required")
		case errors.As(err, &cerr):
			writeError(w, http.StatusBadGateway, "completion failed: "+cerr.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: ex.Reply, History: ex.History})
}

func (ws *WebServer) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{History: ws.chat.History(), Tokens: ws.chat.Tokens()})
}

func (ws *WebServer) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	rec := ws.chat.Recorder()
	if rec == nil {
		writeError(w, http.StatusNotFound, "interaction log is disabled")
		return
	}
	events, err := rec.LoadInteractions()
	if err != nil {
		log.Printf("❌ failed to load interactions: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load interaction log")
		return
	}
	writeJSON(w, http.StatusOK, analytics.AnalyzeDailyLogs(events, ws.now().UTC()))
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (ws *WebServer) renderPage(w http.ResponseWriter) {
	data := pageData{Title: ws.cfg.AppName, Messages: ws.chat.History()}

	var buf strings.Builder
	if err := ws.page.Execute(&buf, data); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, buf.String())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, methods ...string) {
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// Package errors keeps the bot up when handlers fail. Panics in command, component
// and event goroutines are recovered and counted, failures worth an operator's look
// are posted to the error webhook, and a burst of failures shuts the bot down before
// it can keep corrupting state.
package errors

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
)

const (
	defaultMaxErrors = 15
	defaultWindow    = 5 * time.Second
	maxStackLen      = 1500
)

// Severity colors a webhook report
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityCritical
)

func (s Severity) color() int {
	switch s {
	case SeverityWarning:
		return 0xFFA500
	case SeverityCritical:
		return 0x8B0000
	default:
		return 0xFF0000
	}
}

// ErrorHandler counts failures per window and reports them
type ErrorHandler struct {
	errorCount   int32
	webhookURL   string
	httpClient   *http.Client
	shutdownFunc func()
	exit         func(code int)
	maxErrors    int32
	window       time.Duration
	stopChan     chan struct{}
	stopOnce     sync.Once
	tripped      atomic.Bool
}

// Report is one webhook message. Document and Stack are optional.
type Report struct {
	Title    string
	Message  string
	Document string
	Stack    string
	Severity Severity
}

var (
	handler *ErrorHandler
	once    sync.Once
)

// Init initializes the global error handler
func Init(webhookURL string, shutdownFunc func()) *ErrorHandler {
	once.Do(func() {
		handler = NewErrorHandler(webhookURL, shutdownFunc)
	})
	return handler
}

// Get returns the global error handler instance
func Get() *ErrorHandler {
	return handler
}

// Option tunes an ErrorHandler
type Option func(*ErrorHandler)

// WithLimit shuts the bot down once more than limit failures happen within window
func WithLimit(limit int32, window time.Duration) Option {
	return func(h *ErrorHandler) {
		h.maxErrors = limit
		h.window = window
	}
}

// withExit replaces os.Exit, for tests
func withExit(fn func(int)) Option {
	return func(h *ErrorHandler) { h.exit = fn }
}

// NewErrorHandler creates a handler and starts its window timer
func NewErrorHandler(webhookURL string, shutdownFunc func(), opts ...Option) *ErrorHandler {
	h := &ErrorHandler{
		webhookURL:   webhookURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		shutdownFunc: shutdownFunc,
		exit:         os.Exit,
		maxErrors:    defaultMaxErrors,
		window:       defaultWindow,
		stopChan:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}

	go h.resetLoop()
	return h
}

// resetLoop starts a fresh failure window every h.window
func (h *ErrorHandler) resetLoop() {
	ticker := time.NewTicker(h.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			atomic.StoreInt32(&h.errorCount, 0)
		case <-h.stopChan:
			return
		}
	}
}

// Stop ends the window timer
func (h *ErrorHandler) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

// IncrementError counts one failure and trips the shutdown when the window overflows
func (h *ErrorHandler) IncrementError() {
	count := atomic.AddInt32(&h.errorCount, 1)
	logger.Error(fmt.Sprintf("Errores en la ventana actual: %d", count), "AntiCrash")

	if count > h.maxErrors && h.tripped.CompareAndSwap(false, true) {
		go h.overload(count)
	}
}

// overload reports the failure burst, runs the shutdown hook and exits
func (h *ErrorHandler) overload(count int32) {
	start := time.Now()
	logger.Warn(fmt.Sprintf("%d errores en %v, apagando...", count, h.window), "CRITICAL")

	h.Report(Report{
		Title:    "Bot shutting down",
		Message:  fmt.Sprintf("%d failures within %v. Elura Utility is stopping to protect its data.", count, h.window),
		Severity: SeverityCritical,
	})

	if h.shutdownFunc != nil {
		h.shutdownFunc()
	}

	logger.Warn(fmt.Sprintf("Finalizando proceso... Tiempo total: %v", time.Since(start)), "CRITICAL")
	h.exit(1)
}

// HandlePanic counts a recovered panic and reports it with its stack
func (h *ErrorHandler) HandlePanic(recovered interface{}, stack []byte) {
	logger.Error(fmt.Sprintf("Panic recuperado: %v", recovered), "AntiCrash")
	h.IncrementError()

	go h.Report(Report{
		Title:    "Handler panic",
		Message:  fmt.Sprintf("A command or event handler panicked: `%v`", recovered),
		Stack:    string(stack),
		Severity: SeverityError,
	})
}

// Count returns the number of errors seen in the current window
func (h *ErrorHandler) Count() int32 {
	return atomic.LoadInt32(&h.errorCount)
}

// ReportCorruptDocument tells operators a stored document was unreadable or misshapen
// and has been replaced with its defaults. The previous contents are gone.
func (h *ErrorHandler) ReportCorruptDocument(name string, cause error) {
	logger.Warn(fmt.Sprintf("Documento %q corrupto, restablecido a valores por defecto: %v", name, cause), "AntiCrash")
	h.Report(Report{
		Title:    "Document reset",
		Message:  fmt.Sprintf("The stored document was reset to its defaults and its previous contents were discarded.\n```%v```", cause),
		Document: name,
		Severity: SeverityWarning,
	})
}

// Report posts r to the error webhook. Without a webhook it does nothing.
func (h *ErrorHandler) Report(r Report) {
	if h.webhookURL == "" {
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"embeds": []interface{}{reportEmbed(r, time.Now())},
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Error serializando reporte: %v", err), "AntiCrash")
		return
	}

	req, err := http.NewRequest(http.MethodPost, h.webhookURL, bytes.NewReader(data))
	if err != nil {
		logger.Error(fmt.Sprintf("Error creando petición al webhook: %v", err), "AntiCrash")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("Error enviando reporte: %v", err), "AntiCrash")
		return
	}
	defer resp.Body.Close()

	logger.Debug(fmt.Sprintf("Reporte %q enviado al webhook, status %d", r.Title, resp.StatusCode), "AntiCrash")
}

func reportEmbed(r Report, now time.Time) map[string]interface{} {
	var fields []map[string]interface{}
	if r.Document != "" {
		fields = append(fields, map[string]interface{}{"name": "Document", "value": "`" + r.Document + "`", "inline": true})
	}
	if r.Stack != "" {
		stack := r.Stack
		if len(stack) > maxStackLen {
			stack = stack[:maxStackLen] + "\n..."
		}
		fields = append(fields, map[string]interface{}{"name": "Stack", "value": "```" + stack + "```"})
	}

	embed := map[string]interface{}{
		"title":       "⚠️ " + r.Title,
		"description": r.Message,
		"color":       r.Severity.color(),
		"footer":      map[string]string{"text": "Elura Utility • AntiCrash"},
		"timestamp":   now.Format(time.RFC3339),
	}
	if len(fields) > 0 {
		embed["fields"] = fields
	}
	return embed
}

// RecoverMiddleware returns a recovery function for use in deferred calls
func RecoverMiddleware() func() {
	return func() {
		if r := recover(); r != nil {
			if handler != nil {
				handler.HandlePanic(r, debug.Stack())
			} else {
				logger.Error(fmt.Sprintf("Panic recuperado (sin handler): %v", r), "AntiCrash")
			}
		}
	}
}

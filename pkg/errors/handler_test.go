package errors

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

type webhookPayload struct {
	Embeds []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Color       int    `json:"color"`
		Fields      []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"fields"`
	} `json:"embeds"`
}

func captureWebhook(t *testing.T) (*httptest.Server, chan webhookPayload) {
	t.Helper()
	got := make(chan webhookPayload, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var p webhookPayload
		if err := json.Unmarshal(body, &p); err != nil {
			t.Errorf("webhook body is not JSON: %v", err)
		}
		got <- p
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestRecoverMiddlewareCountsPanics(t *testing.T) {
	h := NewErrorHandler("", nil)
	defer h.Stop()

	prev := handler
	handler = h
	defer func() { handler = prev }()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer RecoverMiddleware()()
		panic("boom")
	}()
	wg.Wait()

	if got := h.Count(); got != 1 {
		t.Errorf("Count() = %v, want 1", got)
	}
}

func TestRecoverMiddlewareWithoutHandler(t *testing.T) {
	prev := handler
	handler = nil
	defer func() { handler = prev }()

	func() {
		defer RecoverMiddleware()()
		panic("no handler installed")
	}()
}

func TestReportWithoutWebhookIsNoop(t *testing.T) {
	h := NewErrorHandler("", nil)
	defer h.Stop()

	h.Report(Report{Title: "Test", Message: "nothing to send"})
	h.ReportCorruptDocument("economy", nil)
}

func TestReportCorruptDocumentNamesDocument(t *testing.T) {
	srv, got := captureWebhook(t)
	h := NewErrorHandler(srv.URL, nil)
	defer h.Stop()

	h.ReportCorruptDocument("punishments", fmt.Errorf("cases is not an array"))

	select {
	case p := <-got:
		if len(p.Embeds) != 1 {
			t.Fatalf("len(Embeds) = %d, want 1", len(p.Embeds))
		}
		e := p.Embeds[0]
		if e.Title != "⚠️ Document reset" {
			t.Errorf("Title = %q", e.Title)
		}
		if !strings.Contains(e.Description, "cases is not an array") {
			t.Errorf("Description %q does not carry the cause", e.Description)
		}
		if e.Color != SeverityWarning.color() {
			t.Errorf("Color = %#x, want %#x", e.Color, SeverityWarning.color())
		}
		if len(e.Fields) != 1 || e.Fields[0].Name != "Document" || e.Fields[0].Value != "`punishments`" {
			t.Errorf("Fields = %+v, want the document name", e.Fields)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not called")
	}
}

func TestHandlePanicReportsStack(t *testing.T) {
	srv, got := captureWebhook(t)
	h := NewErrorHandler(srv.URL, nil)
	defer h.Stop()

	h.HandlePanic("nil map write", []byte("goroutine 7 [running]:\nmain.handler()"))

	select {
	case p := <-got:
		e := p.Embeds[0]
		if e.Title != "⚠️ Handler panic" {
			t.Errorf("Title = %q", e.Title)
		}
		if !strings.Contains(e.Description, "nil map write") {
			t.Errorf("Description %q does not carry the panic value", e.Description)
		}
		if len(e.Fields) != 1 || e.Fields[0].Name != "Stack" || !strings.Contains(e.Fields[0].Value, "goroutine 7") {
			t.Errorf("Fields = %+v, want the stack", e.Fields)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not called")
	}
}

func TestReportEmbedTruncatesStack(t *testing.T) {
	e := reportEmbed(Report{Title: "x", Stack: strings.Repeat("a", maxStackLen*2)}, time.Unix(0, 0))
	fields := e["fields"].([]map[string]interface{})
	value := fields[0]["value"].(string)
	if len(value) > maxStackLen+20 {
		t.Errorf("stack field is %d bytes, want it truncated near %d", len(value), maxStackLen)
	}
	if _, ok := reportEmbed(Report{Title: "x"}, time.Unix(0, 0))["fields"]; ok {
		t.Error("embed without document or stack should carry no fields")
	}
}

func TestOverloadShutsDownOnce(t *testing.T) {
	var (
		shutdowns int
		mu        sync.Mutex
		exited    = make(chan int, 2)
	)
	h := NewErrorHandler("", func() {
		mu.Lock()
		shutdowns++
		mu.Unlock()
	}, WithLimit(2, time.Minute), withExit(func(code int) { exited <- code }))
	defer h.Stop()

	for i := 0; i < 5; i++ {
		h.IncrementError()
	}

	select {
	case code := <-exited:
		if code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not exit after the failure burst")
	}

	select {
	case <-exited:
		t.Fatal("handler exited twice")
	case <-time.After(100 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	if shutdowns != 1 {
		t.Errorf("shutdown ran %d times, want 1", shutdowns)
	}
}

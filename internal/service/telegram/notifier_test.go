package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNotifierSend(t *testing.T) {
	var gotPath, gotText, gotMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotPath = r.URL.Path
		gotText = r.FormValue("text")
		gotMode = r.FormValue("parse_mode")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewNotifier("token123", "chat456", WithAPIURL(srv.URL))
	if err := n.Send(context.Background(), "<b>hello</b>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotPath != "/bottoken123/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotText != "<b>hello</b>" {
		t.Fatalf("unexpected text: %q", gotText)
	}
	if gotMode != "HTML" {
		t.Fatalf("unexpected parse mode: %q", gotMode)
	}
}

func TestNotifierTruncates(t *testing.T) {
	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotText = r.FormValue("text")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewNotifier("t", "c", WithAPIURL(srv.URL), WithMaxLength(10))
	if err := n.Send(context.Background(), strings.Repeat("x", 50)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(gotText) != 10 {
		t.Fatalf("expected truncation to 10 chars, got %d", len(gotText))
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	// ₹ is three bytes; a byte cap landing mid-rune must back off.
	text := "₹₹₹₹"
	for max := 1; max < len(text); max++ {
		got := truncate(text, max)
		if len(got) > max {
			t.Fatalf("truncate(%d) returned %d bytes", max, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%d) produced invalid UTF-8: %q", max, got)
		}
	}
	if got := truncate("plain", 100); got != "plain" {
		t.Fatalf("short text altered: %q", got)
	}
}

func TestNotifierAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	n := NewNotifier("t", "c", WithAPIURL(srv.URL))
	err := n.Send(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestNotifierMissingCredentials(t *testing.T) {
	n := NewNotifier("", "")
	if err := n.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("expected nil for missing credentials, got %v", err)
	}
}

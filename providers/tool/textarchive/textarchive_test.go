package textarchive

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestFetch_PlainText verifies that a plain-text document is returned as-is
// with correct character accounting.
func TestFetch_PlainText(t *testing.T) {
	const book = "It is a truth universally acknowledged, that a single man in possession of a good fortune, must be in want of a wife."
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, book)
	}))
	defer server.Close()

	output, err := Fetch(context.Background(), Input{URL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.Text != book {
		t.Errorf("unexpected text: %q", output.Text)
	}
	if output.TotalChars != len([]rune(book)) {
		t.Errorf("TotalChars: expected %d, got %d", len([]rune(book)), output.TotalChars)
	}
	if output.Truncated {
		t.Error("expected Truncated=false for a document under the limit")
	}
}

// TestFetch_Truncation verifies the caller-supplied character cap is applied
// and reported.
func TestFetch_Truncation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, strings.Repeat("x", 500))
	}))
	defer server.Close()

	output, err := Fetch(context.Background(), Input{URL: server.URL, MaxChars: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(output.Text) != 100 {
		t.Errorf("expected 100 chars, got %d", len(output.Text))
	}
	if output.TotalChars != 500 {
		t.Errorf("TotalChars: expected 500, got %d", output.TotalChars)
	}
	if !output.Truncated {
		t.Error("expected Truncated=true")
	}
}

// TestFetch_TruncationCountsRunes verifies the cap counts characters, not
// bytes, so multi-byte runes are never split.
func TestFetch_TruncationCountsRunes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, strings.Repeat("é", 10))
	}))
	defer server.Close()

	output, err := Fetch(context.Background(), Input{URL: server.URL, MaxChars: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.Text != "éééé" {
		t.Errorf("expected 4 whole runes, got %q", output.Text)
	}
	if output.TotalChars != 10 {
		t.Errorf("TotalChars: expected 10, got %d", output.TotalChars)
	}
}

// TestFetch_HTMLConvertedToMarkdown verifies HTML responses are converted
// before truncation.
func TestFetch_HTMLConvertedToMarkdown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body><h1>Chapter 1</h1><p>Some <strong>bold</strong> text.</p></body></html>")
	}))
	defer server.Close()

	output, err := Fetch(context.Background(), Input{URL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output.Text, "Chapter 1") {
		t.Errorf("expected heading text in output, got %q", output.Text)
	}
	if strings.Contains(output.Text, "<h1>") || strings.Contains(output.Text, "<p>") {
		t.Errorf("expected HTML tags stripped, got %q", output.Text)
	}
	if !strings.Contains(output.Text, "**bold**") {
		t.Errorf("expected Markdown emphasis, got %q", output.Text)
	}
}

// TestFetch_EmptyURL verifies an empty URL is rejected without a request.
func TestFetch_EmptyURL(t *testing.T) {
	_, err := Fetch(context.Background(), Input{URL: "   "})
	if err == nil {
		t.Fatal("expected error for empty URL, got nil")
	}
}

// TestFetch_HTTPError verifies a non-2xx status propagates as an error.
func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), Input{URL: server.URL})
	if err == nil {
		t.Fatal("expected error for 404 response, got nil")
	}
}

// TestNewTextArchiveTool verifies the tool wrapper exposes the expected
// metadata.
func TestNewTextArchiveTool(t *testing.T) {
	archiveTool := NewTextArchiveTool()

	if archiveTool.Name != "TextArchiveFetch" {
		t.Errorf("unexpected tool name %q", archiveTool.Name)
	}
	if archiveTool.Description == "" {
		t.Error("expected non-empty description")
	}
	if archiveTool.Parameters == nil {
		t.Error("expected generated parameter schema")
	}
}

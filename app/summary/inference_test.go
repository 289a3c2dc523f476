package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func newInferenceServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *InferenceClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewInferenceClient(InferenceConfig{
		BaseURL:   server.URL + "/models/",
		Model:     "sshleifer/distilbart-cnn-12-6",
		Token:     "test-token",
		UserAgent: "test-agent",
		Timeout:   5 * time.Second,
	})
	return server, client
}

func TestInferenceClient_Summarize(t *testing.T) {
	var got inferenceRequest
	var gotPath, gotAuth, gotAgent string

	_, client := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.UserAgent()
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"summary_text":"A short summary."}]`))
	})

	summaries, err := client.Summarize(context.Background(), "article text", Params{MaxLength: 150, MinLength: 50})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(summaries) != 1 || summaries[0] != "A short summary." {
		t.Errorf("Unexpected summaries: %v", summaries)
	}
	if gotPath != "/models/sshleifer/distilbart-cnn-12-6" {
		t.Errorf("Unexpected request path: %s", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Expected bearer token, got '%s'", gotAuth)
	}
	if gotAgent != "test-agent" {
		t.Errorf("Expected user agent 'test-agent', got '%s'", gotAgent)
	}
	if got.Inputs != "article text" {
		t.Errorf("Expected inputs 'article text', got '%s'", got.Inputs)
	}
	if got.Parameters.MaxLength != 150 || got.Parameters.MinLength != 50 || got.Parameters.DoSample {
		t.Errorf("Unexpected parameters: %+v", got.Parameters)
	}
	if !got.Options.WaitForModel {
		t.Error("Expected wait_for_model to be set")
	}
}

func TestInferenceClient_Summarize_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		errContains string
	}{
		{"api error", http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`, "Model is currently loading"},
		{"plain error", http.StatusBadRequest, `{}`, "status 400"},
		{"invalid json", http.StatusOK, `not-json`, "inference request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Summarize(context.Background(), "text", Params{})
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Expected error to contain '%s', got: %v", tt.errContains, err)
			}
		})
	}
}

func TestInferenceClient_Summarize_Empty(t *testing.T) {
	_, client := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	summaries, err := client.Summarize(context.Background(), "text", Params{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("Expected no summaries, got %v", summaries)
	}
}

func TestInferenceClient_Warmup(t *testing.T) {
	var calls int
	_, client := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"summary_text":"warm"}]`))
	})

	if err := client.Warmup(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 warm-up call, got %d", calls)
	}
}

func TestInferenceClient_WarmupFailure(t *testing.T) {
	_, client := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	if err := client.Warmup(context.Background()); err == nil {
		t.Error("Expected error when warm-up returns no output")
	}
}

func TestSummarizerWithInferenceClient(t *testing.T) {
	_, client := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"summary_text":"Deterministic summary."}]`))
	})

	summarizer, err := Load(context.Background(), client, 0)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	text := strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 10)
	first := summarizer.Run(context.Background(), text)
	second := summarizer.Run(context.Background(), text)

	if !first.OK() || first.Summary != "Deterministic summary." {
		t.Errorf("Unexpected result: %+v", first)
	}
	if first != second {
		t.Errorf("Expected repeatable results, got %+v and %+v", first, second)
	}
}

func TestResponseSnippet(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"empty", "  ", "<empty>"},
		{"short", " upstream timeout ", "upstream timeout"},
		{"long ascii", strings.Repeat("a", 600), strings.Repeat("a", 512) + "..."},
		{"cut inside rune", strings.Repeat("a", 511) + strings.Repeat("\u00e9", 10), strings.Repeat("a", 511) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := responseSnippet([]byte(tt.body))
			if got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Expected valid UTF-8 snippet, got %q", got)
			}
		})
	}
}

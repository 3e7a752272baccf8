package utils

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type valueResponse struct {
	Value int `json:"value"`
}

// TestDoPostSync_Success verifies that a 200 response with valid JSON is
// unmarshaled into the output struct and that the auth header is sent.
func TestDoPostSync_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		fmt.Fprint(w, `{"value":42}`)
	}))
	defer server.Close()

	_, result, err := DoPostSync[valueResponse](context.Background(), server.Client(), server.URL, "test-key", map[string]string{"q": "x"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result == nil || result.Value != 42 {
		t.Fatalf("result = %+v, want Value=42", result)
	}
}

// TestDoGetSync_NoAuthHeaderWithoutKey verifies that GET requests carry no
// body headers and no Authorization header when the key is empty.
func TestDoGetSync_NoAuthHeaderWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("unexpected Authorization header")
		}
		fmt.Fprint(w, `{"value":7}`)
	}))
	defer server.Close()

	_, result, err := DoGetSync[valueResponse](context.Background(), nil, server.URL, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Value != 7 {
		t.Errorf("Value = %d, want 7", result.Value)
	}
}

// TestDoPostSync_Non2xxStatus verifies that a non-2xx HTTP status causes
// an error that includes the status code.
func TestDoPostSync_Non2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "bad request")
	}))
	defer server.Close()

	_, _, err := DoPostSync[valueResponse](context.Background(), server.Client(), server.URL, "", map[string]string{})
	if err == nil {
		t.Fatal("expected error for 400 response, got nil")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("expected error to contain status code 400, got: %v", err)
	}
}

// TestDoPostSync_UnmarshalError verifies that an undecodable 200 body returns
// an error mentioning "unmarshal".
func TestDoPostSync_UnmarshalError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	_, _, err := DoPostSync[valueResponse](context.Background(), server.Client(), server.URL, "", nil)
	if err == nil || !strings.Contains(err.Error(), "unmarshal") {
		t.Fatalf("expected unmarshal error, got %v", err)
	}
}

// TestDoPostSync_ConnectionRefused verifies that a transport failure is
// reported as an error rather than a panic.
func TestDoPostSync_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, _, err := DoPostSync[valueResponse](context.Background(), nil, url, "", nil)
	if err == nil || !strings.Contains(err.Error(), "error sending request") {
		t.Fatalf("expected send error, got %v", err)
	}
}

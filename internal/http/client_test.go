package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["batch_id"] != "song-1234" {
			t.Errorf("batch_id = %q, want %q", req["batch_id"], "song-1234")
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)

	var resp map[string]string
	err := client.PostJSON(context.Background(), server.URL, map[string]string{"batch_id": "song-1234"}, &resp)
	if err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if resp["status"] != "success" {
		t.Errorf("status = %q, want %q", resp["status"], "success")
	}
}

func TestPostJSON_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)

	err := client.PostJSON(context.Background(), server.URL, map[string]string{}, nil)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusBadGateway {
		t.Errorf("Code = %d, want %d", statusErr.Code, http.StatusBadGateway)
	}
}

func TestDownloadFile(t *testing.T) {
	content := []byte("stem audio bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "vocals.wav")
	client := NewClient(5 * time.Second)

	var lastWritten int64
	err := client.DownloadFile(context.Background(), server.URL, dest, func(written, total int64) {
		lastWritten = written
	})
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("file content = %q, want %q", got, content)
	}
	if lastWritten != int64(len(content)) {
		t.Errorf("progress written = %d, want %d", lastWritten, len(content))
	}
}

func TestDownloadFile_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "missing.wav")
	client := NewClient(5 * time.Second)

	if err := client.DownloadFile(context.Background(), server.URL, dest, nil); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

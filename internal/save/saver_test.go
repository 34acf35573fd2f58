package save

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	shttp "github.com/EricDisero/stemfetch/internal/http"
	"github.com/EricDisero/stemfetch/internal/model"
)

func saveManifest(t *testing.T) *model.Manifest {
	t.Helper()
	cfg := &model.PathConfig{
		DownloadsPath:  t.TempDir(),
		FileNameFormat: "{stem}.wav",
	}
	return model.NewManifest("Song", model.StandardStems(), cfg)
}

func TestSave_TransfersInBackground(t *testing.T) {
	content := []byte("vocal stem audio")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer server.Close()

	manifest := saveManifest(t)
	stem := manifest.Stem("vocals")

	var mu sync.Mutex
	var results []error
	saver := NewFileSaver(shttp.NewClient(5*time.Second), 2)
	saver.OnResult = func(s *model.Stem, err error) {
		mu.Lock()
		results = append(results, err)
		mu.Unlock()
	}

	err := saver.Save(context.Background(), stem, model.ResolvedLocation{Name: "vocals", Location: server.URL})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := saver.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	got, err := os.ReadFile(stem.Path)
	if err != nil {
		t.Fatalf("read stem file: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("stem content = %q, want %q", got, content)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 1 || results[0] != nil {
		t.Errorf("OnResult calls = %v, want one nil", results)
	}
}

func TestSave_RejectsBadLocation(t *testing.T) {
	manifest := saveManifest(t)
	saver := NewFileSaver(shttp.NewClient(5*time.Second), 2)

	tests := []struct {
		name     string
		location string
	}{
		{"relative URL", "not-a-url"},
		{"file scheme", "file:///etc/passwd"},
		{"control char", "http://host/\x00path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := saver.Save(context.Background(), manifest.Stem("kick"), model.ResolvedLocation{
				Name:     "kick",
				Location: tt.location,
			})
			if err == nil {
				t.Error("expected initiation error")
			}
		})
	}
}

func TestSave_FailedTransferRemovesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden) // signed URL expired
	}))
	defer server.Close()

	manifest := saveManifest(t)
	stem := manifest.Stem("hats")

	saver := NewFileSaver(shttp.NewClient(5*time.Second), 2)

	if err := saver.Save(context.Background(), stem, model.ResolvedLocation{Name: "hats", Location: server.URL}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := saver.Wait(); err == nil {
		t.Fatal("expected transfer error from Wait")
	}

	if _, err := os.Stat(stem.Path); !os.IsNotExist(err) {
		t.Errorf("expected truncated stem file to be removed, stat err = %v", err)
	}
}

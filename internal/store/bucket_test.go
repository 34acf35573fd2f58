package store

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/EricDisero/stemfetch/internal/model"
	"github.com/EricDisero/stemfetch/internal/splitter"
)

func openMemBucket(t *testing.T) *blob.Bucket {
	t.Helper()
	bucket, err := blob.OpenBucket(context.Background(), "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	t.Cleanup(func() { bucket.Close() })
	return bucket
}

// openSigningBucket opens a fileblob bucket with an HMAC URL signer so
// SignedURL works without any cloud credentials.
func openSigningBucket(t *testing.T) *blob.Bucket {
	t.Helper()

	base, err := url.Parse("http://localhost/stems")
	if err != nil {
		t.Fatal(err)
	}
	signer := fileblob.NewURLSignerHMAC(base, []byte("test-secret"))

	bucket, err := fileblob.OpenBucket(t.TempDir(), &fileblob.Options{URLSigner: signer})
	if err != nil {
		t.Fatalf("open fileblob bucket: %v", err)
	}
	t.Cleanup(func() { bucket.Close() })
	return bucket
}

func storeManifest(t *testing.T) *model.Manifest {
	t.Helper()
	cfg := &model.PathConfig{
		DownloadsPath:  t.TempDir(),
		FileNameFormat: "{stem}.wav",
	}
	return model.NewManifest("Song", []model.StemSpec{
		{Name: "vocals", Category: model.CategoryVocal, Label: "Vocals"},
		{Name: "kick", Category: model.CategoryKick, Label: "Kick"},
	}, cfg)
}

func TestResolve_SignedURLs(t *testing.T) {
	ctx := context.Background()
	bucket := openSigningBucket(t)

	if err := bucket.WriteAll(ctx, Key("song-1234", "vocals"), []byte("audio"), nil); err != nil {
		t.Fatalf("seed object: %v", err)
	}

	b := NewBucket(bucket, time.Minute)

	locations, err := b.Resolve(ctx, "song-1234", []string{"vocals"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(locations) != 1 {
		t.Fatalf("len(locations) = %d, want 1", len(locations))
	}
	if locations[0].Name != "vocals" {
		t.Errorf("Name = %q, want vocals", locations[0].Name)
	}
	if !strings.Contains(locations[0].Location, "signature") && !strings.Contains(locations[0].Location, "sig") {
		t.Errorf("Location %q does not look signed", locations[0].Location)
	}
}

func TestResolve_OmitsMissingObjects(t *testing.T) {
	ctx := context.Background()
	bucket := openSigningBucket(t)

	if err := bucket.WriteAll(ctx, Key("song-1234", "kick"), []byte("audio"), nil); err != nil {
		t.Fatalf("seed object: %v", err)
	}

	b := NewBucket(bucket, time.Minute)

	locations, err := b.Resolve(ctx, "song-1234", []string{"vocals", "kick"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(locations) != 1 || locations[0].Name != "kick" {
		t.Errorf("locations = %+v, want only kick", locations)
	}
}

func TestResolve_EmptyNames(t *testing.T) {
	b := NewBucket(openMemBucket(t), time.Minute)

	_, err := b.Resolve(context.Background(), "song-1234", nil)

	var resolveErr *splitter.ResolveError
	if !errors.As(err, &resolveErr) {
		t.Fatalf("expected ResolveError, got %v", err)
	}
	if resolveErr.Kind != splitter.KindEmpty {
		t.Errorf("Kind = %v, want KindEmpty", resolveErr.Kind)
	}
}

func TestCleanup_DeletesBatchObjects(t *testing.T) {
	ctx := context.Background()
	bucket := openMemBucket(t)
	manifest := storeManifest(t)

	for _, name := range manifest.Names() {
		if err := bucket.WriteAll(ctx, Key(manifest.BatchID, name), []byte("audio"), nil); err != nil {
			t.Fatalf("seed object: %v", err)
		}
	}

	b := NewBucket(bucket, time.Minute)

	if err := b.Cleanup(ctx, manifest); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	for _, name := range manifest.Names() {
		exists, err := bucket.Exists(ctx, Key(manifest.BatchID, name))
		if err != nil {
			t.Fatalf("Exists: %v", err)
		}
		if exists {
			t.Errorf("object %s still exists after cleanup", name)
		}
	}
}

func TestCleanup_Idempotent(t *testing.T) {
	ctx := context.Background()
	bucket := openMemBucket(t)
	manifest := storeManifest(t)

	b := NewBucket(bucket, time.Minute)

	// Nothing was ever written; cleanup must still succeed.
	if err := b.Cleanup(ctx, manifest); err != nil {
		t.Fatalf("Cleanup of empty batch: %v", err)
	}
	if err := b.Cleanup(ctx, manifest); err != nil {
		t.Fatalf("repeated Cleanup: %v", err)
	}
}

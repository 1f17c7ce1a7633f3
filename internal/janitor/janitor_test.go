package janitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/autohouse-service/internal/services/media"
	"github.com/princekumarofficial/autohouse-service/internal/storage/memory"
	mediaTypes "github.com/princekumarofficial/autohouse-service/internal/types/media"
	"github.com/princekumarofficial/autohouse-service/internal/types/offers"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storeFile(t *testing.T, svc *media.Service, ref uuid.UUID, key string) {
	t.Helper()
	_, err := svc.Store(context.Background(), mediaTypes.StoreRequest{
		Data:        []byte("jpeg"),
		FileKey:     key,
		Function:    mediaTypes.FunctionUserProfileImage,
		ContentType: "image/jpeg",
		ReferenceID: ref,
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
}

func TestSweepRemovesOnlyOrphans(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := media.NewService(store, media.NewRegistry(media.NewFolderBackend(t.TempDir())), nil)

	offer := offers.Offer{Title: "kept"}
	if err := store.CreateOffer(ctx, &offer); err != nil {
		t.Fatalf("CreateOffer failed: %v", err)
	}
	orphan := uuid.New()

	storeFile(t, svc, offer.ID, "kept/a.jpg")
	storeFile(t, svc, orphan, "gone/a.jpg")
	storeFile(t, svc, orphan, "gone/b.jpg")

	j := New(store, svc, time.Minute, quietLogger())
	if removed := j.Sweep(ctx); removed != 2 {
		t.Errorf("Expected 2 files removed, got %d", removed)
	}

	if files, _ := svc.LoadForReference(ctx, orphan); len(files) != 0 {
		t.Errorf("Expected orphan files gone, got %d", len(files))
	}
	if files, _ := svc.LoadForReference(ctx, offer.ID); len(files) != 1 {
		t.Errorf("Expected offer files kept, got %d", len(files))
	}

	if removed := j.Sweep(ctx); removed != 0 {
		t.Errorf("Expected nothing left to remove, got %d", removed)
	}
}

type stubRefs struct {
	refs []uuid.UUID
	err  error
}

func (s stubRefs) OrphanedReferences(context.Context) ([]uuid.UUID, error) {
	return s.refs, s.err
}

type stubRemover struct {
	fail  uuid.UUID
	calls []uuid.UUID
}

func (s *stubRemover) RemoveAllForReference(_ context.Context, ref uuid.UUID) (int, error) {
	s.calls = append(s.calls, ref)
	if ref == s.fail {
		return 0, errors.New("backend down")
	}
	return 1, nil
}

func TestSweepContinuesAfterFailure(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	remover := &stubRemover{fail: b}

	j := New(stubRefs{refs: []uuid.UUID{a, b, c}}, remover, time.Minute, quietLogger())
	if removed := j.Sweep(context.Background()); removed != 2 {
		t.Errorf("Expected 2 files removed, got %d", removed)
	}
	if len(remover.calls) != 3 {
		t.Errorf("Expected every reference visited, got %d", len(remover.calls))
	}
}

func TestSweepListFailure(t *testing.T) {
	remover := &stubRemover{}
	j := New(stubRefs{err: errors.New("db down")}, remover, time.Minute, quietLogger())
	if removed := j.Sweep(context.Background()); removed != 0 {
		t.Errorf("Expected 0 files removed, got %d", removed)
	}
	if len(remover.calls) != 0 {
		t.Errorf("Expected no removals, got %d", len(remover.calls))
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	remover := &stubRemover{}
	j := New(stubRefs{refs: []uuid.UUID{uuid.New()}}, remover, time.Hour, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

package media

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/autohouse-service/internal/storage/memory"
	"github.com/princekumarofficial/autohouse-service/internal/types"
	mediaTypes "github.com/princekumarofficial/autohouse-service/internal/types/media"
)

type failingBackend struct {
	fakeBackend
}

func (f *failingBackend) Store(context.Context, mediaTypes.MediaFile, io.Reader) error {
	return errors.New("disk full")
}

func newTestService(t *testing.T) (*Service, *memory.Store, string) {
	t.Helper()
	root := t.TempDir()
	store := memory.New()
	svc := NewService(store, NewRegistry(NewFolderBackend(root)), []string{"image/jpeg", "image/png"})
	return svc, store, root
}

func TestService_StoreFallsBackAndLoads(t *testing.T) {
	svc, _, root := newTestService(t)
	ctx := context.Background()
	ref := uuid.New()

	file, err := svc.Store(ctx, mediaTypes.StoreRequest{
		Data:        []byte("picture"),
		FileKey:     "offer-images-folder/2024/01/02/x/pic.jpg",
		Function:    mediaTypes.FunctionOfferImage,
		ContentType: "image/jpeg",
		ReferenceID: ref,
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if file.StorageType != mediaTypes.StorageLocalFolder {
		t.Fatalf("Expected fallback to LOCAL_FOLDER, got %s", file.StorageType)
	}
	if file.Bucket != "offer-images" || file.Size != 7 {
		t.Fatalf("Unexpected metadata %+v", file)
	}

	data, _, err := svc.Bytes(ctx, file.ID)
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if string(data) != "picture" {
		t.Fatalf("Expected stored bytes, got %q", data)
	}

	exists, err := svc.Exists(ctx, mediaTypes.FunctionOfferImage, file.FileKey)
	if err != nil || !exists {
		t.Fatalf("Expected file to exist, got %v %v", exists, err)
	}

	byKey, err := svc.LoadByKey(ctx, mediaTypes.FunctionOfferImage, file.FileKey)
	if err != nil || byKey.ID != file.ID {
		t.Fatalf("LoadByKey returned %+v, %v", byKey, err)
	}

	target := filepath.Join(root, "downloads", "copy.jpg")
	if err := svc.DownloadTo(ctx, file.ID, target); err != nil {
		t.Fatalf("DownloadTo failed: %v", err)
	}
	copied, err := os.ReadFile(target)
	if err != nil || string(copied) != "picture" {
		t.Fatalf("Unexpected download %q, %v", copied, err)
	}
}

func TestService_StoreRejectsContentType(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Store(context.Background(), mediaTypes.StoreRequest{
		Data:        []byte("x"),
		FileKey:     "a.pdf",
		Function:    mediaTypes.FunctionOfferImage,
		ContentType: "application/pdf",
	})
	if !errors.Is(err, types.ErrUnsupportedMediaType) {
		t.Fatalf("Expected ErrUnsupportedMediaType, got %v", err)
	}
}

func TestService_StoreNotConfigured(t *testing.T) {
	svc := NewService(memory.New(), NewRegistry(), nil)

	_, err := svc.Store(context.Background(), mediaTypes.StoreRequest{
		Data:     []byte("x"),
		FileKey:  "a.png",
		Function: mediaTypes.FunctionUserProfileImage,
	})
	if !errors.Is(err, types.ErrStorageNotConfigured) {
		t.Fatalf("Expected ErrStorageNotConfigured, got %v", err)
	}
}

func TestService_StoreFailureIsReturnedAndRowRemoved(t *testing.T) {
	store := memory.New()
	backend := &failingBackend{fakeBackend{kind: mediaTypes.StorageRemoteBucket, configured: true}}
	svc := NewService(store, NewRegistry(backend), nil)
	ctx := context.Background()

	_, err := svc.Store(ctx, mediaTypes.StoreRequest{
		Data:        []byte("x"),
		FileKey:     "k.png",
		Function:    mediaTypes.FunctionOfferImage,
		ContentType: "image/png",
	})
	if err == nil {
		t.Fatal("Expected store failure to be returned")
	}

	exists, err := store.MediaFileExists(ctx, "offer-images", "k.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if exists {
		t.Fatal("Expected metadata row to be removed after failed store")
	}
}

// toggleBackend stores in memory until failing is set.
type toggleBackend struct {
	fakeBackend
	failing bool
	data    map[string][]byte
}

func (b *toggleBackend) Store(_ context.Context, file mediaTypes.MediaFile, r io.Reader) error {
	if b.failing {
		return errors.New("io")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.data[file.Bucket+"/"+file.FileKey] = data
	return nil
}

func (b *toggleBackend) Retrieve(_ context.Context, file mediaTypes.MediaFile, w io.Writer) error {
	_, err := w.Write(b.data[file.Bucket+"/"+file.FileKey])
	return err
}

func TestService_FailedOverwriteKeepsExistingRow(t *testing.T) {
	store := memory.New()
	backend := &toggleBackend{
		fakeBackend: fakeBackend{kind: mediaTypes.StorageRemoteBucket, configured: true},
		data:        map[string][]byte{},
	}
	svc := NewService(store, NewRegistry(backend), nil)
	ctx := context.Background()
	refA, refB := uuid.New(), uuid.New()

	original, err := svc.Store(ctx, mediaTypes.StoreRequest{
		Data:             []byte("abc"),
		FileKey:          "k",
		Function:         mediaTypes.FunctionOfferImage,
		ContentType:      "image/png",
		OriginalFilename: "a.png",
		ReferenceID:      refA,
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	backend.failing = true
	_, err = svc.Store(ctx, mediaTypes.StoreRequest{
		Data:             []byte("0123456789"),
		FileKey:          "k",
		Function:         mediaTypes.FunctionOfferImage,
		ContentType:      "image/jpeg",
		OriginalFilename: "b.jpg",
		ReferenceID:      refB,
	})
	if err == nil {
		t.Fatal("Expected store failure to be returned")
	}

	row, err := store.GetMediaFileByKey(ctx, "offer-images", "k")
	if err != nil {
		t.Fatalf("Expected existing row to survive, got %v", err)
	}
	if row.ID != original.ID || row.Size != 3 || row.ContentType != "image/png" ||
		row.OriginalFilename != "a.png" || row.ReferenceID != refA || !row.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("Expected row %+v unchanged, got %+v", original, row)
	}

	files, err := svc.LoadForReference(ctx, refA)
	if err != nil || len(files) != 1 {
		t.Fatalf("Expected the file to stay with its reference, got %d files, %v", len(files), err)
	}
	if files, _ := svc.LoadForReference(ctx, refB); len(files) != 0 {
		t.Fatalf("Expected nothing under the failed reference, got %d", len(files))
	}

	data, _, err := svc.Bytes(ctx, original.ID)
	if err != nil || string(data) != "abc" {
		t.Fatalf("Expected original bytes, got %q, %v", data, err)
	}
}

func TestService_RemoveAllForReference(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	ref := uuid.New()
	other := uuid.New()

	for _, key := range []string{"a.png", "b.png"} {
		if _, err := svc.Store(ctx, mediaTypes.StoreRequest{
			Data: []byte(key), FileKey: key, Function: mediaTypes.FunctionOfferImage,
			ContentType: "image/png", ReferenceID: ref,
		}); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}
	kept, err := svc.Store(ctx, mediaTypes.StoreRequest{
		Data: []byte("c"), FileKey: "c.png", Function: mediaTypes.FunctionOfferImage,
		ContentType: "image/png", ReferenceID: other,
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	removed, err := svc.RemoveAllForReference(ctx, ref)
	if err != nil {
		t.Fatalf("RemoveAllForReference failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("Expected 2 removed files, got %d", removed)
	}

	left, err := svc.LoadForReference(ctx, ref)
	if err != nil || len(left) != 0 {
		t.Fatalf("Expected no files left, got %d (%v)", len(left), err)
	}
	if _, err := svc.Load(ctx, kept.ID); err != nil {
		t.Fatalf("Expected other reference to be untouched: %v", err)
	}
}

func TestService_Remove(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	file, err := svc.Store(ctx, mediaTypes.StoreRequest{
		Data: []byte("x"), FileKey: "x.png", Function: mediaTypes.FunctionUserProfileImage, ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if err := svc.Remove(ctx, file.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := svc.Load(ctx, file.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

type presigningBackend struct {
	fakeBackend
}

func (p *presigningBackend) PresignedURL(_ context.Context, file mediaTypes.MediaFile, _ time.Duration) (*url.URL, error) {
	return &url.URL{Scheme: "https", Host: "bucket.example", Path: "/" + file.Bucket + "/" + file.FileKey}, nil
}

func TestService_PresignedURL(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	remote := &presigningBackend{fakeBackend{kind: mediaTypes.StorageRemoteBucket, configured: true}}
	folder := NewFolderBackend(t.TempDir())
	svc := NewService(store, NewRegistry(remote, folder), nil)

	remoteFile, err := svc.Store(ctx, mediaTypes.StoreRequest{
		Data: []byte("a"), FileKey: "k/a.jpg", Function: mediaTypes.FunctionOfferImage, ReferenceID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	link, ok, err := svc.PresignedURL(ctx, remoteFile.ID, time.Minute)
	if err != nil || !ok {
		t.Fatalf("Expected presigned link, got ok=%v err=%v", ok, err)
	}
	if link != "https://bucket.example/offer-images/k/a.jpg" {
		t.Errorf("Unexpected link %q", link)
	}

	folderFile, err := svc.Store(ctx, mediaTypes.StoreRequest{
		Data: []byte("b"), FileKey: "k/b.jpg", Function: mediaTypes.FunctionUserProfileImage, ReferenceID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if _, ok, err := svc.PresignedURL(ctx, folderFile.ID, time.Minute); err != nil || ok {
		t.Errorf("Expected no presigned link for folder storage, got ok=%v err=%v", ok, err)
	}

	if _, _, err := svc.PresignedURL(ctx, uuid.New(), time.Minute); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

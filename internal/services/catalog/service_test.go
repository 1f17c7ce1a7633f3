package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/princekumarofficial/autohouse-service/internal/services/catalog"
	"github.com/princekumarofficial/autohouse-service/internal/storage/memory"
	"github.com/princekumarofficial/autohouse-service/internal/types"
	catalogTypes "github.com/princekumarofficial/autohouse-service/internal/types/catalog"
)

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCatalog(context.Context) {
	c.calls++
}

func newService(t *testing.T) (*catalog.Service, *memory.Store, *countingInvalidator) {
	t.Helper()
	store := memory.New()
	inv := &countingInvalidator{}
	svc := catalog.NewService(store, catalog.NewImporter(store, 50, quietLogger()), inv)
	return svc, store, inv
}

func TestService_CreateMaker(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	maker, err := svc.CreateMaker(ctx, "  Skoda ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if maker.ID == 0 || maker.Name != "Skoda" {
		t.Fatalf("Unexpected maker %+v", maker)
	}

	if _, err := svc.CreateMaker(ctx, "Skoda"); !errors.Is(err, types.ErrAlreadyExists) {
		t.Fatalf("Expected ErrAlreadyExists, got %v", err)
	}
}

func TestService_AddModelToMaker(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	maker, err := svc.CreateMaker(ctx, "Opel")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	updated, err := svc.AddModelToMaker(ctx, maker.ID, "Astra")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(updated.Models) != 1 || updated.Models[0].Name != "Astra" {
		t.Fatalf("Unexpected models %+v", updated.Models)
	}

	if _, err := svc.AddModelToMaker(ctx, maker.ID, "Astra"); !errors.Is(err, types.ErrAlreadyExists) {
		t.Fatalf("Expected ErrAlreadyExists, got %v", err)
	}
	if _, err := svc.AddModelToMaker(ctx, 999, "Corsa"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestService_GetModel(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.GetModel(ctx, "Nope", "Nada"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestService_ImportInvalidatesCache(t *testing.T) {
	svc, _, inv := newService(t)
	ctx := context.Background()

	count, err := svc.Import(ctx, []catalogTypes.MakerImportRequest{{Name: "Kia"}, {Name: "Hyundai"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 makers, got %d", count)
	}
	if inv.calls != 1 {
		t.Fatalf("Expected 1 invalidation, got %d", inv.calls)
	}

	if _, err := svc.Import(ctx, []catalogTypes.MakerImportRequest{{Name: "Kia"}}); err == nil {
		t.Fatal("Expected duplicate import to fail")
	}
	if inv.calls != 1 {
		t.Fatalf("Expected failed import not to invalidate, got %d calls", inv.calls)
	}

	makers, err := svc.ListMakersWithModels(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(makers) != 2 || makers[0].Name != "Hyundai" {
		t.Fatalf("Unexpected makers %+v", makers)
	}
}

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/princekumarofficial/autohouse-service/internal/storage"
	"github.com/princekumarofficial/autohouse-service/internal/types"
	catalogTypes "github.com/princekumarofficial/autohouse-service/internal/types/catalog"
)

// Invalidator drops cached catalog reads after a bulk write.
type Invalidator interface {
	InvalidateCatalog(ctx context.Context)
}

// Service implements maker/model/trim catalog operations on top of a
// storage.Catalog, which may be the cached decorator.
type Service struct {
	store       storage.Catalog
	importer    *Importer
	invalidator Invalidator
}

func NewService(store storage.Catalog, importer *Importer, invalidator Invalidator) *Service {
	return &Service{
		store:       store,
		importer:    importer,
		invalidator: invalidator,
	}
}

func (s *Service) CreateMaker(ctx context.Context, name string) (catalogTypes.Maker, error) {
	name = strings.TrimSpace(name)
	exists, err := s.store.MakerExistsByName(ctx, name)
	if err != nil {
		return catalogTypes.Maker{}, err
	}
	if exists {
		return catalogTypes.Maker{}, fmt.Errorf("maker %q: %w", name, types.ErrAlreadyExists)
	}
	return s.store.CreateMaker(ctx, name)
}

// AddModelToMaker creates a model under an existing maker and returns the
// maker with its updated model list.
func (s *Service) AddModelToMaker(ctx context.Context, makerID int64, name string) (catalogTypes.Maker, error) {
	name = strings.TrimSpace(name)
	if _, err := s.store.GetMakerByID(ctx, makerID); err != nil {
		return catalogTypes.Maker{}, err
	}

	exists, err := s.store.ModelExistsByNameAndMaker(ctx, name, makerID)
	if err != nil {
		return catalogTypes.Maker{}, err
	}
	if exists {
		return catalogTypes.Maker{}, fmt.Errorf("model %q: %w", name, types.ErrAlreadyExists)
	}

	if _, err := s.store.CreateModel(ctx, makerID, name); err != nil {
		return catalogTypes.Maker{}, err
	}
	return s.store.GetMakerByID(ctx, makerID)
}

func (s *Service) GetMaker(ctx context.Context, id int64) (catalogTypes.Maker, error) {
	return s.store.GetMakerByID(ctx, id)
}

func (s *Service) ListMakersWithModels(ctx context.Context) ([]catalogTypes.Maker, error) {
	return s.store.ListMakersWithModels(ctx)
}

func (s *Service) ListModelsWithTrims(ctx context.Context, makerID int64) ([]catalogTypes.Model, error) {
	return s.store.ListModelsWithTrims(ctx, makerID)
}

func (s *Service) GetModel(ctx context.Context, makerName, modelName string) (catalogTypes.Model, error) {
	return s.store.GetModelByNames(ctx, makerName, modelName)
}

// Import runs a bulk import and invalidates cached catalog reads on success.
func (s *Service) Import(ctx context.Context, requests []catalogTypes.MakerImportRequest) (int, error) {
	count, err := s.importer.Import(ctx, requests)
	if err != nil {
		return 0, err
	}
	if s.invalidator != nil {
		s.invalidator.InvalidateCatalog(ctx)
	}
	return count, nil
}

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/autohouse-service/internal/storage"
	catalogTypes "github.com/princekumarofficial/autohouse-service/internal/types/catalog"
)

const DefaultBatchSize = 50

// Importer persists nested maker → model → trim requests. Trims are flushed
// and the session cleared every BatchSize trims so the set of tracked
// entities stays bounded no matter how large the import is.
type Importer struct {
	sessions  storage.ImportSessions
	batchSize int
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewImporter(sessions storage.ImportSessions, batchSize int, logger *slog.Logger) *Importer {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		sessions:  sessions,
		batchSize: batchSize,
		validate:  validator.New(),
		logger:    logger,
	}
}

func (im *Importer) BatchSize() int {
	return im.batchSize
}

// Import persists every request in a single transaction and returns the number
// of makers stored afterwards. Any failure, including a duplicate maker or
// model name, aborts the whole import.
func (im *Importer) Import(ctx context.Context, requests []catalogTypes.MakerImportRequest) (int, error) {
	for i := range requests {
		if err := im.validate.Struct(requests[i]); err != nil {
			return 0, fmt.Errorf("maker request %d: %w", i, err)
		}
	}

	start := time.Now()
	var (
		count  int
		cycles int
		trims  int
	)

	err := im.sessions.InImportSession(ctx, func(s storage.ImportSession) error {
		for _, makerReq := range requests {
			maker := &catalogTypes.Maker{Name: makerReq.Name}
			if err := s.PersistMaker(ctx, maker); err != nil {
				return fmt.Errorf("persist maker %q: %w", makerReq.Name, err)
			}
			makerID := maker.ID

			for _, modelReq := range makerReq.Models {
				model := &catalogTypes.Model{Name: modelReq.Name, MakerID: makerID}
				if err := s.PersistModel(ctx, model); err != nil {
					return fmt.Errorf("persist model %q of maker %q: %w", modelReq.Name, makerReq.Name, err)
				}
				modelID := model.ID
				maker.Models = append(maker.Models, catalogTypes.Model{ID: modelID, Name: model.Name, MakerID: makerID})

				last := len(modelReq.Trims) - 1
				for j, trimReq := range modelReq.Trims {
					trim := &catalogTypes.Trim{Year: trimReq.Year, Name: trimReq.Name, ModelID: modelID}
					if err := s.AddTrim(ctx, trim); err != nil {
						return fmt.Errorf("add trim %d %q to model %q: %w", trimReq.Year, trimReq.Name, modelReq.Name, err)
					}
					model.Trims = append(model.Trims, *trim)
					trims++

					if (j+1)%im.batchSize != 0 && j != last {
						continue
					}
					if err := s.Flush(ctx); err != nil {
						return fmt.Errorf("flush trims of model %q: %w", modelReq.Name, err)
					}
					s.Clear()
					cycles++
					maker = s.MakerRef(makerID)
					model = s.ModelRef(modelID)
				}
			}
		}

		n, err := s.CountMakers(ctx)
		if err != nil {
			return fmt.Errorf("count makers: %w", err)
		}
		count = n
		return nil
	})
	if err != nil {
		im.logger.Error("Catalog import failed",
			slog.Int("makers_requested", len(requests)),
			slog.String("error", err.Error()))
		return 0, err
	}

	im.logger.Info("Catalog import completed",
		slog.Int("makers_requested", len(requests)),
		slog.Int("trims", trims),
		slog.Int("flush_cycles", cycles),
		slog.Int("batch_size", im.batchSize),
		slog.Int("maker_count", count),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return count, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/princekumarofficial/autohouse-service/internal/types/catalog"
)

func (p *Postgres) CreateMaker(ctx context.Context, name string) (catalog.Maker, error) {
	maker := catalog.Maker{Name: name}
	err := p.Db.QueryRowContext(ctx,
		`INSERT INTO makers (name) VALUES ($1) RETURNING id`, name,
	).Scan(&maker.ID)
	if err != nil {
		return catalog.Maker{}, mapError(err, fmt.Sprintf("maker %q", name))
	}
	return maker, nil
}

func (p *Postgres) MakerExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := p.Db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM makers WHERE name = $1)`, name,
	).Scan(&exists)
	return exists, err
}

func (p *Postgres) GetMakerByID(ctx context.Context, id int64) (catalog.Maker, error) {
	maker := catalog.Maker{ID: id}
	err := p.Db.QueryRowContext(ctx, `SELECT name FROM makers WHERE id = $1`, id).Scan(&maker.Name)
	if err != nil {
		return catalog.Maker{}, mapError(err, fmt.Sprintf("maker %d", id))
	}

	rows, err := p.Db.QueryContext(ctx,
		`SELECT id, name FROM models WHERE maker_id = $1 ORDER BY id`, id)
	if err != nil {
		return catalog.Maker{}, err
	}
	defer rows.Close()

	for rows.Next() {
		m := catalog.Model{MakerID: id}
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return catalog.Maker{}, err
		}
		maker.Models = append(maker.Models, m)
	}
	return maker, rows.Err()
}

func (p *Postgres) ListMakersWithModels(ctx context.Context) ([]catalog.Maker, error) {
	rows, err := p.Db.QueryContext(ctx, `
	SELECT mk.id, mk.name, md.id, md.name
	FROM makers mk
	LEFT JOIN models md ON md.maker_id = mk.id
	ORDER BY mk.name, md.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var makers []catalog.Maker
	index := make(map[int64]int)
	for rows.Next() {
		var (
			makerID   int64
			makerName string
			modelID   *int64
			modelName *string
		)
		if err := rows.Scan(&makerID, &makerName, &modelID, &modelName); err != nil {
			return nil, err
		}

		i, ok := index[makerID]
		if !ok {
			makers = append(makers, catalog.Maker{ID: makerID, Name: makerName})
			i = len(makers) - 1
			index[makerID] = i
		}
		if modelID != nil {
			makers[i].Models = append(makers[i].Models, catalog.Model{ID: *modelID, Name: *modelName, MakerID: makerID})
		}
	}
	return makers, rows.Err()
}

func (p *Postgres) CreateModel(ctx context.Context, makerID int64, name string) (catalog.Model, error) {
	model := catalog.Model{Name: name, MakerID: makerID}
	err := p.Db.QueryRowContext(ctx,
		`INSERT INTO models (name, maker_id) VALUES ($1, $2) RETURNING id`, name, makerID,
	).Scan(&model.ID)
	if err != nil {
		return catalog.Model{}, mapError(err, fmt.Sprintf("model %q", name))
	}
	return model, nil
}

func (p *Postgres) ModelExistsByNameAndMaker(ctx context.Context, name string, makerID int64) (bool, error) {
	var exists bool
	err := p.Db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM models WHERE name = $1 AND maker_id = $2)`, name, makerID,
	).Scan(&exists)
	return exists, err
}

func (p *Postgres) ListModelsWithTrims(ctx context.Context, makerID int64) ([]catalog.Model, error) {
	rows, err := p.Db.QueryContext(ctx, `
	SELECT md.id, md.name, t.id, t.year, t.name
	FROM models md
	LEFT JOIN trims t ON t.model_id = md.id
	WHERE md.maker_id = $1
	ORDER BY md.id, t.year, t.id
	`, makerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanModelsWithTrims(rows, makerID)
}

func (p *Postgres) GetModelByNames(ctx context.Context, makerName, modelName string) (catalog.Model, error) {
	var model catalog.Model
	err := p.Db.QueryRowContext(ctx, `
	SELECT md.id, md.name, md.maker_id
	FROM models md
	JOIN makers mk ON mk.id = md.maker_id
	WHERE LOWER(mk.name) = LOWER($1) AND LOWER(md.name) = LOWER($2)
	`, makerName, modelName).Scan(&model.ID, &model.Name, &model.MakerID)
	if err != nil {
		return catalog.Model{}, mapError(err, fmt.Sprintf("model %s/%s", makerName, modelName))
	}

	rows, err := p.Db.QueryContext(ctx,
		`SELECT id, year, name FROM trims WHERE model_id = $1 ORDER BY year, id`, model.ID)
	if err != nil {
		return catalog.Model{}, err
	}
	defer rows.Close()

	for rows.Next() {
		t := catalog.Trim{ModelID: model.ID}
		if err := rows.Scan(&t.ID, &t.Year, &t.Name); err != nil {
			return catalog.Model{}, err
		}
		model.Trims = append(model.Trims, t)
	}
	return model, rows.Err()
}

func (p *Postgres) CountMakers(ctx context.Context) (int, error) {
	return countMakers(ctx, p.Db)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanModelsWithTrims(rows rowScanner, makerID int64) ([]catalog.Model, error) {
	var models []catalog.Model
	index := make(map[int64]int)
	for rows.Next() {
		var (
			modelID   int64
			modelName string
			trimID    *int64
			trimYear  *int
			trimName  *string
		)
		if err := rows.Scan(&modelID, &modelName, &trimID, &trimYear, &trimName); err != nil {
			return nil, err
		}

		i, ok := index[modelID]
		if !ok {
			models = append(models, catalog.Model{ID: modelID, Name: modelName, MakerID: makerID})
			i = len(models) - 1
			index[modelID] = i
		}
		if trimID != nil {
			models[i].Trims = append(models[i].Trims, catalog.Trim{
				ID: *trimID, Year: *trimYear, Name: *trimName, ModelID: modelID,
			})
		}
	}
	return models, rows.Err()
}

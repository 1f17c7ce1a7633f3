package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/princekumarofficial/autohouse-service/internal/types/offers"
)

func (p *Postgres) CreateLocation(ctx context.Context, loc *offers.Location) error {
	err := p.Db.QueryRowContext(ctx, `
	INSERT INTO locations (city, city_region, country, postal_code, latitude, longitude, maps_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
	`, loc.City, loc.CityRegion, loc.Country, loc.PostalCode, loc.Latitude, loc.Longitude, loc.MapsURL,
	).Scan(&loc.ID)
	return mapError(err, "location")
}

func scanLocation(row interface{ Scan(...any) error }) (offers.Location, error) {
	var (
		loc        offers.Location
		postalCode sql.NullString
		mapsURL    sql.NullString
		lat, lng   sql.NullFloat64
	)
	if err := row.Scan(&loc.ID, &loc.City, &loc.CityRegion, &loc.Country, &postalCode, &lat, &lng, &mapsURL); err != nil {
		return offers.Location{}, err
	}
	loc.PostalCode = postalCode.String
	loc.MapsURL = mapsURL.String
	if lat.Valid && lng.Valid {
		loc.Latitude = &lat.Float64
		loc.Longitude = &lng.Float64
	}
	return loc, nil
}

const locationColumns = `id, city, city_region, country, postal_code, latitude, longitude, maps_url`

func (p *Postgres) GetLocation(ctx context.Context, id int64) (offers.Location, error) {
	row := p.Db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
	loc, err := scanLocation(row)
	if err != nil {
		return offers.Location{}, mapError(err, fmt.Sprintf("location %d", id))
	}
	return loc, nil
}

func (p *Postgres) ListLocations(ctx context.Context) ([]offers.Location, error) {
	rows, err := p.Db.QueryContext(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []offers.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

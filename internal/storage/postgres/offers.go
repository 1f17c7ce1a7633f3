package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/princekumarofficial/autohouse-service/internal/types/offers"
)

const offerSelect = `
	SELECT o.id, o.account_id, o.title, COALESCE(o.description, ''), o.price, o.created_at,
		o.maker_id, o.maker_name, o.model_id, o.model_name, COALESCE(o.trim, ''), o.year,
		COALESCE(o.mileage, 0), COALESCE(o.doors, 0), o.state, o.body_style, o.transmission,
		COALESCE(o.drive, ''), COALESCE(o.color, ''), o.fuel_type, o.features, o.has_accident,
		l.id, l.city, l.city_region, l.country, l.postal_code, l.latitude, l.longitude, l.maps_url
	FROM offers o
	JOIN locations l ON l.id = o.location_id
`

func (p *Postgres) CreateOffer(ctx context.Context, offer *offers.Offer) error {
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	v := offer.Vehicle
	features := v.Features
	if features == nil {
		features = []string{}
	}
	err := p.Db.QueryRowContext(ctx, `
	INSERT INTO offers (id, account_id, title, description, price, location_id,
		maker_id, maker_name, model_id, model_name, trim, year, mileage, doors,
		state, body_style, transmission, drive, color, fuel_type, features, has_accident)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	RETURNING created_at
	`,
		offer.ID, offer.AccountID, offer.Title, offer.Description, offer.Price, offer.Location.ID,
		v.MakerID, v.MakerName, v.ModelID, v.ModelName, v.Trim, v.Year, v.Mileage, v.Doors,
		v.State, v.BodyStyle, v.Transmission, string(v.Drive), v.Color, string(v.FuelType),
		pq.Array(features), v.HasAccident,
	).Scan(&offer.CreatedAt)
	return mapError(err, fmt.Sprintf("offer %s", offer.ID))
}

func scanOffer(row interface{ Scan(...any) error }) (offers.Offer, error) {
	var (
		o          offers.Offer
		drive      string
		fuel       string
		postalCode sql.NullString
		mapsURL    sql.NullString
		lat, lng   sql.NullFloat64
	)
	err := row.Scan(
		&o.ID, &o.AccountID, &o.Title, &o.Description, &o.Price, &o.CreatedAt,
		&o.Vehicle.MakerID, &o.Vehicle.MakerName, &o.Vehicle.ModelID, &o.Vehicle.ModelName,
		&o.Vehicle.Trim, &o.Vehicle.Year, &o.Vehicle.Mileage, &o.Vehicle.Doors,
		&o.Vehicle.State, &o.Vehicle.BodyStyle, &o.Vehicle.Transmission,
		&drive, &o.Vehicle.Color, &fuel, pq.Array(&o.Vehicle.Features), &o.Vehicle.HasAccident,
		&o.Location.ID, &o.Location.City, &o.Location.CityRegion, &o.Location.Country,
		&postalCode, &lat, &lng, &mapsURL,
	)
	if err != nil {
		return offers.Offer{}, err
	}
	o.Vehicle.Drive = offers.Drive(drive)
	o.Vehicle.FuelType = offers.FuelType(fuel)
	o.Location.PostalCode = postalCode.String
	o.Location.MapsURL = mapsURL.String
	if lat.Valid && lng.Valid {
		o.Location.Latitude = &lat.Float64
		o.Location.Longitude = &lng.Float64
	}
	return o, nil
}

func (p *Postgres) queryOffers(ctx context.Context, query string, args ...any) ([]offers.Offer, error) {
	rows, err := p.Db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []offers.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (p *Postgres) GetOffer(ctx context.Context, id uuid.UUID) (offers.Offer, error) {
	row := p.Db.QueryRowContext(ctx, offerSelect+` WHERE o.id = $1`, id)
	o, err := scanOffer(row)
	if err != nil {
		return offers.Offer{}, mapError(err, fmt.Sprintf("offer %s", id))
	}
	return o, nil
}

func (p *Postgres) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	res, err := p.Db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mapError(sql.ErrNoRows, fmt.Sprintf("offer %s", id))
	}
	return nil
}

func (p *Postgres) LatestOffers(ctx context.Context, limit int) ([]offers.Offer, error) {
	return p.queryOffers(ctx, offerSelect+` ORDER BY o.created_at DESC LIMIT $1`, limit)
}

// SearchOffers filters by maker and model in SQL. Radius filtering happens in
// the offers service because it needs the haversine distance.
func (p *Postgres) SearchOffers(ctx context.Context, filter offers.SearchFilter) ([]offers.Offer, error) {
	var (
		where []string
		args  []any
	)
	if filter.MakerID != 0 {
		args = append(args, filter.MakerID)
		where = append(where, fmt.Sprintf("o.maker_id = $%d", len(args)))
	}
	if filter.ModelID != 0 {
		args = append(args, filter.ModelID)
		where = append(where, fmt.Sprintf("o.model_id = $%d", len(args)))
	}

	query := offerSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY o.created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	return p.queryOffers(ctx, query, args...)
}

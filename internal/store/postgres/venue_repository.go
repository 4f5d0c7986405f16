package postgres

import (
	"context"

	"fullstack/internal/domain/booking"

	"github.com/jackc/pgx/v5"
)

const venueColumns = `id, name, genres, city, state, address, phone, website,
	facebook_link, image_link, seeking_talent, seeking_description`

// venueRepository implements VenueRepository interface
type venueRepository struct {
	db querier
}

// Save saves a venue (insert or update)
func (r *venueRepository) Save(ctx context.Context, v *booking.Venue) error {
	if v.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO venues (name, genres, city, state, address, phone, website,
				facebook_link, image_link, seeking_talent, seeking_description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id`,
			v.Name, v.Genres, v.City, v.State, v.Address, v.Phone, v.Website,
			v.FacebookLink, v.ImageLink, v.SeekingTalent, v.SeekingDescription).Scan(&v.ID)
		return mapErr(err)
	}
	return execOne(ctx, r.db, `
		UPDATE venues
		SET name = $1, genres = $2, city = $3, state = $4, address = $5, phone = $6,
		    website = $7, facebook_link = $8, image_link = $9, seeking_talent = $10,
		    seeking_description = $11
		WHERE id = $12`,
		v.Name, v.Genres, v.City, v.State, v.Address, v.Phone, v.Website,
		v.FacebookLink, v.ImageLink, v.SeekingTalent, v.SeekingDescription, v.ID)
}

// FindByID finds a venue by ID
func (r *venueRepository) FindByID(ctx context.Context, id int64) (*booking.Venue, error) {
	row := r.db.QueryRow(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id)
	v, err := scanVenue(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return v, nil
}

// FindAll returns every venue ordered by id
func (r *venueRepository) FindAll(ctx context.Context) ([]*booking.Venue, error) {
	rows, err := r.db.Query(ctx, `SELECT `+venueColumns+` FROM venues ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	venues := []*booking.Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

// Delete removes a venue. Shows still referencing it make this fail with
// ErrConflict.
func (r *venueRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM venues WHERE id = $1`, id)
}

func scanVenue(row pgx.Row) (*booking.Venue, error) {
	var v booking.Venue
	err := row.Scan(&v.ID, &v.Name, &v.Genres, &v.City, &v.State, &v.Address, &v.Phone,
		&v.Website, &v.FacebookLink, &v.ImageLink, &v.SeekingTalent, &v.SeekingDescription)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

package postgres

import (
	"context"

	"fullstack/internal/domain/booking"

	"github.com/jackc/pgx/v5"
)

const artistColumns = `id, name, genres, city, state, phone, website,
	facebook_link, image_link, seeking_venue, seeking_description`

// artistRepository implements ArtistRepository interface
type artistRepository struct {
	db querier
}

// Save saves an artist (insert or update)
func (r *artistRepository) Save(ctx context.Context, a *booking.Artist) error {
	if a.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO artists (name, genres, city, state, phone, website,
				facebook_link, image_link, seeking_venue, seeking_description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`,
			a.Name, a.Genres, a.City, a.State, a.Phone, a.Website,
			a.FacebookLink, a.ImageLink, a.SeekingVenue, a.SeekingDescription).Scan(&a.ID)
		return mapErr(err)
	}
	return execOne(ctx, r.db, `
		UPDATE artists
		SET name = $1, genres = $2, city = $3, state = $4, phone = $5, website = $6,
		    facebook_link = $7, image_link = $8, seeking_venue = $9, seeking_description = $10
		WHERE id = $11`,
		a.Name, a.Genres, a.City, a.State, a.Phone, a.Website,
		a.FacebookLink, a.ImageLink, a.SeekingVenue, a.SeekingDescription, a.ID)
}

// FindByID finds an artist by ID
func (r *artistRepository) FindByID(ctx context.Context, id int64) (*booking.Artist, error) {
	row := r.db.QueryRow(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = $1`, id)
	a, err := scanArtist(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

// FindAll returns every artist ordered by id
func (r *artistRepository) FindAll(ctx context.Context) ([]*booking.Artist, error) {
	rows, err := r.db.Query(ctx, `SELECT `+artistColumns+` FROM artists ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	artists := []*booking.Artist{}
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

func (r *artistRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM artists WHERE id = $1`, id)
}

func scanArtist(row pgx.Row) (*booking.Artist, error) {
	var a booking.Artist
	err := row.Scan(&a.ID, &a.Name, &a.Genres, &a.City, &a.State, &a.Phone, &a.Website,
		&a.FacebookLink, &a.ImageLink, &a.SeekingVenue, &a.SeekingDescription)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

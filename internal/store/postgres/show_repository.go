package postgres

import (
	"context"

	"fullstack/internal/domain/booking"
	"fullstack/internal/store/repositories"
)

// showRepository implements ShowRepository interface
type showRepository struct {
	db querier
}

// Save inserts a show. Shows are never edited once booked.
func (r *showRepository) Save(ctx context.Context, s *booking.Show) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO shows (venue_id, artist_id, start_time)
		VALUES ($1, $2, $3)
		RETURNING id`,
		s.VenueID, s.ArtistID, s.StartTime).Scan(&s.ID)
	return mapErr(err)
}

// FindAll lists shows joined with venue and artist, ordered by start time
func (r *showRepository) FindAll(ctx context.Context, filter repositories.ShowFilter) ([]booking.ShowListing, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.venue_id, s.artist_id, s.start_time,
		       v.name, v.image_link, a.name, a.image_link
		FROM shows s
		JOIN venues v ON v.id = s.venue_id
		JOIN artists a ON a.id = s.artist_id
		WHERE ($1::bigint IS NULL OR s.venue_id = $1)
		  AND ($2::bigint IS NULL OR s.artist_id = $2)
		ORDER BY s.start_time, s.id`, filter.VenueID, filter.ArtistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shows := []booking.ShowListing{}
	for rows.Next() {
		var l booking.ShowListing
		err := rows.Scan(&l.ID, &l.VenueID, &l.ArtistID, &l.StartTime,
			&l.VenueName, &l.VenueImageLink, &l.ArtistName, &l.ArtistImageLink)
		if err != nil {
			return nil, err
		}
		l.StartTime = l.StartTime.UTC()
		shows = append(shows, l)
	}
	return shows, rows.Err()
}

package sqlite

import (
	"context"
	"fmt"

	"github.com/glebk/lunch-buddy/internal/domain"
)

const (
	tagCuisine     = "cuisine"
	tagRestriction = "restriction"
	tagDish        = "dish"
)

// VenueRepository implements domain.VenueRepository using SQLite
type VenueRepository struct {
	db *Database
}

// NewVenueRepository creates a new VenueRepository
func NewVenueRepository(db *Database) *VenueRepository {
	return &VenueRepository{db: db}
}

// ReplaceAll drops every stored venue and inserts the given ones
func (r *VenueRepository) ReplaceAll(ctx context.Context, venues []*domain.Venue) error {
	tx, err := r.db.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM venue_tags`); err != nil {
		return fmt.Errorf("failed to clear venue tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM venues`); err != nil {
		return fmt.Errorf("failed to clear venues: %w", err)
	}

	insertVenue := `
		INSERT INTO venues (name, address, office, price_limit, walk_minutes, rating, review_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	insertTag := `
		INSERT OR IGNORE INTO venue_tags (venue_id, kind, value)
		VALUES (?, ?, ?)
	`

	for _, v := range venues {
		result, err := tx.ExecContext(ctx, insertVenue,
			v.Name,
			v.Address,
			v.Office,
			v.PriceLimit,
			v.WalkMinutes,
			v.Rating,
			v.ReviewCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert venue %q: %w", v.Name, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get venue ID: %w", err)
		}
		v.ID = id

		tags := map[string][]string{
			tagCuisine:     v.Cuisines,
			tagRestriction: v.Restrictions,
			tagDish:        v.Dishes,
		}
		for kind, values := range tags {
			for _, value := range values {
				if _, err := tx.ExecContext(ctx, insertTag, id, kind, value); err != nil {
					return fmt.Errorf("failed to insert %s tag for venue %q: %w", kind, v.Name, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit venues: %w", err)
	}
	return nil
}

// ListByOffice retrieves all venues near an office
func (r *VenueRepository) ListByOffice(ctx context.Context, office string) ([]*domain.Venue, error) {
	query := `
		SELECT id, name, address, office, price_limit, walk_minutes, rating, review_count
		FROM venues
		WHERE office = ?
		ORDER BY id
	`

	rows, err := r.db.GetDB().QueryContext(ctx, query, office)
	if err != nil {
		return nil, fmt.Errorf("failed to get venues: %w", err)
	}
	defer rows.Close()

	var venues []*domain.Venue
	byID := make(map[int64]*domain.Venue)

	for rows.Next() {
		venue := &domain.Venue{}

		err := rows.Scan(
			&venue.ID,
			&venue.Name,
			&venue.Address,
			&venue.Office,
			&venue.PriceLimit,
			&venue.WalkMinutes,
			&venue.Rating,
			&venue.ReviewCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}

		venues = append(venues, venue)
		byID[venue.ID] = venue
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read venues: %w", err)
	}

	if len(venues) == 0 {
		return venues, nil
	}
	if err := r.loadTags(ctx, office, byID); err != nil {
		return nil, err
	}

	return venues, nil
}

// loadTags fills cuisines, restrictions and dishes of the listed venues
func (r *VenueRepository) loadTags(ctx context.Context, office string, byID map[int64]*domain.Venue) error {
	query := `
		SELECT t.venue_id, t.kind, t.value
		FROM venue_tags t
		JOIN venues v ON v.id = t.venue_id
		WHERE v.office = ?
		ORDER BY t.rowid
	`

	rows, err := r.db.GetDB().QueryContext(ctx, query, office)
	if err != nil {
		return fmt.Errorf("failed to get venue tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var venueID int64
		var kind, value string
		if err := rows.Scan(&venueID, &kind, &value); err != nil {
			return fmt.Errorf("failed to scan venue tag: %w", err)
		}

		venue, ok := byID[venueID]
		if !ok {
			continue
		}
		switch kind {
		case tagCuisine:
			venue.Cuisines = append(venue.Cuisines, value)
		case tagRestriction:
			venue.Restrictions = append(venue.Restrictions, value)
		case tagDish:
			venue.Dishes = append(venue.Dishes, value)
		}
	}

	return rows.Err()
}

// Count returns the number of stored venues
func (r *VenueRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetDB().QueryRowContext(ctx, `SELECT COUNT(*) FROM venues`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count venues: %w", err)
	}
	return n, nil
}

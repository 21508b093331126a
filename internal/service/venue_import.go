package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/glebk/lunch-buddy/internal/domain"
)

// venueColumns are the CSV columns ImportVenues requires
var venueColumns = []string{
	"name", "address", "office", "price_limit", "walk_minutes",
	"rating", "review_count", "cuisines", "restrictions", "dishes",
}

// ImportVenuesFile replaces the stored venues with the contents of a CSV file
func ImportVenuesFile(ctx context.Context, repo domain.VenueRepository, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open venues file: %w", err)
	}
	defer f.Close()
	return ImportVenues(ctx, repo, f)
}

// ImportVenues parses venues from CSV and replaces the stored ones. Rows
// with an empty name or office are skipped, as are rows whose numbers do
// not parse.
func ImportVenues(ctx context.Context, repo domain.VenueRepository, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read venues header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range venueColumns {
		if _, ok := columns[name]; !ok {
			return 0, fmt.Errorf("venues file is missing column %q", name)
		}
	}

	var venues []*domain.Venue
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read venues: %w", err)
		}

		venue, ok := parseVenue(record, columns)
		if !ok {
			continue
		}
		venues = append(venues, venue)
	}

	if err := repo.ReplaceAll(ctx, venues); err != nil {
		return 0, err
	}
	return len(venues), nil
}

func parseVenue(record []string, columns map[string]int) (*domain.Venue, bool) {
	field := func(name string) string {
		i := columns[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	v := &domain.Venue{
		Name:         field("name"),
		Address:      field("address"),
		Office:       field("office"),
		Cuisines:     splitList(field("cuisines")),
		Restrictions: splitList(field("restrictions")),
		Dishes:       splitList(field("dishes")),
	}
	if v.Name == "" || v.Office == "" {
		return nil, false
	}

	var err error
	if v.PriceLimit, err = atoiOrZero(field("price_limit")); err != nil {
		return nil, false
	}
	if v.WalkMinutes, err = atoiOrZero(field("walk_minutes")); err != nil {
		return nil, false
	}
	if v.ReviewCount, err = atoiOrZero(field("review_count")); err != nil {
		return nil, false
	}
	if s := field("rating"); s != "" {
		if v.Rating, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, false
		}
	}
	return v, true
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

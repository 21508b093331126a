package domain

import "context"

// Venue is a place the group can go to for lunch
type Venue struct {
	ID           int64
	Name         string
	Address      string
	Office       string
	PriceLimit   int
	WalkMinutes  int
	Rating       float64
	ReviewCount  int
	Cuisines     []string
	Restrictions []string
	Dishes       []string
}

// RankedVenue is a venue together with its score for a group
type RankedVenue struct {
	Venue Venue
	Score float64
}

// VenueRepository defines the interface for venue storage
type VenueRepository interface {
	ReplaceAll(ctx context.Context, venues []*Venue) error
	ListByOffice(ctx context.Context, office string) ([]*Venue, error)
	Count(ctx context.Context) (int, error)
}

// Recommender ranks venues for aggregated answers
type Recommender interface {
	Recommend(ctx context.Context, answers UserAnswers) ([]RankedVenue, error)
}

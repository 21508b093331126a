package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/glebk/lunch-buddy/internal/domain"
	"github.com/glebk/lunch-buddy/internal/extractor"
)

// Scoring weights
const (
	cuisineWeight        = 2.0
	restrictionWeight    = 1.5
	highRating           = 4.5
	manyReviews          = 200
	positiveCuisineBonus = 0.2
	negativeCuisineMalus = -0.4
	positiveDishBonus    = 0.1
)

// Wishes are cuisines and dishes named in the free-form answers
type Wishes struct {
	PositiveCuisines []string
	NegativeCuisines []string
	PositiveDishes   []string
}

var _ domain.Recommender = (*RecommendationService)(nil)

// RecommendationService ranks stored venues against a group's answers
type RecommendationService struct {
	venues domain.VenueRepository
	limit  int
}

// NewRecommendationService creates a new RecommendationService
func NewRecommendationService(venues domain.VenueRepository, limit int) *RecommendationService {
	if limit <= 0 {
		limit = 3
	}
	return &RecommendationService{
		venues: venues,
		limit:  limit,
	}
}

// Recommend returns the best venues near the group's office
func (s *RecommendationService) Recommend(ctx context.Context, answers domain.UserAnswers) ([]domain.RankedVenue, error) {
	if answers.Office == "" || answers.Office == domain.NotSelected {
		return nil, fmt.Errorf("%w: no office selected", domain.ErrRecommendationUnavailable)
	}

	venues, err := s.venues.ListByOffice(ctx, answers.Office)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRecommendationUnavailable, err)
	}
	if len(venues) == 0 {
		return nil, fmt.Errorf("%w: no venues near %q", domain.ErrRecommendationUnavailable, answers.Office)
	}

	wishes := ExtractWishes(answers, venues)

	ranked := make([]domain.RankedVenue, 0, len(venues))
	for _, v := range venues {
		ranked = append(ranked, domain.RankedVenue{Venue: *v, Score: Score(*v, answers, wishes)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Venue.Rating != b.Venue.Rating {
			return a.Venue.Rating > b.Venue.Rating
		}
		return a.Venue.ReviewCount > b.Venue.ReviewCount
	})

	if len(ranked) > s.limit {
		ranked = ranked[:s.limit]
	}
	return ranked, nil
}

// ExtractWishes matches the free-form answers against the cuisines and
// dishes the candidate venues offer
func ExtractWishes(answers domain.UserAnswers, venues []*domain.Venue) Wishes {
	var cuisines, dishes []string
	for _, v := range venues {
		cuisines = append(cuisines, v.Cuisines...)
		dishes = append(dishes, v.Dishes...)
	}
	cuisineExtractor := extractor.New(cuisines)
	dishExtractor := extractor.New(dishes)

	return Wishes{
		PositiveCuisines: cuisineExtractor.Extract(answers.Positive),
		NegativeCuisines: cuisineExtractor.Extract(answers.Negative),
		PositiveDishes:   dishExtractor.Extract(answers.Positive),
	}
}

// Score is the weighted sum of how well a venue fits the answers
func Score(v domain.Venue, answers domain.UserAnswers, wishes Wishes) float64 {
	score := 0.0

	for cuisine, weight := range answers.Cuisines {
		if contains(v.Cuisines, cuisine) {
			score += weight * cuisineWeight
		}
	}
	for restriction, weight := range answers.Restrictions {
		if contains(v.Restrictions, restriction) {
			score += weight * restrictionWeight
		}
	}
	for limit, weight := range answers.PriceLimit {
		if v.PriceLimit > 0 && v.PriceLimit <= limit {
			score += weight
		}
	}
	for limit, weight := range answers.WalkTime {
		if v.WalkMinutes > 0 && v.WalkMinutes <= limit {
			score += weight
		}
	}

	if v.Rating > highRating {
		score++
	}
	if v.ReviewCount > manyReviews {
		score++
	}

	for _, c := range wishes.PositiveCuisines {
		if contains(v.Cuisines, c) {
			score += positiveCuisineBonus
		}
	}
	for _, c := range wishes.NegativeCuisines {
		if contains(v.Cuisines, c) {
			score += negativeCuisineMalus
		}
	}
	for _, d := range wishes.PositiveDishes {
		if contains(v.Dishes, d) {
			score += positiveDishBonus
		}
	}

	return score
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

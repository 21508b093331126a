package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/glebk/lunch-buddy/internal/catalog"
	"github.com/glebk/lunch-buddy/internal/domain"
	"github.com/glebk/lunch-buddy/internal/store"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary is the group's aggregated result
type Summary struct {
	Text            string
	Answers         domain.UserAnswers
	Recommendations []domain.RankedVenue
}

// SummaryService aggregates a group's answers and asks for recommendations
type SummaryService struct {
	store       *store.Store
	catalog     *catalog.Catalog
	recommender domain.Recommender
	printer     *message.Printer
}

// NewSummaryService creates a new SummaryService. recommender may be nil.
func NewSummaryService(st *store.Store, cat *catalog.Catalog, recommender domain.Recommender, lang string) *SummaryService {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &SummaryService{
		store:       st,
		catalog:     cat,
		recommender: recommender,
		printer:     message.NewPrinter(tag),
	}
}

// Summary aggregates the group's answers. Recommendation failures never
// fail the summary.
func (s *SummaryService) Summary(ctx context.Context, groupID int64) (Summary, error) {
	session, ok := s.store.Get(groupID)
	if !ok {
		return Summary{}, fmt.Errorf("%w: %d", domain.ErrGroupNotFound, groupID)
	}

	st := session.Snapshot()
	answers := Aggregate(st, s.catalog)
	if answers.Empty() {
		return Summary{Answers: answers}, fmt.Errorf("%w: group %d", domain.ErrNoParticipants, groupID)
	}

	var recs []domain.RankedVenue
	recErr := domain.ErrRecommendationUnavailable
	if s.recommender != nil {
		recs, recErr = s.recommender.Recommend(ctx, answers)
		if recErr != nil && !errors.Is(recErr, domain.ErrRecommendationUnavailable) {
			log.Printf("Error getting recommendations for group %d: %v", groupID, recErr)
		}
	}

	text, err := s.render(answers, Distributions(st, s.catalog), recs, recErr)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Text:            text,
		Answers:         answers,
		Recommendations: recs,
	}, nil
}

func (s *SummaryService) render(answers domain.UserAnswers, dists map[domain.Stage]map[string]float64, recs []domain.RankedVenue, recErr error) (string, error) {
	var b strings.Builder

	s.printer.Fprintf(&b, "📊 Group preferences (%d participants):\n\n", answers.Participants)
	s.printer.Fprintf(&b, "🏢 Office: %s\n", answers.Office)

	for _, q := range s.catalog.Questions {
		dist, ok := dists[q.Stage]
		if !ok {
			continue
		}
		s.printer.Fprintf(&b, "\n%s\n", sectionTitle(q))
		if len(dist) == 0 {
			b.WriteString("  —\n")
			continue
		}
		for _, label := range sortedLabels(q, dist) {
			s.printer.Fprintf(&b, "  • %s: %d%%\n", catalog.PlainLabel(label), int(math.Round(dist[label]*100)))
		}
	}

	if answers.Positive != "" {
		s.printer.Fprintf(&b, "\n👍 Wishes: %s\n", answers.Positive)
	}
	if answers.Negative != "" {
		s.printer.Fprintf(&b, "👎 Rather not: %s\n", answers.Negative)
	}

	b.WriteString("\n🍽 Recommendations:\n")
	if recErr != nil || len(recs) == 0 {
		b.WriteString("  recommendations not available\n")
	} else {
		for i, r := range recs {
			s.printer.Fprintf(&b, "  %d. %s (%s)\n", i+1, r.Venue.Name, r.Venue.Address)
		}
	}

	raw, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode answers: %w", err)
	}
	b.WriteString("\nuser_answers = ")
	b.Write(raw)

	return b.String(), nil
}

func sectionTitle(q catalog.Question) string {
	return strings.TrimSuffix(q.Prompt, ":")
}

// sortedLabels keeps catalog order so summaries are stable
func sortedLabels(q catalog.Question, dist map[string]float64) []string {
	order := make(map[string]int, len(q.Options))
	for i, o := range q.Options {
		order[o.Label] = i
	}
	labels := make([]string, 0, len(dist))
	for label := range dist {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return order[labels[i]] < order[labels[j]]
	})
	return labels
}

package service

import (
	"math"
	"strings"

	"github.com/glebk/lunch-buddy/internal/catalog"
	"github.com/glebk/lunch-buddy/internal/domain"
)

// Aggregate turns the raw answers of a group into normalized
// distributions. Every fraction is relative to the number of participants.
// The state is only read.
func Aggregate(st *domain.GroupState, cat *catalog.Catalog) domain.UserAnswers {
	answers := domain.UserAnswers{
		Office:       domain.NotSelected,
		Cuisines:     map[string]float64{},
		Restrictions: map[string]float64{},
		PriceLimit:   map[int]float64{},
		WalkTime:     map[int]float64{},
	}

	n := len(st.Participants)
	answers.Participants = n
	if n == 0 {
		return answers
	}

	if organizerID, ok := st.OrganizerID(); ok {
		if office, ok := st.Single(domain.StageOffice, organizerID); ok {
			answers.Office = office
		}
	}

	answers.Cuisines = plainKeys(multiDistribution(st.MultiChoice[domain.StageCuisine], n))
	answers.Restrictions = plainKeys(multiDistribution(st.MultiChoice[domain.StageRestrictions], n))
	answers.PriceLimit = numericKeys(cat, domain.StageBudget, singleDistribution(st.SingleChoice[domain.StageBudget], n))
	answers.WalkTime = numericKeys(cat, domain.StageWalkTime, singleDistribution(st.SingleChoice[domain.StageWalkTime], n))

	answers.Positive = flatten(st.FreeformText(domain.FreeformPositive))
	answers.Negative = flatten(st.FreeformText(domain.FreeformNegative))

	return answers
}

// Distributions returns the per-label distributions of every question
// except the office, keyed by stage. Used for the human-readable summary.
func Distributions(st *domain.GroupState, cat *catalog.Catalog) map[domain.Stage]map[string]float64 {
	n := len(st.Participants)
	out := make(map[domain.Stage]map[string]float64)
	if n == 0 {
		return out
	}
	for _, q := range cat.Questions {
		if q.Stage == domain.StageOffice {
			continue
		}
		switch q.Kind {
		case domain.SelectionMulti:
			out[q.Stage] = multiDistribution(st.MultiChoice[q.Stage], n)
		case domain.SelectionSingle:
			out[q.Stage] = singleDistribution(st.SingleChoice[q.Stage], n)
		}
	}
	return out
}

func multiDistribution(votes map[string]map[int64]struct{}, n int) map[string]float64 {
	dist := make(map[string]float64, len(votes))
	for option, voters := range votes {
		if len(voters) == 0 {
			continue
		}
		dist[option] = round2(float64(len(voters)) / float64(n))
	}
	return dist
}

func singleDistribution(answers map[int64]string, n int) map[string]float64 {
	counts := make(map[string]int)
	for _, option := range answers {
		counts[option]++
	}
	dist := make(map[string]float64, len(counts))
	for option, count := range counts {
		dist[option] = round2(float64(count) / float64(n))
	}
	return dist
}

// numericKeys replaces labels with their catalog values. Labels without a
// value are dropped.
func numericKeys(cat *catalog.Catalog, stage domain.Stage, dist map[string]float64) map[int]float64 {
	out := make(map[int]float64, len(dist))
	for label, weight := range dist {
		if value, ok := cat.Value(stage, label); ok {
			out[value] += weight
		}
	}
	return out
}

func plainKeys(dist map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(dist))
	for label, weight := range dist {
		out[catalog.PlainLabel(label)] += weight
	}
	return out
}

func flatten(text string) string {
	return strings.ReplaceAll(text, "\n", " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

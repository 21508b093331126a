package domain

// NotSelected is reported as the office when the organizer has not chosen one
const NotSelected = "Not selected"

// UserAnswers is the normalized view of a group's answers. Every
// distribution maps an option (or its numeric value) to the fraction of
// participants who picked it.
type UserAnswers struct {
	Office       string             `json:"office"`
	Cuisines     map[string]float64 `json:"wanted_cuisines"`
	Restrictions map[string]float64 `json:"food_restrictions"`
	PriceLimit   map[int]float64    `json:"price_limit"`
	WalkTime     map[int]float64    `json:"walk_time"`
	Positive     string             `json:"positive"`
	Negative     string             `json:"negative"`
	Participants int                `json:"participants"`
}

// Empty reports whether no participant has answered yet
func (a UserAnswers) Empty() bool {
	return a.Participants == 0
}

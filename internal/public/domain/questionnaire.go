package domain

import (
	"strings"
	"time"
)

// QuestionnaireAnswers are the self-reported metrics of an artist.
type QuestionnaireAnswers struct {
	YearsActive      int
	ReleasesCount    int
	MonthlyListeners int
	LiveShowsPerYear int
	SocialFollowers  int
	HasManagement    bool
	HasLabel         bool
	Goals            []string
	Genres           []string
}

// QuestionnaireResponse is one stored submission with its computed classification.
type QuestionnaireResponse struct {
	ID             string
	ArtistID       string
	Answers        QuestionnaireAnswers
	Classification Classification
	SubmittedAt    time.Time
}

func (a QuestionnaireAnswers) numericValues() map[string]int {
	return map[string]int{
		"yearsActive":      a.YearsActive,
		"releasesCount":    a.ReleasesCount,
		"monthlyListeners": a.MonthlyListeners,
		"liveShowsPerYear": a.LiveShowsPerYear,
		"socialFollowers":  a.SocialFollowers,
	}
}

func (a QuestionnaireAnswers) flagValues() map[string]bool {
	return map[string]bool{
		"hasManagement": a.HasManagement,
		"hasLabel":      a.HasLabel,
	}
}

// Normalize validates the answers against rules and cleans goals and genres.
func (a *QuestionnaireAnswers) Normalize(rules *ClassificationRules) error {
	for key, value := range a.numericValues() {
		if value < 0 {
			return Invalid(key, "must not be negative")
		}
	}
	if a.YearsActive > 100 {
		return Invalid("yearsActive", "must be at most 100")
	}

	goals := make([]string, 0, len(a.Goals))
	seen := make(map[string]struct{}, len(a.Goals))
	for _, raw := range a.Goals {
		goal := strings.ToLower(strings.TrimSpace(raw))
		if goal == "" {
			continue
		}
		if !rules.AllowsGoal(goal) {
			return Invalid("goals", "unknown goal %q", goal)
		}
		if _, ok := seen[goal]; ok {
			continue
		}
		seen[goal] = struct{}{}
		goals = append(goals, goal)
	}
	a.Goals = goals

	genres, err := NormalizeGenres(a.Genres)
	if err != nil {
		return err
	}
	a.Genres = genres
	return nil
}

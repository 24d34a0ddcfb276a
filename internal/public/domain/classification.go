package domain

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed classification_rules.yaml
var defaultRulesYAML []byte

// Tier is the classification bucket derived from a questionnaire score.
type Tier string

const (
	TierEmerging     Tier = "emerging"
	TierDeveloping   Tier = "developing"
	TierEstablished  Tier = "established"
	TierProfessional Tier = "professional"
)

// ParseTier validates a tier filter value.
func ParseTier(value string) (Tier, bool) {
	switch t := Tier(value); t {
	case TierEmerging, TierDeveloping, TierEstablished, TierProfessional:
		return t, true
	}
	return "", false
}

// Classification is the stored result of scoring an artist.
type Classification struct {
	Tier      Tier
	Score     int
	UpdatedAt time.Time
}

// ClassificationRules is the scoring table, normally loaded from the embedded YAML.
type ClassificationRules struct {
	Version int          `yaml:"version" json:"version"`
	Metrics []MetricRule `yaml:"metrics" json:"metrics"`
	Flags   []FlagRule   `yaml:"flags" json:"flags"`
	Tiers   []TierRule   `yaml:"tiers" json:"tiers"`
	Goals   []string     `yaml:"goals" json:"goals"`
}

// MetricRule scores a numeric answer.
type MetricRule struct {
	Key        string      `yaml:"key" json:"key"`
	Label      string      `yaml:"label" json:"label"`
	Thresholds []Threshold `yaml:"thresholds" json:"thresholds"`
}

// Threshold grants Points once the answer reaches Min.
type Threshold struct {
	Min    int `yaml:"min" json:"min"`
	Points int `yaml:"points" json:"points"`
}

// FlagRule scores a boolean answer.
type FlagRule struct {
	Key    string `yaml:"key" json:"key"`
	Label  string `yaml:"label" json:"label"`
	Points int    `yaml:"points" json:"points"`
}

// TierRule names the tier reached once the total score reaches Min.
type TierRule struct {
	Name Tier `yaml:"name" json:"name"`
	Min  int  `yaml:"min" json:"min"`
}

var (
	defaultRulesOnce sync.Once
	defaultRules     *ClassificationRules
	defaultRulesErr  error
)

// DefaultClassificationRules returns the embedded rule set.
func DefaultClassificationRules() (*ClassificationRules, error) {
	defaultRulesOnce.Do(func() {
		defaultRules, defaultRulesErr = ParseClassificationRules(defaultRulesYAML)
	})
	return defaultRules, defaultRulesErr
}

// ParseClassificationRules decodes and normalises a YAML rule set.
func ParseClassificationRules(data []byte) (*ClassificationRules, error) {
	var rules ClassificationRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("decode classification rules: %w", err)
	}
	if len(rules.Tiers) == 0 {
		return nil, fmt.Errorf("classification rules define no tiers")
	}
	for i := range rules.Metrics {
		thresholds := rules.Metrics[i].Thresholds
		sort.Slice(thresholds, func(a, b int) bool { return thresholds[a].Min < thresholds[b].Min })
	}
	sort.Slice(rules.Tiers, func(a, b int) bool { return rules.Tiers[a].Min < rules.Tiers[b].Min })
	return &rules, nil
}

// MaxScore is the best achievable total.
func (r *ClassificationRules) MaxScore() int {
	total := 0
	for _, m := range r.Metrics {
		best := 0
		for _, t := range m.Thresholds {
			if t.Points > best {
				best = t.Points
			}
		}
		total += best
	}
	for _, f := range r.Flags {
		total += f.Points
	}
	return total
}

// Score computes the total points for answers.
func (r *ClassificationRules) Score(answers QuestionnaireAnswers) int {
	numbers := answers.numericValues()
	flags := answers.flagValues()

	total := 0
	for _, metric := range r.Metrics {
		value := numbers[metric.Key]
		points := 0
		for _, t := range metric.Thresholds {
			if value >= t.Min {
				points = t.Points
			}
		}
		total += points
	}
	for _, flag := range r.Flags {
		if flags[flag.Key] {
			total += flag.Points
		}
	}
	return total
}

// TierFor maps a score to the highest tier whose minimum it reaches.
func (r *ClassificationRules) TierFor(score int) Tier {
	tier := r.Tiers[0].Name
	for _, t := range r.Tiers {
		if score >= t.Min {
			tier = t.Name
		}
	}
	return tier
}

// Classify scores answers and stamps the result with at.
func (r *ClassificationRules) Classify(answers QuestionnaireAnswers, at time.Time) Classification {
	score := r.Score(answers)
	return Classification{Tier: r.TierFor(score), Score: score, UpdatedAt: at}
}

// AllowsGoal reports whether goal is part of the rule set.
func (r *ClassificationRules) AllowsGoal(goal string) bool {
	for _, g := range r.Goals {
		if g == goal {
			return true
		}
	}
	return false
}

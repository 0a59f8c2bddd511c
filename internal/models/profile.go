// ABOUTME: Profile model plus the fitness level, goal, activity and sex enums.
// ABOUTME: Owns every default the calculators fall back to when a field is missing.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FitnessLevel is the self-reported training experience of a person.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

// AllFitnessLevels lists the recognized fitness levels in ascending order.
var AllFitnessLevels = []FitnessLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}

// Known reports whether l is one of the recognized levels.
func (l FitnessLevel) Known() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// ParseFitnessLevel parses a case-insensitive level name.
func ParseFitnessLevel(s string) (FitnessLevel, error) {
	l := FitnessLevel(strings.ToLower(strings.TrimSpace(s)))
	if !l.Known() {
		return "", fmt.Errorf("unknown fitness level: %s (use beginner, intermediate, or advanced)", s)
	}
	return l, nil
}

// Goal is a training or body-composition objective.
type Goal string

const (
	GoalWeightLoss Goal = "weight_loss"
	GoalMuscleGain Goal = "muscle_gain"
	GoalEndurance  Goal = "endurance"
	GoalGeneral    Goal = "general"
)

// AllGoals lists the recognized goals.
var AllGoals = []Goal{GoalWeightLoss, GoalMuscleGain, GoalEndurance, GoalGeneral}

// ParseGoal parses a case-insensitive goal name. Dashes are accepted for underscores.
func ParseGoal(s string) (Goal, error) {
	g := Goal(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range AllGoals {
		if g == known {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown goal: %s (use weight_loss, muscle_gain, endurance, or general)", s)
}

// ActivityLevel describes how active a person is outside of planned training.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// AllActivityLevels lists the recognized activity levels from least to most active.
var AllActivityLevels = []ActivityLevel{
	ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive,
}

// Known reports whether a is one of the recognized activity levels.
func (a ActivityLevel) Known() bool {
	for _, known := range AllActivityLevels {
		if a == known {
			return true
		}
	}
	return false
}

// ParseActivityLevel parses a case-insensitive activity level name.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	a := ActivityLevel(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !a.Known() {
		return "", fmt.Errorf("unknown activity level: %s (use sedentary, light, moderate, active, or very_active)", s)
	}
	return a, nil
}

// Sex is biological sex, used only as a BMR formula parameter.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// ParseSex parses a case-insensitive sex value.
func ParseSex(s string) (Sex, error) {
	switch v := Sex(strings.ToLower(strings.TrimSpace(s))); v {
	case SexMale, SexFemale, SexOther:
		return v, nil
	}
	return "", fmt.Errorf("unknown sex: %s (use male, female, or other)", s)
}

// Defaults applied when a profile field is missing or outside its plausible range.
const (
	DefaultWeightKg      = 70.0
	DefaultHeightCm      = 170.0
	DefaultAge           = 30
	DefaultSex           = SexFemale
	DefaultActivityLevel = ActivityModerate
	// DefaultLevelLabel names unknown levels in generated text only.
	DefaultLevelLabel = LevelBeginner
)

// Plausible biometric ranges, inclusive. Values outside them resolve to the defaults.
const (
	MinWeightKg = 30.0
	MaxWeightKg = 300.0
	MinHeightCm = 100.0
	MaxHeightCm = 250.0
	MinAge      = 13
	MaxAge      = 100
)

// Profile is a read-only snapshot of the attributes every calculator needs.
type Profile struct {
	ID            uuid.UUID     `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	WeightKg      *float64      `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	HeightCm      *float64      `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`
	Age           *int          `json:"age,omitempty" yaml:"age,omitempty"`
	Sex           Sex           `json:"sex,omitempty" yaml:"sex,omitempty"`
	FitnessLevel  FitnessLevel  `json:"fitness_level,omitempty" yaml:"fitness_level,omitempty"`
	Goals         []Goal        `json:"goals,omitempty" yaml:"goals,omitempty"`
	ActivityLevel ActivityLevel `json:"activity_level,omitempty" yaml:"activity_level,omitempty"`
	TotalWorkouts int           `json:"total_workouts" yaml:"total_workouts"`
	StreakDays    int           `json:"streak_days" yaml:"streak_days"`
	CreatedAt     time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" yaml:"updated_at"`
}

// NewProfile creates a Profile with a generated UUID and current timestamps.
func NewProfile(name string) *Profile {
	now := time.Now()
	return &Profile{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithBiometrics sets weight, height and age. Zero values leave the field unset.
func (p *Profile) WithBiometrics(weightKg, heightCm float64, age int) *Profile {
	if weightKg > 0 {
		p.WeightKg = &weightKg
	}
	if heightCm > 0 {
		p.HeightCm = &heightCm
	}
	if age > 0 {
		p.Age = &age
	}
	return p
}

// WithLevel sets the fitness level.
func (p *Profile) WithLevel(l FitnessLevel) *Profile {
	p.FitnessLevel = l
	return p
}

// WithGoals replaces the goal set.
func (p *Profile) WithGoals(goals ...Goal) *Profile {
	p.Goals = append([]Goal(nil), goals...)
	return p
}

// WithActivity sets the activity level.
func (p *Profile) WithActivity(a ActivityLevel) *Profile {
	p.ActivityLevel = a
	return p
}

// WithSex sets the sex used by the BMR formula.
func (p *Profile) WithSex(s Sex) *Profile {
	p.Sex = s
	return p
}

// WithHistory sets the cumulative training counters.
func (p *Profile) WithHistory(totalWorkouts, streakDays int) *Profile {
	p.TotalWorkouts = totalWorkouts
	p.StreakDays = streakDays
	return p
}

// HasGoal reports whether g is among the profile's goals.
func (p Profile) HasGoal(g Goal) bool {
	for _, have := range p.Goals {
		if have == g {
			return true
		}
	}
	return false
}

// LevelLabel returns the fitness level for display, beginner when unknown.
func (p Profile) LevelLabel() FitnessLevel {
	if p.FitnessLevel.Known() {
		return p.FitnessLevel
	}
	return DefaultLevelLabel
}

// Activity returns the activity level, moderate when unknown.
func (p Profile) Activity() ActivityLevel {
	if p.ActivityLevel.Known() {
		return p.ActivityLevel
	}
	return DefaultActivityLevel
}

// Weight returns body weight in kg, 70 when missing or implausible.
func (p Profile) Weight() float64 {
	if !p.HasWeight() {
		return DefaultWeightKg
	}
	return *p.WeightKg
}

// HasWeight reports whether a usable body weight was recorded.
func (p Profile) HasWeight() bool {
	return p.WeightKg != nil && *p.WeightKg >= MinWeightKg && *p.WeightKg <= MaxWeightKg
}

// Height returns height in cm, 170 when missing or implausible.
func (p Profile) Height() float64 {
	if p.HeightCm == nil || *p.HeightCm < MinHeightCm || *p.HeightCm > MaxHeightCm {
		return DefaultHeightCm
	}
	return *p.HeightCm
}

// AgeYears returns age in years, 30 when missing or implausible.
func (p Profile) AgeYears() int {
	if p.Age == nil || *p.Age < MinAge || *p.Age > MaxAge {
		return DefaultAge
	}
	return *p.Age
}

// Gender returns the sex used by the BMR formula, female when missing.
func (p Profile) Gender() Sex {
	if p.Sex == "" {
		return DefaultSex
	}
	return p.Sex
}

// Workouts returns TotalWorkouts clamped to zero.
func (p Profile) Workouts() int {
	return max(0, p.TotalWorkouts)
}

// Streak returns StreakDays clamped to zero.
func (p Profile) Streak() int {
	return max(0, p.StreakDays)
}

// GoalLabels returns the goals as strings, or "general fitness" when there are none.
func (p Profile) GoalLabels() []string {
	if len(p.Goals) == 0 {
		return []string{"general fitness"}
	}
	labels := make([]string, len(p.Goals))
	for i, g := range p.Goals {
		labels[i] = string(g)
	}
	return labels
}

package nutrition

import (
	"math"
	"strings"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// Calorie adjustments applied to TDEE for weight goals.
const (
	DeficitKcal = 400
	SurplusKcal = 300
)

var activityFactors = map[types.ActivityLevel]float64{
	types.ActivitySedentary: 1.2,
	types.ActivityLight:     1.375,
	types.ActivityModerate:  1.55,
	types.ActivityActive:    1.725,
}

// GoalKind is the weight goal parsed from free-form goal text.
type GoalKind string

const (
	GoalLose     GoalKind = "lose"
	GoalGain     GoalKind = "gain"
	GoalMaintain GoalKind = "maintain"
)

// CalorieGoal holds rounded kcal values.
type CalorieGoal struct {
	BMR    int
	TDEE   int
	Target int
}

// ParseGoal classifies goal text by the first of "lose", "gain" found in it;
// anything else is maintain.
func ParseGoal(text string) GoalKind {
	normalized := strings.ToLower(text)
	switch {
	case strings.Contains(normalized, "lose"):
		return GoalLose
	case strings.Contains(normalized, "gain"):
		return GoalGain
	default:
		return GoalMaintain
	}
}

// BMR computes the Mifflin-St Jeor basal metabolic rate. An unknown sex
// averages the male and female equations.
func BMR(weightKg, heightCm float64, age int, sex types.Sex) float64 {
	common := 10*weightKg + 6.25*heightCm - 5*float64(age)
	male := common + 5
	female := common - 161
	switch sex {
	case types.SexMale:
		return male
	case types.SexFemale:
		return female
	default:
		return (male + female) / 2
	}
}

// DailyCalories estimates a profile's daily calorie target. It returns false
// when weight, height or age is missing or zero.
func DailyCalories(p types.Profile) (CalorieGoal, bool) {
	if p.WeightKg == nil || p.HeightCm == nil || p.Age == nil {
		return CalorieGoal{}, false
	}
	if *p.WeightKg == 0 || *p.HeightCm == 0 || *p.Age == 0 {
		return CalorieGoal{}, false
	}

	sex := types.SexNA
	if p.Sex != nil {
		sex = *p.Sex
	}
	bmr := BMR(*p.WeightKg, *p.HeightCm, *p.Age, sex)

	factor := 1.2
	if p.ActivityLevel != nil {
		if f, ok := activityFactors[*p.ActivityLevel]; ok {
			factor = f
		}
	}
	tdee := bmr * factor

	target := tdee
	goal := GoalMaintain
	if p.Goal != nil {
		goal = ParseGoal(*p.Goal)
	}
	switch goal {
	case GoalLose:
		target = tdee - DeficitKcal
	case GoalGain:
		target = tdee + SurplusKcal
	}

	return CalorieGoal{
		BMR:    roundHalfUp(bmr),
		TDEE:   roundHalfUp(tdee),
		Target: roundHalfUp(target),
	}, true
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

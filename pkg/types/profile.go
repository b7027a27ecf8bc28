package types

import "time"

// Sex values used by the calorie goal estimator.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexNA     Sex = "na"
)

// ActivityLevel values used by the calorie goal estimator.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
)

// Profile is a local user profile. Every optional field is nil when unset.
type Profile struct {
	ProfileID     string
	Email         string
	DisplayName   *string
	DietTags      *string
	HeightCm      *float64
	WeightKg      *float64
	Age           *int
	Sex           *Sex
	ActivityLevel *ActivityLevel
	Goal          *string
	Timezone      *string
	CreatedAt     time.Time
}

// ProfileUpdate carries the mutable profile fields. A nil field clears the
// stored value.
type ProfileUpdate struct {
	DietTags      *string
	HeightCm      *float64
	WeightKg      *float64
	Age           *int
	Sex           *Sex
	ActivityLevel *ActivityLevel
	Goal          *string
	Timezone      *string
}

package main

import (
	"time"

	"gitea.kood.tech/kristojoe/smart-roommate/backend/match"
)

// Profile is a user's roommate profile as stored in Postgres.
type Profile struct {
	UserID               int      `json:"user_id"`
	Name                 string   `json:"name"`
	Age                  int      `json:"age"`
	Gender               string   `json:"gender"`
	Occupation           string   `json:"occupation"`
	City                 string   `json:"city"`
	ZipCode              string   `json:"zip_code"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	RentBudgetMin        int      `json:"rent_budget_min"`
	RentBudgetMax        int      `json:"rent_budget_max"`
	SleepSchedule        string   `json:"sleep_schedule"`
	CleanlinessLevel     string   `json:"cleanliness_level"`
	NoiseTolerance       string   `json:"noise_tolerance"`
	Hobbies              string   `json:"hobbies"`
	PetPreference        string   `json:"pet_preference"`
	SmokingPreference    string   `json:"smoking_preference"`
	LifestyleDescription string   `json:"lifestyle_description"`
	IsActive             bool     `json:"is_active"`
}

// matchProfile converts a stored profile into the engine's input type.
func (p Profile) matchProfile() match.Profile {
	return match.Profile{
		ID:                   p.UserID,
		Name:                 p.Name,
		Age:                  p.Age,
		Gender:               p.Gender,
		Occupation:           p.Occupation,
		City:                 p.City,
		ZipCode:              p.ZipCode,
		Latitude:             p.Latitude,
		Longitude:            p.Longitude,
		RentBudgetMin:        p.RentBudgetMin,
		RentBudgetMax:        p.RentBudgetMax,
		SleepSchedule:        p.SleepSchedule,
		CleanlinessLevel:     p.CleanlinessLevel,
		NoiseTolerance:       p.NoiseTolerance,
		Hobbies:              p.Hobbies,
		PetPreference:        p.PetPreference,
		SmokingPreference:    p.SmokingPreference,
		LifestyleDescription: p.LifestyleDescription,
	}
}

// MatchHistoryRow is one persisted match outcome.
type MatchHistoryRow struct {
	ID              int       `json:"id"`
	MatchedUserID   int       `json:"matched_user_id"`
	OverallScore    float64   `json:"overall_score"`
	SimilarityScore float64   `json:"similarity_score"`
	GeoScore        float64   `json:"geo_score"`
	BudgetScore     float64   `json:"budget_score"`
	DistanceMiles   float64   `json:"distance_miles"`
	CreatedAt       time.Time `json:"created_at"`
}

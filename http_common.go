package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
)

// --- Response helpers ---
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fetchProfile loads one stored profile by user id.
func fetchProfile(db *sql.DB, userID int) (Profile, error) {
	var p Profile
	err := db.QueryRow(`
        SELECT user_id, name, age, gender, occupation, city, zip_code,
               latitude, longitude, rent_budget_min, rent_budget_max,
               sleep_schedule, cleanliness_level, noise_tolerance, hobbies,
               pet_preference, smoking_preference, lifestyle_description, is_active
        FROM profiles WHERE user_id = $1
    `, userID).Scan(
		&p.UserID, &p.Name, &p.Age, &p.Gender, &p.Occupation, &p.City, &p.ZipCode,
		&p.Latitude, &p.Longitude, &p.RentBudgetMin, &p.RentBudgetMax,
		&p.SleepSchedule, &p.CleanlinessLevel, &p.NoiseTolerance, &p.Hobbies,
		&p.PetPreference, &p.SmokingPreference, &p.LifestyleDescription, &p.IsActive,
	)
	return p, err
}

// withTx wraps a function in a database transaction.
// - Ensures COMMIT on success, ROLLBACK on errors or panics.
// - Keeps handler bodies tiny and all state changes atomic.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}

	defer func() {
		// If the callback panics, make sure to rollback before re-panicking
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

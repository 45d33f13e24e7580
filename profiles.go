package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// validateProfile collects every problem with a submitted profile so the
// client can fix them all at once.
func validateProfile(p Profile) []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	if p.Age < 18 || p.Age > 100 {
		errs = append(errs, "age must be between 18 and 100")
	}
	if !zipPattern.MatchString(p.ZipCode) {
		errs = append(errs, "invalid ZIP code format")
	}
	if p.RentBudgetMin < 0 || p.RentBudgetMax < 0 {
		errs = append(errs, "budget values must be non-negative")
	}
	if p.RentBudgetMin > p.RentBudgetMax {
		errs = append(errs, "minimum budget cannot be greater than maximum budget")
	}
	if len(strings.TrimSpace(p.LifestyleDescription)) < 10 {
		errs = append(errs, "lifestyle description must be at least 10 characters")
	}
	if (p.Latitude == nil) != (p.Longitude == nil) {
		errs = append(errs, "latitude and longitude must be provided together")
	}
	return errs
}

// meProfileHandler serves the caller's own profile:
// GET /me/profile, POST/PUT /me/profile (upsert), DELETE /me/profile (deactivate).
func meProfileHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(userIDKey).(int)

		switch r.Method {
		case http.MethodGet:
			p, err := fetchProfile(db, userID)
			if err == sql.ErrNoRows {
				writeError(w, http.StatusNotFound, "profile_not_found")
				return
			} else if err != nil {
				writeError(w, http.StatusInternalServerError, "db_error")
				return
			}
			writeJSON(w, http.StatusOK, p)

		case http.MethodPost, http.MethodPut:
			var p Profile
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_json")
				return
			}
			if errs := validateProfile(p); len(errs) > 0 {
				writeJSON(w, http.StatusBadRequest, map[string]interface{}{
					"error":  "validation_failed",
					"errors": errs,
				})
				return
			}
			p.UserID = userID

			_, err := db.Exec(`
                INSERT INTO profiles (
                    user_id, name, age, gender, occupation, city, zip_code,
                    latitude, longitude, rent_budget_min, rent_budget_max,
                    sleep_schedule, cleanliness_level, noise_tolerance, hobbies,
                    pet_preference, smoking_preference, lifestyle_description, is_active
                ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,TRUE)
                ON CONFLICT (user_id) DO UPDATE SET
                    name = EXCLUDED.name,
                    age = EXCLUDED.age,
                    gender = EXCLUDED.gender,
                    occupation = EXCLUDED.occupation,
                    city = EXCLUDED.city,
                    zip_code = EXCLUDED.zip_code,
                    latitude = EXCLUDED.latitude,
                    longitude = EXCLUDED.longitude,
                    rent_budget_min = EXCLUDED.rent_budget_min,
                    rent_budget_max = EXCLUDED.rent_budget_max,
                    sleep_schedule = EXCLUDED.sleep_schedule,
                    cleanliness_level = EXCLUDED.cleanliness_level,
                    noise_tolerance = EXCLUDED.noise_tolerance,
                    hobbies = EXCLUDED.hobbies,
                    pet_preference = EXCLUDED.pet_preference,
                    smoking_preference = EXCLUDED.smoking_preference,
                    lifestyle_description = EXCLUDED.lifestyle_description,
                    is_active = TRUE,
                    updated_at = NOW()
            `, p.UserID, p.Name, p.Age, p.Gender, p.Occupation, p.City, p.ZipCode,
				p.Latitude, p.Longitude, p.RentBudgetMin, p.RentBudgetMax,
				p.SleepSchedule, p.CleanlinessLevel, p.NoiseTolerance, p.Hobbies,
				p.PetPreference, p.SmokingPreference, p.LifestyleDescription)
			if err != nil {
				log.Println("Error saving profile:", err)
				writeError(w, http.StatusInternalServerError, "profile_save_error")
				return
			}
			p.IsActive = true
			writeJSON(w, http.StatusOK, p)

		case http.MethodDelete:
			res, err := db.Exec("UPDATE profiles SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1", userID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "db_error")
				return
			}
			if n, _ := res.RowsAffected(); n == 0 {
				writeError(w, http.StatusNotFound, "profile_not_found")
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"deactivated": true})

		default:
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
		}
	})
}

// profilesDispatcher routes /profiles (browse) and /profiles/{id} (view one).
func profilesDispatcher(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		path := strings.Trim(r.URL.Path, "/")
		parts := strings.Split(path, "/")
		if len(parts) == 1 && parts[0] == "profiles" {
			listProfiles(db, w, r)
			return
		}
		if len(parts) == 2 && parts[0] == "profiles" {
			id, err := strconv.Atoi(parts[1])
			if err != nil {
				http.NotFound(w, r)
				return
			}
			p, err := fetchProfile(db, id)
			if err == sql.ErrNoRows || (err == nil && !p.IsActive) {
				writeError(w, http.StatusNotFound, "profile_not_found")
				return
			} else if err != nil {
				writeError(w, http.StatusInternalServerError, "db_error")
				return
			}
			writeJSON(w, http.StatusOK, p)
			return
		}
		http.NotFound(w, r)
	})
}

func listProfiles(db *sql.DB, w http.ResponseWriter, r *http.Request) {
	page, perPage := paginationParams(r, 20)

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM profiles WHERE is_active").Scan(&total); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	rows, err := db.Query(`
        SELECT user_id, name, age, gender, occupation, city, zip_code,
               latitude, longitude, rent_budget_min, rent_budget_max,
               sleep_schedule, cleanliness_level, noise_tolerance, hobbies,
               pet_preference, smoking_preference, lifestyle_description, is_active
        FROM profiles
        WHERE is_active
        ORDER BY user_id
        LIMIT $1 OFFSET $2
    `, perPage, (page-1)*perPage)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	defer rows.Close()

	profiles := make([]Profile, 0, perPage)
	for rows.Next() {
		var p Profile
		if err := rows.Scan(
			&p.UserID, &p.Name, &p.Age, &p.Gender, &p.Occupation, &p.City, &p.ZipCode,
			&p.Latitude, &p.Longitude, &p.RentBudgetMin, &p.RentBudgetMax,
			&p.SleepSchedule, &p.CleanlinessLevel, &p.NoiseTolerance, &p.Hobbies,
			&p.PetPreference, &p.SmokingPreference, &p.LifestyleDescription, &p.IsActive,
		); err != nil {
			continue
		}
		profiles = append(profiles, p)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":    profiles,
		"total":    total,
		"page":     page,
		"per_page": perPage,
		"pages":    (total + perPage - 1) / perPage,
	})
}

func paginationParams(r *http.Request, defaultPerPage int) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = defaultPerPage
	}
	return page, perPage
}

// fetchActiveCandidates loads every active profile except the subject's own.
func fetchActiveCandidates(db *sql.DB, userID int) ([]Profile, error) {
	rows, err := db.Query(`
        SELECT user_id, name, age, gender, occupation, city, zip_code,
               latitude, longitude, rent_budget_min, rent_budget_max,
               sleep_schedule, cleanliness_level, noise_tolerance, hobbies,
               pet_preference, smoking_preference, lifestyle_description, is_active
        FROM profiles
        WHERE is_active AND user_id <> $1
        ORDER BY user_id
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(
			&p.UserID, &p.Name, &p.Age, &p.Gender, &p.Occupation, &p.City, &p.ZipCode,
			&p.Latitude, &p.Longitude, &p.RentBudgetMin, &p.RentBudgetMax,
			&p.SleepSchedule, &p.CleanlinessLevel, &p.NoiseTolerance, &p.Hobbies,
			&p.PetPreference, &p.SmokingPreference, &p.LifestyleDescription, &p.IsActive,
		); err != nil {
			continue
		}
		candidates = append(candidates, p)
	}
	return candidates, rows.Err()
}

package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gitea.kood.tech/kristojoe/smart-roommate/backend/match"
)

// matchOptions is the client-tunable part of a match request. Everything is
// optional; zero values fall back to the engine defaults.
type matchOptions struct {
	MaxMatches     int            `json:"max_matches"`
	MinScore       float64        `json:"min_score"`
	MaxRadiusMiles float64        `json:"max_radius_miles"`
	Weights        *match.Weights `json:"weights"`
}

func (o matchOptions) config() match.Config {
	cfg := match.Config{
		Threshold:      o.MinScore,
		MaxResults:     o.MaxMatches,
		MaxRadiusMiles: o.MaxRadiusMiles,
	}
	if o.Weights != nil {
		cfg.Weights = *o.Weights
	}
	return cfg
}

// skippedCandidate tells the client why a candidate is missing from results.
type skippedCandidate struct {
	ProfileID int    `json:"profile_id"`
	Reason    string `json:"reason"`
}

func skipReasons(cerrs []match.CandidateError) []skippedCandidate {
	skipped := make([]skippedCandidate, 0, len(cerrs))
	for _, ce := range cerrs {
		skipped = append(skipped, skippedCandidate{ProfileID: ce.CandidateID, Reason: ce.Err.Error()})
	}
	return skipped
}

// POST /matches - rank all active profiles against the caller's profile
func matchesHandler(db *sql.DB, eng *match.Engine) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		userID := r.Context().Value(userIDKey).(int)

		var opts matchOptions
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_json")
				return
			}
		}

		subject, err := fetchProfile(db, userID)
		if err == sql.ErrNoRows || (err == nil && !subject.IsActive) {
			writeError(w, http.StatusForbidden, "incomplete_profile")
			return
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		candidates, err := fetchActiveCandidates(db, userID)
		if err != nil {
			log.Println("Error loading candidates:", err)
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		req := match.Request{
			Subject:    subject.matchProfile(),
			Candidates: make([]match.Profile, 0, len(candidates)),
			Config:     opts.config(),
		}
		for _, c := range candidates {
			req.Candidates = append(req.Candidates, c.matchProfile())
		}

		results, cerrs, err := eng.Rank(r.Context(), req)
		if err != nil {
			writeMatchError(w, err)
			return
		}

		if err := saveMatchHistory(r.Context(), db, userID, results); err != nil {
			// History is best-effort bookkeeping; the ranking itself succeeded.
			log.Println("Error saving match history:", err)
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"matches":          results,
			"skipped":          skipReasons(cerrs),
			"total_candidates": len(candidates),
		})
	})
}

// POST /matches/compatibility - pairwise breakdown between the caller and one profile
func compatibilityHandler(db *sql.DB, eng *match.Engine) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		userID := r.Context().Value(userIDKey).(int)

		var req struct {
			ProfileID int `json:"profile_id"`
			matchOptions
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if req.ProfileID == userID {
			writeError(w, http.StatusBadRequest, "cannot_match_self")
			return
		}

		subject, err := fetchProfile(db, userID)
		if err == sql.ErrNoRows || (err == nil && !subject.IsActive) {
			writeError(w, http.StatusForbidden, "incomplete_profile")
			return
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		candidate, err := fetchProfile(db, req.ProfileID)
		if err == sql.ErrNoRows || (err == nil && !candidate.IsActive) {
			writeError(w, http.StatusNotFound, "profile_not_found")
			return
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		result, err := eng.Compatibility(r.Context(), subject.matchProfile(), candidate.matchProfile(), req.config())
		if err != nil {
			writeMatchError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})
}

// writeMatchError maps engine errors onto HTTP statuses: malformed requests
// are the client's fault, an unreachable model is not.
func writeMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, match.ErrModelUnavailable):
		log.Println("Embedding model unavailable:", err)
		writeError(w, http.StatusServiceUnavailable, "model_unavailable")
	case errors.Is(err, match.ErrWeightSum),
		errors.Is(err, match.ErrEmptyText),
		errors.Is(err, match.ErrBudgetRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, match.ErrLocationUnresolved),
		errors.Is(err, match.ErrDimensionMismatch):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Println("Match error:", err)
		writeError(w, http.StatusInternalServerError, "match_error")
	}
}

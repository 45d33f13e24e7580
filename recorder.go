package main

import (
	"context"
	"database/sql"
	"net/http"

	"gitea.kood.tech/kristojoe/smart-roommate/backend/match"
)

// saveMatchHistory persists one ranking's results as match_history rows.
// All rows go in a single transaction so a partial batch never appears in
// the history.
func saveMatchHistory(ctx context.Context, db *sql.DB, userID int, results []match.Result) error {
	if len(results) == 0 {
		return nil
	}
	return withTx(ctx, db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
            INSERT INTO match_history (
                user_id, matched_user_id, overall_score,
                similarity_score, geo_score, budget_score, distance_miles
            ) VALUES ($1,$2,$3,$4,$5,$6,$7)
        `)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, res := range results {
			if _, err := stmt.Exec(
				userID, res.CandidateID, res.Overall,
				res.Similarity, res.Geo, res.Budget, res.DistanceMiles,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// GET /matches/history?page=1&per_page=20
func matchHistoryHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		userID := r.Context().Value(userIDKey).(int)
		page, perPage := paginationParams(r, 20)

		var total int
		if err := db.QueryRow("SELECT COUNT(*) FROM match_history WHERE user_id = $1", userID).Scan(&total); err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		rows, err := db.Query(`
            SELECT id, matched_user_id, overall_score, similarity_score,
                   geo_score, budget_score, distance_miles, created_at
            FROM match_history
            WHERE user_id = $1
            ORDER BY created_at DESC, id DESC
            LIMIT $2 OFFSET $3
        `, userID, perPage, (page-1)*perPage)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		defer rows.Close()

		items := make([]MatchHistoryRow, 0, perPage)
		for rows.Next() {
			var row MatchHistoryRow
			if err := rows.Scan(
				&row.ID, &row.MatchedUserID, &row.OverallScore, &row.SimilarityScore,
				&row.GeoScore, &row.BudgetScore, &row.DistanceMiles, &row.CreatedAt,
			); err != nil {
				continue
			}
			items = append(items, row)
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"items":    items,
			"total":    total,
			"page":     page,
			"per_page": perPage,
			"pages":    (total + perPage - 1) / perPage,
		})
	})
}

// GET /matches/stats - aggregate matching statistics
func matchStatsHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		var totalProfiles, totalMatches int
		var avgScore sql.NullFloat64
		if err := db.QueryRow("SELECT COUNT(*) FROM profiles WHERE is_active").Scan(&totalProfiles); err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if err := db.QueryRow("SELECT COUNT(*), AVG(overall_score) FROM match_history").Scan(&totalMatches, &avgScore); err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"total_profiles":              totalProfiles,
			"total_matches":               totalMatches,
			"average_compatibility_score": avgScore.Float64,
		})
	})
}

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserIDKey is the key type for storing user ID in context
type UserIDKey string

const userIDKey UserIDKey = "userID"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func registerHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		type RegisterRequest struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		req.Password = strings.TrimSpace(req.Password)
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}
		if !emailPattern.MatchString(req.Email) {
			writeError(w, http.StatusBadRequest, "invalid_email")
			return
		}
		if len(req.Password) < 8 {
			writeError(w, http.StatusBadRequest, "password_too_short")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "hash_error")
			log.Println("Error hashing password:", err)
			return
		}

		var newID int
		err = db.QueryRow(
			"INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id",
			req.Email, string(hashedPassword),
		).Scan(&newID)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
				writeError(w, http.StatusConflict, "email_exists")
				return
			}
			writeError(w, http.StatusInternalServerError, "register_error")
			log.Println("Error saving user to database:", err)
			return
		}

		tokenString, err := issueToken(newID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "token_generation_error")
			log.Println("Error generating token for new user:", err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{"token": tokenString, "id": newID})
	}
}

func loginHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		type LoginRequest struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		req.Password = strings.TrimSpace(req.Password)
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}

		var userID int
		var passwordHash string
		err := db.QueryRow("SELECT id, password_hash FROM users WHERE email = $1", req.Email).Scan(&userID, &passwordHash)
		if err == sql.ErrNoRows {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		} else if err != nil {
			log.Println("Error querying user:", err)
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}

		tokenString, err := issueToken(userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "token_generation_error")
			log.Println("Error generating token:", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"token": tokenString, "id": userID})
	}
}

// GET /me - basic account info plus whether a profile exists yet
func meHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(userIDKey).(int)

		var email string
		err := db.QueryRow("SELECT email FROM users WHERE id = $1", userID).Scan(&email)
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "not_found")
			return
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		var hasProfile bool
		_ = db.QueryRow("SELECT EXISTS (SELECT 1 FROM profiles WHERE user_id = $1 AND is_active)", userID).Scan(&hasProfile)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":          userID,
			"email":       email,
			"has_profile": hasProfile,
		})
	})
}

func issueToken(userID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret)
}

func authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "Invalid token claims", http.StatusUnauthorized)
			return
		}
		userID, ok := claims["user_id"].(float64)
		if !ok {
			http.Error(w, "Invalid user ID in token", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, int(userID))))
	}
}

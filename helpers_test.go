package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Initialize JWT secret for handler tests
func init() {
	jwtSecret = []byte("test-secret-key-for-testing")
}

// createTestUser creates a user with the given email and password, returns TestUser with ID and Token
func createTestUser(t *testing.T, email, password string) TestUser {
	t.Helper()

	// Clean up existing user
	db.Exec("DELETE FROM users WHERE email = $1", email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to generate bcrypt hash: %v", err)
	}

	var userID int
	err = db.QueryRow("INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id", email, string(hash)).Scan(&userID)
	if err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}

	token := loginUser(t, email, password)

	return TestUser{
		ID:       userID,
		Email:    email,
		Password: password,
		Token:    token,
	}
}

// loginUser logs in a user and returns the JWT token
func loginUser(t *testing.T, email, password string) string {
	t.Helper()

	reqBody := []byte(fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	loginHandler(db).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login failed for %s: status %d", email, w.Code)
	}

	var respBody map[string]interface{}
	json.NewDecoder(w.Body).Decode(&respBody)
	token, ok := respBody["token"].(string)
	if !ok {
		t.Fatalf("expected token in login response, got %v", respBody)
	}

	return token
}

// createTestProfile creates a complete profile for a user via the handler
func createTestProfile(t *testing.T, user TestUser, profile Profile) {
	t.Helper()

	db.Exec("DELETE FROM profiles WHERE user_id = $1", user.ID)

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		t.Fatalf("failed to marshal profile: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/me/profile", bytes.NewBuffer(profileJSON))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+user.Token)
	w := httptest.NewRecorder()

	meProfileHandler(db).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("failed to create profile for user %d: status %d body %s", user.ID, w.Code, w.Body.String())
	}
}

// getDefaultTestProfile returns a valid profile for testing
func getDefaultTestProfile() Profile {
	return Profile{
		Name:                 "Test User",
		Age:                  27,
		Gender:               "Other",
		Occupation:           "Software Developer",
		City:                 "Dallas",
		ZipCode:              "75201",
		RentBudgetMin:        600,
		RentBudgetMax:        800,
		SleepSchedule:        "Night Owl",
		CleanlinessLevel:     "Moderately Clean",
		NoiseTolerance:       "Moderate",
		Hobbies:              "board games, climbing",
		PetPreference:        "Either",
		SmokingPreference:    "No",
		LifestyleDescription: "Quiet weekday evenings, social on weekends, cooks a lot.",
	}
}

// cleanupTestData removes test data for given emails
func cleanupTestData(emails ...string) {
	for _, email := range emails {
		db.Exec("DELETE FROM match_history WHERE user_id IN (SELECT id FROM users WHERE email = $1) OR matched_user_id IN (SELECT id FROM users WHERE email = $1)", email)
		db.Exec("DELETE FROM profiles WHERE user_id IN (SELECT id FROM users WHERE email = $1)", email)
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func postProfile(t *testing.T, token string, profile Profile) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(profile)
	if err != nil {
		t.Fatalf("failed to marshal profile: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/me/profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	meProfileHandler(db).ServeHTTP(w, req)
	return w
}

func TestProfileValidation(t *testing.T) {
	// Validation runs before any database work, so a synthetic token is enough.
	token, err := issueToken(9999)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{"Missing Name", func(p *Profile) { p.Name = " " }, "name is required"},
		{"Too Young", func(p *Profile) { p.Age = 17 }, "age must be between 18 and 100"},
		{"Too Old", func(p *Profile) { p.Age = 101 }, "age must be between 18 and 100"},
		{"Bad ZIP", func(p *Profile) { p.ZipCode = "7520" }, "invalid ZIP code format"},
		{"Negative Budget", func(p *Profile) { p.RentBudgetMin = -1 }, "budget values must be non-negative"},
		{"Inverted Budget", func(p *Profile) { p.RentBudgetMin = 900; p.RentBudgetMax = 600 }, "minimum budget cannot be greater than maximum budget"},
		{"Short Description", func(p *Profile) { p.LifestyleDescription = "quiet" }, "lifestyle description must be at least 10 characters"},
		{"Latitude Without Longitude", func(p *Profile) { lat := 32.78; p.Latitude = &lat }, "latitude and longitude must be provided together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := getDefaultTestProfile()
			tt.mutate(&profile)

			w := postProfile(t, token, profile)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.wantErr) {
				t.Errorf("expected error %q in response, got %s", tt.wantErr, w.Body.String())
			}
		})
	}
}

func TestProfileLifecycle(t *testing.T) {
	skipIfNoDB(t)

	email := "profile_lifecycle@example.com"
	defer cleanupTestData(email)
	user := createTestUser(t, email, "password123")

	t.Run("Get Before Create", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me/profile", nil)
		req.Header.Set("Authorization", "Bearer "+user.Token)
		w := httptest.NewRecorder()

		meProfileHandler(db).ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
	})

	t.Run("Create", func(t *testing.T) {
		w := postProfile(t, user.Token, getDefaultTestProfile())
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("Get After Create", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me/profile", nil)
		req.Header.Set("Authorization", "Bearer "+user.Token)
		w := httptest.NewRecorder()

		meProfileHandler(db).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		var p Profile
		json.NewDecoder(w.Body).Decode(&p)
		if p.Name != "Test User" || p.ZipCode != "75201" {
			t.Errorf("unexpected profile returned: %+v", p)
		}
		if !p.IsActive {
			t.Error("expected profile to be active")
		}
	})

	t.Run("Update", func(t *testing.T) {
		profile := getDefaultTestProfile()
		profile.City = "Austin"
		profile.ZipCode = "78701"
		w := postProfile(t, user.Token, profile)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		saved, err := fetchProfile(db, user.ID)
		if err != nil {
			t.Fatalf("failed to fetch profile: %v", err)
		}
		if saved.City != "Austin" || saved.ZipCode != "78701" {
			t.Errorf("update not persisted: %+v", saved)
		}
	})

	t.Run("Deactivate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/me/profile", nil)
		req.Header.Set("Authorization", "Bearer "+user.Token)
		w := httptest.NewRecorder()

		meProfileHandler(db).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		saved, err := fetchProfile(db, user.ID)
		if err != nil {
			t.Fatalf("failed to fetch profile: %v", err)
		}
		if saved.IsActive {
			t.Error("expected profile to be inactive after DELETE")
		}
	})

	t.Run("Reactivate On Upsert", func(t *testing.T) {
		w := postProfile(t, user.Token, getDefaultTestProfile())
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		saved, _ := fetchProfile(db, user.ID)
		if !saved.IsActive {
			t.Error("expected upsert to reactivate the profile")
		}
	})
}

func TestListProfiles(t *testing.T) {
	skipIfNoDB(t)

	emails := []string{"list_a@example.com", "list_b@example.com", "list_c@example.com"}
	defer cleanupTestData(emails...)

	var viewer TestUser
	for i, email := range emails {
		user := createTestUser(t, email, "password123")
		createTestProfile(t, user, getDefaultTestProfile())
		if i == 0 {
			viewer = user
		}
	}

	t.Run("List", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profiles?per_page=2", nil)
		req.Header.Set("Authorization", "Bearer "+viewer.Token)
		w := httptest.NewRecorder()

		profilesDispatcher(db).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		var resp struct {
			Items   []Profile `json:"items"`
			Total   int       `json:"total"`
			PerPage int       `json:"per_page"`
		}
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Total < 3 {
			t.Errorf("expected total >= 3, got %d", resp.Total)
		}
		if len(resp.Items) > 2 {
			t.Errorf("expected at most 2 items per page, got %d", len(resp.Items))
		}
	})

	t.Run("View One", func(t *testing.T) {
		// viewer can also view themselves through /profiles/{id}
		req := httptest.NewRequest(http.MethodGet, "/profiles/"+strconv.Itoa(viewer.ID), nil)
		req.Header.Set("Authorization", "Bearer "+viewer.Token)
		w := httptest.NewRecorder()

		profilesDispatcher(db).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
	})

	t.Run("View Missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profiles/999999", nil)
		req.Header.Set("Authorization", "Bearer "+viewer.Token)
		w := httptest.NewRecorder()

		profilesDispatcher(db).ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
	})

	t.Run("Invalid ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profiles/abc", nil)
		req.Header.Set("Authorization", "Bearer "+viewer.Token)
		w := httptest.NewRecorder()

		profilesDispatcher(db).ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
	})
}

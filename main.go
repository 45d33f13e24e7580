package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"

	"gitea.kood.tech/kristojoe/smart-roommate/backend/match"
)

// JWT secret from environment variable or fallback
func getJWTSecret() []byte {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte("your_secret_key_please_change_in_production")
}

var jwtSecret = getJWTSecret()

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	jwtSecret = getJWTSecret()

	initDB()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set, cannot score lifestyle similarity without the embedding model")
	}
	embedder, err := match.NewOpenAIEmbedder(apiKey, openai.EmbeddingModel(os.Getenv("EMBEDDING_MODEL")))
	if err != nil {
		log.Fatal("Error creating embedder:", err)
	}
	// One engine instance for the whole process: the embedder handle is the
	// only shared state and is safe for concurrent use.
	engine := match.NewEngine(embedder)

	mux := http.NewServeMux()

	// Core auth & user endpoints
	mux.Handle("/register", registerHandler(db))
	mux.Handle("/login", loginHandler(db))
	mux.Handle("/me", meHandler(db))
	mux.Handle("/me/profile", meProfileHandler(db))

	// Profile browsing
	mux.Handle("/profiles", profilesDispatcher(db))
	mux.Handle("/profiles/", profilesDispatcher(db))

	// Matching
	mux.Handle("/matches", matchesHandler(db, engine))
	mux.Handle("/matches/compatibility", compatibilityHandler(db, engine))
	mux.Handle("/matches/history", matchHistoryHandler(db))
	mux.Handle("/matches/stats", matchStatsHandler(db))

	// Health check endpoint for Docker
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Default().Println("Starting Smart Roommate backend on port " + port + "...")
	http.ListenAndServe(":"+port, withCORS(mux))
}

package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/example/vocabot/internal/api"
	"github.com/example/vocabot/internal/bot"
	"github.com/example/vocabot/internal/database"
	"github.com/example/vocabot/internal/translation"
	"github.com/example/vocabot/internal/worker"
)

func main() {
	// .env нужен только для локального запуска
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	words := database.NewWordRepository(wordsPerDayLimit(), exemptUsers())

	b, err := bot.New(words, translation.New())
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	w := worker.New(
		database.NewUserRepository(),
		database.NewReviewRepository(),
		database.NewSessionRepository(),
		b,
	)
	w.Start(envInt("WORKER_TICK_SECONDS", 60))

	apiAddr := os.Getenv("API_ADDR")
	if apiAddr == "" {
		apiAddr = ":8080"
	}
	go func() {
		if err := api.NewServer(words).Run(apiAddr); err != nil {
			log.Printf("API server error: %v", err)
		}
	}()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		w.Stop()
		b.Stop()
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
	log.Println("Bot stopped successfully")
}

// wordsPerDayLimit reads the per-day cap on new words. Zero or negative
// disables the cap.
func wordsPerDayLimit() int {
	return envInt("WORDS_PER_DAY_LIMIT", 9)
}

// exemptUsers builds the allow-list predicate from UNLIMITED_USER_IDS.
func exemptUsers() database.ExemptFunc {
	raw := os.Getenv("UNLIMITED_USER_IDS")
	if raw == "" {
		return nil
	}
	ids := make(map[int64]bool)
	for _, idStr := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			log.Printf("Warning: Invalid unlimited user ID: %s", idStr)
			continue
		}
		ids[id] = true
	}
	return func(userID int64) bool { return ids[userID] }
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: Invalid %s value %q, using %d", name, raw, fallback)
		return fallback
	}
	return value
}

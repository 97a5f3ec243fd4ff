package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JustLearn2025/JustLearnBot/internal/database"
	"github.com/JustLearn2025/JustLearnBot/internal/excel"
	"github.com/JustLearn2025/JustLearnBot/internal/scheduler"
)

// logNotifier is the default reminder sink. Real delivery (chat message,
// push, ...) is owned by the presentation layer plugged in by the deployment.
type logNotifier struct{}

func (logNotifier) SendReminder(userID string, weakTopics []string) error {
	log.Printf("Reminder for user %s: practice %s", userID, strings.Join(weakTopics, ", "))
	return nil
}

func main() {
	importFile := flag.String("import", "", "Import questions from an Excel or CSV file and exit")
	flag.Parse()

	// Load .env if present; environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *importFile != "" {
		config := excel.DefaultImportConfig()
		config.FilePath = *importFile

		result, err := excel.ImportQuestions(config)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Import finished: %d processed, %d created, %d skipped, %d errors",
			result.TotalProcessed, result.Created, result.Skipped, len(result.Errors))
		for _, e := range result.Errors {
			log.Printf("  %s", e)
		}
		return
	}

	// Run the reminder scheduler until interrupted
	s := scheduler.New(logNotifier{})
	s.Start()
	defer s.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("Scheduler started. Press Ctrl+C to stop.")
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)
}

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/lingobot/internal/bot"
	"github.com/example/lingobot/internal/curriculum"
	"github.com/example/lingobot/internal/database"
	"github.com/example/lingobot/internal/scheduler"
	"github.com/example/lingobot/internal/sm2"
)

func main() {
	importPath := flag.String("import", "", "import curriculum from an Excel or CSV file and exit")
	flag.Parse()

	// Local .env is optional; real deployments use the environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *importPath != "" {
		runImport(*importPath)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := bot.New()
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	sched := scheduler.New(b, sm2.LocalClock{})
	sched.Start()
	defer sched.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := b.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	go func() {
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Bot error: %v", err)
		}
	}()

	<-done
	log.Println("Bot stopped successfully")
}

// runImport loads curriculum content and prints a summary
func runImport(path string) {
	config := curriculum.DefaultImportConfig()
	config.FilePath = path

	result, err := curriculum.NewImporter().Import(context.Background(), config)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import finished: %d rows processed, %d units / %d nodes / %d levels created, %d exercises created, %d updated, %d skipped",
		result.TotalProcessed, result.UnitsCreated, result.NodesCreated, result.LevelsCreated,
		result.Created, result.Updated, result.Skipped)
	for _, e := range result.Errors {
		log.Printf("Import error: %s", e)
	}
}

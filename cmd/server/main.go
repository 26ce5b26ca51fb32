package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atcoder_bingo/internal/api"
	"atcoder_bingo/internal/app/service"
	"atcoder_bingo/internal/app/worker"
	"atcoder_bingo/internal/atcoder"
	"atcoder_bingo/internal/domain/repository"
	"atcoder_bingo/internal/platform/config"
	"atcoder_bingo/internal/platform/database"
	"atcoder_bingo/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize Database
	db := database.Connect()
	defer database.Close(db)

	// 3. Initialize Redis
	rdb := queue.ConnectRedis()
	defer queue.CloseRedis(rdb)

	// 4. Initialize Repositories & Feed Client
	boardRepo := repository.NewPgBoardRepository(db)
	statusRepo := repository.NewPgStatusRepository(db)
	feedClient := atcoder.NewClient(
		config.AppConfig.AtCoderResourcesURL,
		config.AppConfig.AtCoderAPIURL,
		config.AppConfig.FetchDelay,
	)

	// 5. Initialize Services
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	boardService := service.NewBoardService(boardRepo, statusRepo, feedClient, rng)
	syncService := service.NewSyncService(boardRepo, statusRepo, feedClient, config.AppConfig.SubmissionPageSize)

	// 6. Start the two polling loops
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go worker.NewBoardWorker(rdb, boardService).Start(workerCtx)
	go worker.NewSyncWorker(syncService).Start(workerCtx)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(boardService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal pollers to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and workers stopped gracefully.")
}

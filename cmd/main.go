package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/cache"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/config"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/event"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/handlers"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/jobs"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/observability"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/services"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/state"
)

func setupLogging() (*os.File, error) {
	logDir := getEnvOrDefault("LOG_DIR", filepath.Join("log", "kronos"))
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()
	log.Printf("KRONOS Configuration: %+v", cfg)

	metrics := observability.NewMetrics()

	// The snapshot cache and the event publisher are optional collaborators;
	// with no host configured the service runs purely in-memory.
	var logCache *cache.LogCache
	if cfg.RedisCfg.Host != "" {
		logCache, err = cache.NewLogCache(cfg.RedisCfg)
		if err != nil {
			log.Printf("Snapshot cache disabled: %v", err)
			logCache = nil
		} else {
			defer logCache.Close()
		}
	}

	var publisher *event.SimulationPublisher
	if cfg.RabbitMQCfg.Host != "" {
		conn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
		if err != nil {
			log.Printf("Event publishing disabled: %v", err)
		} else {
			defer conn.Close()
			publisher = event.NewSimulationPublisher(conn)
		}
	}

	store := state.NewFleetStore()
	simService := services.NewSimulationService(cfg.SimServiceCfg, logCache, metrics)
	chatService := services.NewChatService(cfg.ChatCfg, metrics)

	// Initial load: remote, recompute, cache, bundled snapshot, empty.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	initialLog := simService.LoadLog(ctx)
	store.ReplaceLog(initialLog)
	store.ReplaceExplanations(simService.FetchExplanations(ctx))
	cancel()
	log.Printf("Loaded simulation log with %d day(s)", len(initialLog))

	refreshJob, err := jobs.NewLogRefreshJob(cfg.RefreshCfg.Schedule, store, simService, publisher)
	if err != nil {
		log.Fatalf("Invalid refresh schedule %q: %v", cfg.RefreshCfg.Schedule, err)
	}
	defer refreshJob.Stop()

	r := gin.Default()
	r.Use(metrics.Middleware())
	r.GET("/metrics", metrics.Handler())

	dashboardHandler := handlers.NewDashboardHandler(store, simService, publisher)
	dashboardHandler.RegisterRoutes(r)
	chatHandler := handlers.NewChatHandler(chatService)
	chatHandler.RegisterRoutes(r)

	log.Printf("Starting kronos on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

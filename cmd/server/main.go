package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	if err := service.Store.ApplyMigrations(service.Config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	pageHandler := handlers.NewPageHandler(service)

	http.HandleFunc("GET /{$}", pageHandler.HandleListStudents)
	http.HandleFunc("POST /add", pageHandler.HandleAddStudent)
	http.HandleFunc("GET /delete/{id}", pageHandler.HandleDeleteStudent)
	http.HandleFunc("GET /edit/{id}", pageHandler.HandleEditForm)
	http.HandleFunc("POST /edit/{id}", pageHandler.HandleEditStudent)
	http.HandleFunc("GET /register", pageHandler.HandleRegisterForm)
	http.HandleFunc("POST /register", pageHandler.HandleRegister)
	http.HandleFunc("GET /login", pageHandler.HandleLoginForm)
	http.HandleFunc("POST /login", pageHandler.HandleLogin)
	http.HandleFunc("GET /logout", pageHandler.HandleLogout)

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting semla server on %s", service.Config.Server.Port)
	logger.Debug.Printf("Unauthorized policy: %s", service.Config.Auth.OnUnauthorized)
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Semla server failed: %v", err)
	}
}

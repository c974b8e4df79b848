package main

import (
	"log"
	"net/http"
	"os"

	"scar_tracker/internal/config"
	"scar_tracker/internal/logger"
	"scar_tracker/internal/middleware"
	"scar_tracker/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database and apply migrations + seed
	config.InitDB()

	// Setup Gin router
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server running at :%s", port)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+port, handler))
}

// TaskTrackerService is a web service that provides CRUD operations for tasks.
//
// It stores tasks in an in-memory repository owned exclusively by the process;
// nothing is persisted across restarts. Requests are validated at the HTTP
// boundary, rate limited with a token bucket to protect against abuse, and
// recorded with Prometheus counters for monitoring. The service also serves a
// small static frontend for browsing tasks.
//
// The following endpoints are available:
//
//  1. GET    /api/health            - Health check
//  2. GET    /api/tasks             - Get all tasks
//  3. POST   /api/tasks             - Create a new task
//  4. GET    /api/tasks/{id}        - Get a task by ID
//  5. PUT    /api/tasks/{id}        - Update an existing task
//  6. PATCH  /api/tasks/{id}/toggle - Toggle task completion
//  7. DELETE /api/tasks/{id}        - Delete a task
//  8. GET    /metrics               - Display Prometheus metrics
//  9. GET    /                      - Serve the frontend page
//
// You may use godoc -http=:6060 to view the documentation in your browser.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"TaskTrackerService/handlers"
	"TaskTrackerService/repository"
	"TaskTrackerService/response"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	limiter      = rate.NewLimiter(2, 20)
	errorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tasktracker_errors_total",
		Help: "Total number of errors occurred in the application.",
	}, []string{"endpoint"})
	endPointCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tasktracker_endpoint_calls_total",
		Help: "Total number of calls per endpoint.",
	}, []string{"endpoint"})
	log = logrus.New()
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	prometheus.MustRegister(errorCounter)
	prometheus.MustRegister(endPointCounter)

	taskRepo := repository.NewTaskRepository(log)
	if os.Getenv("SEED_TASKS") != "false" {
		seedTasks(taskRepo)
	}

	taskHandler := handlers.NewTaskHandler(taskRepo, log, endPointCounter, errorCounter)

	router := mux.NewRouter()
	router.Use(rateLimiter)
	taskHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "static"
	}
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	router.HandleFunc("/", func(res http.ResponseWriter, req *http.Request) {
		http.ServeFile(res, req, filepath.Join(staticDir, "index.html"))
	}).Methods(http.MethodGet)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		log.Info("Server listening on port " + port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Failed to shutdown server: %v", err)
	}
}

// seedTasks inserts the starter tasks through the repository so they get ids
// and timestamps the same way client-created tasks do.
func seedTasks(repo *repository.TaskRepository) {
	repo.Create("Learn Go", "Master building web services in Go")
	repo.Create("Build UI", "Create a beautiful frontend interface")
}

// rateLimiter is a middleware function that implements rate limiting for HTTP requests.
// If the request is not allowed due to rate limiting, it returns a JSON response with
// an error message and HTTP status code 429 (Too Many Requests).
func rateLimiter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		if !limiter.Allow() {
			message := response.Message{
				Status: "Request Failed",
				Body:   "The API is at capacity, try again later.",
			}
			res.Header().Set("Content-Type", "application/json")
			res.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(res).Encode(&message)
			return
		}
		next.ServeHTTP(res, req)
	})
}

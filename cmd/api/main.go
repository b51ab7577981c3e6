package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/ChiefVishPat/payroll-sentinel/internal/config"
	"github.com/ChiefVishPat/payroll-sentinel/internal/handler"
	"github.com/ChiefVishPat/payroll-sentinel/internal/integrations/banking"
	"github.com/ChiefVishPat/payroll-sentinel/internal/integrations/payroll"
	"github.com/ChiefVishPat/payroll-sentinel/internal/metrics"
	"github.com/ChiefVishPat/payroll-sentinel/internal/middleware"
	"github.com/ChiefVishPat/payroll-sentinel/internal/repository"
	"github.com/ChiefVishPat/payroll-sentinel/internal/risk"
	"github.com/ChiefVishPat/payroll-sentinel/internal/scheduler"
	"github.com/ChiefVishPat/payroll-sentinel/internal/service"
	"github.com/ChiefVishPat/payroll-sentinel/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	bankingClient := banking.NewClient(cfg, logger)
	payrollClient := payroll.NewClient(cfg, logger)
	alertSender := email.NewSender(cfg, logger)
	collector := metrics.NewCollector()
	engine := risk.NewEngine(cfg.SafetyMultiplier)
	svc := service.NewService(repo, bankingClient, payrollClient, alertSender, collector, engine, logger, cfg)
	h := handler.NewHandler(svc)

	// Start periodic assessments
	sched := scheduler.NewScheduler(svc, logger)
	if err := sched.Start(cfg.AssessmentCron); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", collector.Handler()).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/companies", h.CreateCompany).Methods("POST")
	authRouter.HandleFunc("/companies", h.ListCompanies).Methods("GET")
	authRouter.HandleFunc("/companies/{id}/obligations", h.AddObligation).Methods("POST")
	authRouter.HandleFunc("/companies/{id}/inflows", h.AddInflow).Methods("POST")
	authRouter.HandleFunc("/companies/{id}/assessments", h.RunAssessment).Methods("POST")
	authRouter.HandleFunc("/companies/{id}/assessments/latest", h.LatestAssessment).Methods("GET")
	authRouter.HandleFunc("/companies/{id}/risk-score", h.RiskScore).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}

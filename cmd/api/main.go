package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/bmukendi/coopec-service/internal/config"
	"github.com/bmukendi/coopec-service/internal/handler"
	"github.com/bmukendi/coopec-service/internal/integrations/keyrate"
	"github.com/bmukendi/coopec-service/internal/middleware"
	"github.com/bmukendi/coopec-service/internal/repository"
	"github.com/bmukendi/coopec-service/internal/service"
	"github.com/bmukendi/coopec-service/internal/utils/email"
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
	svc := service.NewService(repo, logger, cfg)
	defer svc.Close()
	rateClient := keyrate.NewClient(cfg, logger)
	h := handler.NewHandler(svc, rateClient, logger)
	sender := email.NewSender(cfg, logger)

	// Notifier: consume ledger events and send emails outside the
	// transaction path
	go func() {
		for ev := range svc.Events() {
			if err := sender.SendLedgerEvent(ev); err != nil {
				logger.Errorf("Failed to notify for event %s: %v", ev.Receipt, err)
			}
		}
	}()

	// Daily refresh flips credits past maturity to overdue
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 1 * * *", func() {
		flipped, err := svc.RefreshCreditStatuses(context.Background())
		if err != nil {
			logger.Errorf("Credit status refresh failed: %v", err)
			return
		}
		logger.Infof("Credit status refresh done, %d credits flipped to overdue", flipped)
	}); err != nil {
		logger.Fatalf("Failed to schedule status refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Key rate endpoint suggests a credit rate from the central bank rate
	r.HandleFunc("/key-rate", func(w http.ResponseWriter, r *http.Request) {
		rate, err := rateClient.SuggestedRate()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get key rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"suggested_rate": rate})
	}).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	authRouter.HandleFunc("/credits", h.GrantCredit).Methods("POST")
	authRouter.HandleFunc("/credits", h.ListCredits).Methods("GET")
	authRouter.HandleFunc("/credits/{id}", h.GetCredit).Methods("GET")
	authRouter.HandleFunc("/credits/{id}/repayments", h.Repay).Methods("POST")
	authRouter.HandleFunc("/members/{id}/score", h.MemberScore).Methods("GET")
	authRouter.HandleFunc("/clients/{id}/score", h.ClientScore).Methods("GET")

	authRouter.HandleFunc("/wallets", h.CreateWalletType).Methods("POST")
	authRouter.HandleFunc("/wallets", h.ListWalletTypes).Methods("GET")
	authRouter.HandleFunc("/wallets/{id}/balance", h.WalletBalance).Methods("GET")

	authRouter.HandleFunc("/share-payments", h.RecordSharePayment).Methods("POST")
	authRouter.HandleFunc("/savings-deposits", h.RecordSavingsDeposit).Methods("POST")
	authRouter.HandleFunc("/savings-withdrawals", h.RecordSavingsWithdrawal).Methods("POST")
	authRouter.HandleFunc("/membership-fees", h.RecordMembershipFee).Methods("POST")
	authRouter.HandleFunc("/expenses", h.RecordExpense).Methods("POST")
	authRouter.HandleFunc("/donations", h.RecordDonation).Methods("POST")

	authRouter.HandleFunc("/reports/interest", h.InterestReport).Methods("GET")
	authRouter.HandleFunc("/reports/management-fees", h.ManagementFeeReport).Methods("GET")
	authRouter.HandleFunc("/reports/contributions", h.ContributionsReport).Methods("GET")
	authRouter.HandleFunc("/reports/redistribution", h.RedistributionReport).Methods("GET")

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

package main

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	database "github.com/mzawadzki/WalletManager/db"
	"github.com/mzawadzki/WalletManager/internal/auth"
	"github.com/mzawadzki/WalletManager/internal/config"
	"github.com/mzawadzki/WalletManager/internal/user"
	"github.com/mzawadzki/WalletManager/internal/wallet/application"
	"github.com/mzawadzki/WalletManager/internal/wallet/infrastructure"
	"github.com/mzawadzki/WalletManager/internal/wallet/interfaces"
)

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("request completed")
	})
}

func respondData(w http.ResponseWriter, status int, payload interface{}, refreshedToken string) {
	body := map[string]interface{}{"data": payload}
	if refreshedToken != "" {
		body["refreshedAccessToken"] = refreshedToken
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("failed to encode response body")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.WithError(err).Error("failed to encode error body")
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, "Path not found")
}

type Server struct {
	router             *http.ServeMux
	db                 *database.DBService
	authHandler        *auth.Handler
	userHandler        *user.Handler
	categoryHandler    *interfaces.CategoryHandler
	transactionHandler *interfaces.TransactionHandler
}

func NewServer(
	db *database.DBService,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	categoryHandler *interfaces.CategoryHandler,
	transactionHandler *interfaces.TransactionHandler,
) *Server {
	return &Server{
		router:             http.NewServeMux(),
		db:                 db,
		authHandler:        authHandler,
		userHandler:        userHandler,
		categoryHandler:    categoryHandler,
		transactionHandler: transactionHandler,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, s.db.Health(), "")
}

func (s *Server) RegisterRoutes() {
	router := http.NewServeMux()

	router.Handle("GET /health", http.HandlerFunc(s.handleHealth))

	// Auth and user routes
	router.Handle("POST /api/register", http.HandlerFunc(s.userHandler.HandleRegister))
	router.Handle("POST /api/admin", http.HandlerFunc(s.userHandler.HandleRegisterAdmin))
	router.Handle("POST /api/login", http.HandlerFunc(s.authHandler.HandleLogin))
	router.Handle("GET /api/logout", http.HandlerFunc(s.authHandler.HandleLogout))
	router.Handle("GET /api/users", http.HandlerFunc(s.userHandler.GetUsers))
	router.Handle("GET /api/users/{username}", http.HandlerFunc(s.userHandler.GetUser))
	router.Handle("GET /api/groups", http.HandlerFunc(s.userHandler.GetGroups))
	router.Handle("GET /api/groups/{name}", http.HandlerFunc(s.userHandler.GetGroup))

	// Category routes
	router.Handle("POST /api/categories", http.HandlerFunc(s.categoryHandler.CreateCategory))
	router.Handle("PATCH /api/categories/{type}", http.HandlerFunc(s.categoryHandler.UpdateCategory))
	router.Handle("DELETE /api/categories", http.HandlerFunc(s.categoryHandler.DeleteCategories))
	router.Handle("GET /api/categories", http.HandlerFunc(s.categoryHandler.GetCategories))

	// Transaction routes
	router.Handle("POST /api/users/{username}/transactions", http.HandlerFunc(s.transactionHandler.CreateTransaction))
	router.Handle("GET /api/transactions", http.HandlerFunc(s.transactionHandler.GetTransactions))
	router.Handle("GET /api/transactions/users/{username}", http.HandlerFunc(s.transactionHandler.GetUserTransactionsAsAdmin))
	router.Handle("GET /api/users/{username}/transactions", http.HandlerFunc(s.transactionHandler.GetUserTransactions))
	router.Handle("GET /api/transactions/users/{username}/category/{category}", http.HandlerFunc(s.transactionHandler.GetUserCategoryTransactionsAsAdmin))
	router.Handle("GET /api/users/{username}/transactions/category/{category}", http.HandlerFunc(s.transactionHandler.GetUserCategoryTransactions))
	router.Handle("GET /api/transactions/groups/{name}", http.HandlerFunc(s.transactionHandler.GetGroupTransactionsAsAdmin))
	router.Handle("GET /api/groups/{name}/transactions", http.HandlerFunc(s.transactionHandler.GetGroupTransactions))
	router.Handle("GET /api/transactions/groups/{name}/category/{category}", http.HandlerFunc(s.transactionHandler.GetGroupCategoryTransactionsAsAdmin))
	router.Handle("GET /api/groups/{name}/transactions/category/{category}", http.HandlerFunc(s.transactionHandler.GetGroupCategoryTransactions))
	router.Handle("DELETE /api/users/{username}/transactions", http.HandlerFunc(s.transactionHandler.DeleteTransaction))
	router.Handle("DELETE /api/transactions", http.HandlerFunc(s.transactionHandler.DeleteTransactions))

	router.Handle("/", http.HandlerFunc(notFoundHandler))
	s.router = router
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	if err := database.RunMigrations(cfg.DBConnectionString); err != nil {
		log.WithError(err).Fatal("could not run database migrations")
	}

	dbService, err := database.NewDBService(cfg.DBConnectionString)
	if err != nil {
		log.WithError(err).Fatal("could not initialize database")
	}
	defer dbService.Close()

	tokenManager := auth.NewTokenManager(cfg.JWTSecret)

	userRepository := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepository)
	authService := auth.NewAuthService(userService, tokenManager)

	categoryRepository := infrastructure.NewCategoryRepository(dbService.DB)
	transactionRepository := infrastructure.NewTransactionRepository(dbService.DB)
	categoryService := application.NewCategoryService(categoryRepository, transactionRepository)
	transactionService := application.NewTransactionService(transactionRepository, categoryRepository, userService)

	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService, authService, respondData, respondError)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, authService, respondData, respondError)
	transactionHandler := interfaces.NewTransactionHandler(transactionService, userService, authService, respondData, respondError)

	server := NewServer(dbService, authHandler, userHandler, categoryHandler, transactionHandler)
	server.RegisterRoutes()

	log.WithField("addr", cfg.HTTPAddr).Info("starting HTTP server")
	if err := http.ListenAndServe(cfg.HTTPAddr, loggingMiddleware(server.router)); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"microloan/internal/config"
	"microloan/internal/handler"
	"microloan/internal/middleware"
	"microloan/internal/model"
	"microloan/internal/repository"
	"microloan/internal/service"
	"microloan/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("Failed to load DB config: %v", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		log.Fatalf("JWT_SECRET_KEY not set in environment")
	}
	jwtExpHoursStr := os.Getenv("JWT_EXPIRATION_HOURS")
	jwtExpHours, err := strconv.ParseInt(jwtExpHoursStr, 10, 64)
	if err != nil {
		log.Printf("Invalid JWT_EXPIRATION_HOURS, defaulting to 24: %v", err)
		jwtExpHours = 24
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080" // Default port
	}

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(dbPool); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(jwtSecret, jwtExpHours)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	loanRepo := repository.NewLoanRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil)
	userService := service.NewUserService(userRepo, jwtUtil)
	loanService := service.NewLoanService(loanRepo)
	adminService := service.NewAdminService(userRepo, loanRepo)

	// --- Seed Default Admin ---
	if err := seedDefaultAdmin(userRepo, userService); err != nil {
		log.Fatalf("Failed to seed default admin: %v", err)
	}

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	loanHandler := handler.NewLoanHandler(loanService)
	adminHandler := handler.NewAdminHandler(adminService, userService)

	// --- Setup Gin Router ---
	router := gin.Default()

	// Simple CORS middleware (allow all for development)
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil, userRepo)
	endUserMW := middleware.EndUserMiddleware()
	adminMW := middleware.AdminMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(apiGroup)
	userHandler.RegisterUserRoutes(apiGroup, jwtAuthMW, adminMW)
	loanHandler.RegisterLoanRoutes(apiGroup, jwtAuthMW, endUserMW, adminMW)
	adminHandler.RegisterAdminRoutes(apiGroup, jwtAuthMW, adminMW)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(context.Background()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + serverPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// seedDefaultAdmin creates the bootstrap admin account from
// DEFAULT_ADMIN_TELEPHONE / DEFAULT_ADMIN_PASSWORD if it does not exist yet.
func seedDefaultAdmin(userRepo repository.UserRepository, userService service.UserService) error {
	telephone := os.Getenv("DEFAULT_ADMIN_TELEPHONE")
	password := os.Getenv("DEFAULT_ADMIN_PASSWORD")
	if telephone == "" || password == "" {
		log.Println("DEFAULT_ADMIN_TELEPHONE/DEFAULT_ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	existing, err := userRepo.FindByTelephone(ctx, telephone)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	admin, _, err := userService.CreateAdmin(ctx, model.CreateUserRequest{
		FirstName: "Jali",
		LastName:  "Admin",
		Telephone: telephone,
		Password:  password,
	})
	if err != nil {
		// A concurrent boot may have won the race on the unique telephone.
		if errors.Is(err, service.ErrTelephoneExists) {
			return nil
		}
		return err
	}

	log.Printf("INFO: Default admin %s (ID: %s) seeded", admin.Telephone, admin.ID)
	return nil
}

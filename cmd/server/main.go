package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"unistay/internal/caching"
	"unistay/internal/chain"
	"unistay/internal/config"
	"unistay/internal/handlers"
	"unistay/internal/jobs/background"
	"unistay/internal/middleware"
	"unistay/internal/realtime"
	"unistay/internal/repositories"
	"unistay/internal/services"
	"unistay/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Profile document store
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoClient, err := database.NewMongoClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to profile store: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "unistay"
	}

	// OAuth configuration, no placeholder fallback
	oauthClientID := os.Getenv("OAUTH_CLIENT_ID")
	if oauthClientID == "" {
		log.Fatal("OAUTH_CLIENT_ID environment variable is required")
	}
	oauthIssuer := os.Getenv("OAUTH_ISSUER")
	if oauthIssuer == "" {
		log.Fatal("OAUTH_ISSUER environment variable is required")
	}
	oauthJWKSURL := os.Getenv("OAUTH_JWKS_URL")
	if oauthJWKSURL == "" {
		oauthJWKSURL = strings.TrimSuffix(oauthIssuer, "/") + "/.well-known/jwks.json"
	}
	oauthProvider := os.Getenv("OAUTH_PROVIDER")
	if oauthProvider == "" {
		oauthProvider = "google"
	}

	// Session signing secret
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	// Admin subjects (comma separated provider subject ids)
	var adminSubjects []string
	if raw := os.Getenv("ADMIN_SUBJECTS"); raw != "" {
		for _, sub := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(sub); trimmed != "" {
				adminSubjects = append(adminSubjects, trimmed)
			}
		}
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDBStr := os.Getenv("REDIS_DB")
	redisDB := 0 // Default DB
	if redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000" // Default MinIO endpoint
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	mediaSvc, err := services.NewMediaService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize media service: %v", err)
	}
	if err := mediaSvc.EnsureBucketExists(context.Background(), "listing-images"); err != nil {
		log.Printf("WARN: Failed to ensure listing-images bucket: %v", err)
	}

	// Payment chain configuration; a missing config or artifact means demo mode
	chainConfigPath := os.Getenv("CHAIN_CONFIG")
	if chainConfigPath == "" {
		chainConfigPath = "chain.toml"
	}
	chainCfg, err := config.LoadChainConfig(chainConfigPath)
	if err != nil {
		log.Fatalf("Failed to load chain config: %v", err)
	}
	artifact, err := chain.LoadArtifact(chainCfg.Chain.ArtifactPath)
	if err != nil {
		log.Fatalf("Failed to load contract artifact: %v", err)
	}
	nodeClient := chain.NewNodeClient(chainCfg.Chain.NodeURL)
	contractSvc := chain.NewContractService(nodeClient, artifact, chainCfg.Chain.SignerAddr)

	// Create repositories
	listingRepo := repositories.NewListingRepo(pool)
	profileRepo := repositories.NewProfileRepo(mongoClient.Database(mongoDB))

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	fakeUsers := services.NewFakeUserGenerator()
	notifier := realtime.NewMailboxNotifier(cacheSvc)
	listingSvc := services.NewListingService(listingRepo, mediaSvc, cacheSvc, fakeUsers)
	mailboxSvc := services.NewMailboxService(profileRepo, listingRepo, cacheSvc, fakeUsers, notifier)
	authSvc, err := services.NewAuthService(profileRepo, oauthJWKSURL, oauthIssuer, oauthClientID, oauthProvider, jwtSecret, 24*time.Hour, adminSubjects)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, profileRepo)
	listingHandlers := handlers.NewListingHandlers(listingSvc)
	mailboxHandlers := handlers.NewMailboxHandlers(mailboxSvc)
	rentalHandlers := handlers.NewRentalHandlers(contractSvc, profileRepo)
	contentHandlers := handlers.NewContentHandlers()
	healthHandlers := handlers.NewHealthHandlers(pool, mongoClient, contractSvc)

	// Background jobs
	scheduler := background.NewJobScheduler(cacheSvc, listingRepo)
	if err := scheduler.Start(); err != nil {
		log.Printf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Version middleware
	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health and metrics endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Authentication routes
	e.POST("/auth/callback", authHandlers.Callback)
	e.POST("/auth/signout", authHandlers.SignOut)
	e.GET("/auth/me", authHandlers.Me, middleware.RequireSession(authSvc))

	// Public listing feed
	e.GET("/listings", listingHandlers.ListListings)
	e.GET("/listings/search", listingHandlers.SearchListings)
	e.GET("/listings/:id", listingHandlers.GetListing)
	e.POST("/listings", listingHandlers.CreateListing, middleware.RequireSession(authSvc))
	e.POST("/listings/:id/image", listingHandlers.UploadListingImage, middleware.RequireSession(authSvc))

	// Admin moderation (role claim, not a hardcoded identity)
	admin := e.Group("/listings", middleware.RequireSession(authSvc), middleware.RequireRole("admin"))
	admin.DELETE("/:id", listingHandlers.RemoveListing)
	admin.POST("/:id/restore", listingHandlers.RestoreListing)

	// Mailbox routes sit behind the session gate: unauthenticated requests
	// are redirected to sign-in with a callbackUrl
	mailbox := e.Group("/mailbox", middleware.SessionGate(authSvc))
	mailbox.GET("", mailboxHandlers.GetMailbox)
	mailbox.GET("/subscribe", mailboxHandlers.Subscribe)
	mailbox.POST("/:listingID", mailboxHandlers.SaveListing)
	mailbox.DELETE("/:listingID", mailboxHandlers.UnsaveListing)

	// Rental payment flow
	rentals := e.Group("/rentals")
	rentals.POST("/properties", rentalHandlers.ListProperty, middleware.RequireSession(authSvc))
	rentals.GET("/properties/:id", rentalHandlers.GetProperty)
	rentals.POST("/agreements", rentalHandlers.CreateAgreement, middleware.RequireSession(authSvc))
	rentals.GET("/agreements/:id", rentalHandlers.GetAgreement)
	rentals.POST("/agreements/:id/pay", rentalHandlers.PayRent, middleware.RequireSession(authSvc))
	rentals.POST("/agreements/:id/end", rentalHandlers.EndAgreement, middleware.RequireSession(authSvc))
	rentals.GET("/agreements/:id/paid/:month", rentalHandlers.IsRentPaid)
	rentals.GET("/agreements/:id/qr", rentalHandlers.PaymentQR)
	rentals.GET("/tenant/:addr", rentalHandlers.TenantRentals)
	rentals.GET("/landlord/:addr", rentalHandlers.LandlordProperties)
	rentals.GET("/balance", rentalHandlers.ContractBalance)
	rentals.GET("/timestamp", rentalHandlers.BlockTimestamp)

	// Static content pages
	e.GET("/content", contentHandlers.ListPages)
	e.GET("/content/:page", contentHandlers.GetPage)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("UniStay server v%s starting on port %d", version, port)
	if contractSvc.Simulated() {
		log.Printf("Contract service running in demo mode")
	}

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}

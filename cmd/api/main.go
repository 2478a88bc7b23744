package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"amora_go_backend/cmd/api/config"
	"amora_go_backend/internal/api"
	"amora_go_backend/internal/auth"
	"amora_go_backend/internal/broker"
	"amora_go_backend/internal/database"
	"amora_go_backend/internal/keylock"
	"amora_go_backend/internal/services"
	"amora_go_backend/internal/wsocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	log.Logger = logger

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.Init(cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize database")
	}

	// External service clients
	completionClient := services.NewCompletionClient(
		cfg.CompletionURL,
		cfg.CompletionAPIKey,
		cfg.CompletionModel,
		cfg.CompletionTimeout,
		cfg.RetryAttempts,
		cfg.RetryBaseDelay,
		logger.With().Str("component", "completion").Logger(),
	)
	ledgerClient := services.NewLedgerClient(
		cfg.LedgerURL,
		cfg.WalletAddress,
		cfg.AssetIdentifier,
		cfg.LedgerTimeout,
		cfg.PaymentWindow,
		logger.With().Str("component", "ledger").Logger(),
	)
	imageClient := services.NewImageClient(
		cfg.ImageURL,
		cfg.ImageAPIKey,
		cfg.ImageTimeout,
		logger.With().Str("component", "image").Logger(),
	)

	// Internal services
	messageBroker := broker.NewBroker()
	userLocks := keylock.New()
	userStore := services.NewUserStore(db)
	paymentStore := services.NewPaymentStore(db)
	onboardingStore := services.NewOnboardingStore(db)

	sessionService := services.NewSessionService(
		userStore,
		completionClient,
		imageClient,
		messageBroker,
		userLocks,
		logger.With().Str("component", "session").Logger(),
	)
	paymentService := services.NewPaymentService(
		userStore,
		paymentStore,
		ledgerClient,
		messageBroker,
		userLocks,
		cfg.WalletAddress,
		cfg.WalletUsername,
		logger.With().Str("component", "payment").Logger(),
	)
	onboardingService := services.NewOnboardingService(
		userStore,
		onboardingStore,
		logger.With().Str("component", "onboarding").Logger(),
	)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigin, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // TODO: restrict to the front-end origin in production
		},
	}
	wsHandler := wsocket.NewHandler(
		sessionService,
		messageBroker,
		upgrader,
		logger.With().Str("component", "wsocket").Logger(),
	)

	api.SetupRoutes(r, cfg.TokenSecret, sessionService, paymentService, onboardingService, userStore)

	r.GET("/ws", auth.Middleware(cfg.TokenSecret), func(c *gin.Context) {
		wsHandler.HandleWebSocket(c.Writer, c.Request, auth.UserID(c))
	})

	logger.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

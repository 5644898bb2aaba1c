// main.go
package main

import (
	"context"
	"log"
	"time"

	"ride-marketplace/cmd"
	"ride-marketplace/internal/bot"
	"ride-marketplace/internal/data/repository"
	"ride-marketplace/internal/events"
	"ride-marketplace/internal/payments"
	"ride-marketplace/internal/usecase"
	"ride-marketplace/internal/wire"
	"ride-marketplace/pkg/database"
	"ride-marketplace/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionTTL = 30 * time.Minute

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Payment gateway
	gateway := payments.NewTONGateway(config.Payments.Network, logger)

	// Booking event publisher, Kafka when brokers are configured
	var publisher events.Publisher = events.NoopPublisher{}
	if len(config.Events.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(config.Events.Brokers, config.Events.Topic)
		logger.Info("Kafka publisher enabled",
			zap.Strings("brokers", config.Events.Brokers),
			zap.String("topic", config.Events.Topic))
	}
	defer publisher.Close()

	// Services
	service := usecase.NewService(repos, gateway, publisher, logger)

	// Wire HTTP surface
	app := wire.Wiring(service, config, logger)

	// Telegram bot front end, optional
	if config.Telegram.Token != "" {
		var sessions bot.SessionStore = bot.NewMemorySessionStore(sessionTTL, 10000)
		if config.Redis.Addr != "" {
			client := redis.NewClient(&redis.Options{
				Addr:     config.Redis.Addr,
				Password: config.Redis.Password,
				DB:       config.Redis.DB,
			})
			sessions = bot.NewRedisSessionStore(client, sessionTTL)
			logger.Info("Redis session store enabled", zap.String("addr", config.Redis.Addr))
		}

		tgBot, err := bot.New(config.Telegram.Token, service, sessions, logger)
		if err != nil {
			logger.Fatal("Failed to init telegram bot", zap.Error(err))
		}
		go tgBot.Run(context.Background())
	}

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}

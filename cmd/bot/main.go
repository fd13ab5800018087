package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/aura/internal/common/logger"
	"github.com/KirkDiggler/aura/internal/common/timeline"
	"github.com/KirkDiggler/aura/internal/common/uuid"
	"github.com/KirkDiggler/aura/internal/config"
	"github.com/KirkDiggler/aura/internal/handlers/discord"
	"github.com/KirkDiggler/aura/internal/repositories/room"
	"github.com/KirkDiggler/aura/internal/services/messaging"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log, err := logger.New(&logger.Config{Level: cfg.LogLevel})
	if err != nil {
		logrus.Fatalf("Failed to create logger: %v", err)
	}

	if cfg.Discord.Token == "" {
		log.Fatal("DISCORD_TOKEN environment variable is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional; without it rooms are only rendered in Discord
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
	}

	// Every room shares one timeline
	loop := timeline.NewLoop(&timeline.LoopConfig{Logger: log})
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Run(ctx)
	}()

	messagingSvc, err := messaging.New(&messaging.Config{})
	if err != nil {
		log.Fatalf("Failed to create messaging service: %v", err)
	}

	template, err := cfg.Meeting.Template()
	if err != nil {
		log.Fatalf("Failed to build meeting settings: %v", err)
	}

	session, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	rooms, err := discord.NewRooms(&discord.RoomsConfig{
		Timeline:      loop,
		Repository:    room.NewMemory(),
		Messaging:     messagingSvc,
		UUIDGenerator: uuid.New(),
		Messenger:     session,
		RedisClient:   redisClient,
		ChannelPrefix: cfg.Redis.ChannelPrefix,
		Meeting:       template,
		Logger:        log,
	})
	if err != nil {
		log.Fatalf("Failed to create room manager: %v", err)
	}

	bot, err := discord.New(&discord.Config{
		ApplicationID: cfg.Discord.ApplicationID,
		GuildID:       cfg.Discord.GuildID,
		Session:       session,
		Rooms:         rooms,
		Logger:        log,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	log.Info("Bot is now running. Press CTRL-C to exit.")

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	stopCtx, stopCancel := context.WithTimeout(ctx, 10*time.Second)
	defer stopCancel()

	if err := bot.Stop(stopCtx); err != nil {
		log.WithError(err).Error("Error stopping bot")
	}

	cancel()
	<-loopDone

	log.Info("Bot has been shut down")
}

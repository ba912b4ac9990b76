// File: /cmd/app.go
package cmd

import (
	"context"
	"fitcrew-api/cache"
	"fitcrew-api/database"
	"fitcrew-api/events"
	"fitcrew-api/repositories"
	"fitcrew-api/routes"
	"fitcrew-api/services"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// app holds everything the commands share. close releases it in reverse order.
type app struct {
	db      *gorm.DB
	bus     *events.Bus
	mailer  *services.EmailService
	stats   *services.StatsService
	svc     routes.Services
	closers []func() error
}

func openDatabase() (*gorm.DB, error) {
	db, err := database.Initialize(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func newApp(ctx context.Context) (*app, error) {
	db, err := openDatabase()
	if err != nil {
		return nil, err
	}
	a := &app{db: db}
	a.closers = append(a.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	var statsCache cache.StatsCache = cache.NoopStatsCache{}
	if cfg.RedisAddr != "" {
		ttl := time.Duration(cfg.StatsCacheTTLSeconds) * time.Second
		redisCache, err := cache.NewRedisStatsCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, ttl, log)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, redisCache.Close)
		statsCache = redisCache
		log.WithField("addr", cfg.RedisAddr).Info("Stats cache enabled")
	}

	var publisher events.Publisher = events.LogPublisher{Log: log}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			a.close()
			return nil, err
		}
		publisher = amqpPublisher
		log.WithField("exchange", cfg.AMQPExchange).Info("Publishing events to RabbitMQ")
	}
	a.bus = events.NewBus(publisher, log)
	a.closers = append(a.closers, a.bus.Close)

	userRepo := repositories.NewUserRepository(db)
	friendshipRepo := repositories.NewFriendshipRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	workoutRepo := repositories.NewWorkoutRepository(db)

	a.mailer = services.NewEmailService(cfg, log)
	credentials := services.NewCredentialService(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	a.stats = services.NewStatsService(userRepo, workoutRepo, statsCache, log)
	a.stats.Register(a.bus)

	a.svc = routes.Services{
		Users:    services.NewUserService(userRepo, friendshipRepo, workoutRepo, credentials, a.mailer, statsCache),
		Friends:  services.NewFriendService(db, userRepo, friendshipRepo, a.bus, a.mailer, statsCache),
		Groups:   services.NewGroupService(db, groupRepo, userRepo),
		Workouts: services.NewWorkoutService(db, workoutRepo, a.bus, statsCache),
	}
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.WithError(err).Warn("Error during shutdown")
		}
	}
}

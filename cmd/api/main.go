package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"skybook/internal/auth"
	"skybook/internal/bookings"
	"skybook/internal/bookings/boardingpass"
	"skybook/internal/bookings/booking_api"
	"skybook/internal/changefeed"
	"skybook/internal/config"
	"skybook/internal/database/migrations"
	"skybook/internal/flights"
	"skybook/internal/flights/flight_api"
	"skybook/internal/kafka"
	"skybook/internal/logger"
	"skybook/internal/payments"
	"skybook/internal/payments/payment_api"
	"skybook/internal/users"
	"skybook/internal/users/user_api"
)

func connectDatabase(cfg config.DatabaseConfig, log *logger.Logger) *bun.DB {
	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN()))
	sqldb := sql.OpenDB(connector)
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	maxRetries := 5
	var err error
	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("connecting to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		if err = sqldb.Ping(); err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("PostgreSQL connection failed: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("could not connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Addr))
	return client
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "starting flight booking API")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := connectDatabase(cfg.Database, log)
	defer bunDB.Close()

	migrator := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := migrator.MigrateUp(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("migrations failed: %v", err))
	}
	log.Info("DATABASE", "migrations applied")

	redisClient := connectRedis(ctx, cfg.Redis, log)
	defer redisClient.Close()

	httpClient := &http.Client{Timeout: 10 * time.Second}

	authProvider := auth.NewProvider(cfg.Auth, httpClient, log)
	identityCache := auth.NewIdentityCache(redisClient, cfg.Redis.IdentityTTL)
	verifier, err := auth.NewVerifier(ctx, cfg.Auth, authProvider, identityCache, log)
	if err != nil {
		log.Fatal("AUTH", fmt.Sprintf("failed to build token verifier: %v", err))
	}
	log.Info("AUTH", fmt.Sprintf("auth mode: %s", cfg.Auth.Mode))

	producer := kafka.NewProducer(cfg.Kafka, log)
	defer producer.Close()

	flightStore := flights.NewStore(bunDB)
	flightCache := flights.NewSearchCache(redisClient, cfg.Redis.FlightCacheTTL)
	flightService := flights.NewService(flightStore, flightCache)

	bookingStore := bookings.NewStore(bunDB)
	paymentStore := payments.NewStore(bunDB)
	bookingService := bookings.NewService(bookingStore, flightStore, paymentStore, producer, log, cfg.Booking.StrictTransitions)
	paymentService := payments.NewService(paymentStore, log)

	userStore := users.NewStore(bunDB)
	userService := users.NewService(userStore, authProvider, log)

	emitter := changefeed.NewFlightEmitter()
	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()
	feed := changefeed.NewListener(bunDB, emitter, log)
	go func() {
		if err := feed.Run(feedCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("CHANGEFEED", fmt.Sprintf("flight update feed stopped: %v", err))
		}
	}()

	passGenerator := boardingpass.NewGenerator(cfg.Booking.PassSecret)

	flightHandler := flight_api.NewHandler(flightService, emitter, log)
	bookingHandler := booking_api.NewHandler(bookingService, passGenerator, log)
	paymentHandler := payment_api.NewHandler(paymentService, bookingService, log)
	userHandler := user_api.NewHandler(userService, log)

	r := chi.NewRouter()

	// Public routes.
	r.Post("/auth/signup", userHandler.SignUp)
	r.Post("/auth/signin", userHandler.SignIn)
	r.Get("/flights", flightHandler.Search)
	r.Get("/flights/{flightId}", flightHandler.GetByID)
	r.Get("/flights/{flightId}/status", flightHandler.StreamStatus)

	// Protected routes.
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(verifier, log))

		r.Get("/auth/profile", userHandler.Profile)

		r.Put("/flights/{flightId}/status", flightHandler.UpdateStatus)

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", bookingHandler.Create)
			r.Get("/", bookingHandler.List)
			r.Get("/{bookingId}", bookingHandler.GetByID)
			r.Put("/{bookingId}/cancel", bookingHandler.Cancel)
			r.Put("/{bookingId}/confirm", bookingHandler.Confirm)
			r.Get("/{bookingId}/pass", bookingHandler.BoardingPass)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", paymentHandler.List)
			r.Get("/booking/{bookingId}", paymentHandler.GetByBooking)
			r.Post("/{paymentId}/process", paymentHandler.Process)
			r.Post("/{paymentId}/refund", paymentHandler.Refund)
		})
	})

	// No WriteTimeout: the status stream holds its response open for the
	// life of the client connection.
	server := &http.Server{
		Addr:        cfg.Server.Port,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("listening on %s", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stopFeed()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP", fmt.Sprintf("server shutdown failed: %v", err))
	}
	log.Info("APP", "shutdown complete")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"

	"github.com/shatayaglobal/Manpower/internal/config"
	"github.com/shatayaglobal/Manpower/internal/database"
	"github.com/shatayaglobal/Manpower/internal/handlers"
	"github.com/shatayaglobal/Manpower/internal/hub"
	"github.com/shatayaglobal/Manpower/internal/logger"
	authmw "github.com/shatayaglobal/Manpower/internal/middleware"
	"github.com/shatayaglobal/Manpower/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logg.Fatal("failed to run migrations", zap.Error(err))
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	userService := services.NewUserService(db)
	businessService := services.NewBusinessService(db)
	staffService := services.NewStaffService(db)
	invitationService := services.NewInvitationService(db)
	hoursCardService := services.NewHoursCardService(db)
	messageService := services.NewMessageService(db)
	emailService := services.NewEmailService(cfg.SMTP)
	if !emailService.IsConfigured() {
		logg.Warn("SMTP is not configured; invitation emails will not be sent")
	}

	notifications := hub.NewHub(logg.Named("hub"), cfg.HubClientBuffer)

	if cfg.RedisURL != "" {
		rdb, err := hub.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logg.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()

		relay := hub.NewRedisRelay(rdb, logg.Named("relay"))
		notifications.SetRelay(relay)
		go func() {
			if err := relay.Run(ctx, notifications); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error("redis relay stopped", zap.Error(err))
			}
		}()
		logg.Info("redis relay enabled")
	}

	userHandler := handlers.NewUserHandler(userService, logg)
	businessHandler := handlers.NewBusinessHandler(businessService, logg)
	staffHandler := handlers.NewStaffHandler(staffService, userService, emailService, notifications, cfg.BaseURL, logg)
	invitationHandler := handlers.NewInvitationHandler(invitationService, notifications, logg)
	hoursCardHandler := handlers.NewHoursCardHandler(hoursCardService, logg)
	messageHandler := handlers.NewMessageHandler(messageService, notifications, logg)
	sseHandler := handlers.NewSSEHandler(notifications, logg)
	wsHandler := handlers.NewWebSocketHandler(notifications, jwtService, userService, messageService, logg)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	// The socket authenticates with a query token before upgrading.
	app.Get("/ws/chat", wsHandler.Connect)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Get("/events", sseHandler.Connect)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)

	protected.Patch("/businesses/:id/location", businessHandler.UpdateLocation)

	protected.Post("/workforce/staff", staffHandler.Create)
	protected.Get("/workforce/staff", staffHandler.List)
	protected.Get("/workforce/staff/:id", staffHandler.Get)

	protected.Get("/workforce/invitations", invitationHandler.List)
	protected.Get("/workforce/invitations/count", invitationHandler.Count)
	protected.Post("/workforce/invitations/:id/accept", invitationHandler.Accept)
	protected.Post("/workforce/invitations/:id/reject", invitationHandler.Reject)

	protected.Post("/workforce/clock-in", hoursCardHandler.ClockIn)
	protected.Get("/workforce/my-hours", hoursCardHandler.ListMine)
	protected.Get("/workforce/hours-cards", hoursCardHandler.List)
	protected.Get("/workforce/hours-cards/:id", hoursCardHandler.Get)
	protected.Patch("/workforce/hours-cards/:id", hoursCardHandler.Update)
	protected.Post("/workforce/hours-cards/:id/clock-out", hoursCardHandler.ClockOut)
	protected.Post("/workforce/hours-cards/:id/sign", hoursCardHandler.Sign)
	protected.Post("/workforce/hours-cards/:id/approve", hoursCardHandler.Approve)
	protected.Post("/admin/hours-cards/override", hoursCardHandler.AdminOverride)

	protected.Get("/messages", messageHandler.List)
	protected.Post("/messages", messageHandler.Send)
	protected.Get("/messages/conversations", messageHandler.Conversations)
	protected.Get("/messages/unread-count", messageHandler.UnreadCount)
	protected.Get("/messages/statistics", messageHandler.Statistics)
	protected.Post("/messages/mark-read", messageHandler.MarkRead)
	protected.Post("/messages/mark-all-read", messageHandler.MarkAllRead)
	protected.Patch("/messages/:id", messageHandler.Update)
	protected.Delete("/messages/:id", messageHandler.Delete)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           authmw.RequestLogger(logg)(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error("graceful shutdown failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"improvemycity/config"
	"improvemycity/internal/geocode"
	"improvemycity/internal/handler"
	"improvemycity/internal/mailer"
	"improvemycity/internal/messaging"
	"improvemycity/internal/middleware"
	"improvemycity/internal/repository"
	"improvemycity/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.LoadConfig()

	// Connect to database
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Connect to Redis (geocode cache, best-effort)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("Redis unavailable, geocode caching disabled: %v", err)
		rdb = nil
	} else {
		log.Println("Connected to Redis")
	}

	// Connect to RabbitMQ
	rmq, err := messaging.NewRabbitMQ(
		cfg.RabbitMQ.Host,
		cfg.RabbitMQ.Port,
		cfg.RabbitMQ.User,
		cfg.RabbitMQ.Password,
	)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rmq.Close()
	log.Println("Connected to RabbitMQ")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	// Outbox worker drains committed notification events to RabbitMQ
	outboxWorker := messaging.NewOutboxWorker(outboxRepo, rmq)
	outboxWorker.Start()

	// Consumer delivers email + in-app notifications
	smtpMailer := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	consumer := messaging.NewNotificationConsumer(rmq, notificationRepo, smtpMailer)
	consumer.Start()

	// Initialize services
	geocoder := geocode.New(cfg.Geocode.APIKey, rdb)
	authService := service.NewAuthService(userRepo, cfg.JWT, cfg.Auth.AdminKey)
	complaintService := service.NewComplaintService(complaintRepo, outboxRepo, geocoder)
	notificationService := service.NewNotificationService(notificationRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	complaintHandler := handler.NewComplaintHandler(complaintService)
	adminHandler := handler.NewAdminHandler(complaintService)
	chatbotHandler := handler.NewChatbotHandler(complaintService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Setup Gin router
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	authenticated := middleware.Authenticate(authService)
	adminOnly := middleware.RequireAdmin()

	// Health check
	r.GET("/health", handler.Health)

	// Auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Complaint routes
	complaints := r.Group("/api/complaints", authenticated)
	{
		complaints.POST("", complaintHandler.Create)
		complaints.GET("", complaintHandler.ListAll)
		complaints.GET("/my", complaintHandler.ListMine)
		complaints.GET("/chatbot/status/:id", complaintHandler.GetStatus)
		complaints.GET("/:id", complaintHandler.GetByID)
		complaints.PUT("/:id", adminOnly, complaintHandler.Update)
		complaints.DELETE("/:id", adminOnly, complaintHandler.Delete)
	}

	// Admin routes
	admin := r.Group("/api/admin", authenticated, adminOnly)
	{
		admin.PATCH("/complaints/status/:id", adminHandler.UpdateStatus)
		admin.PATCH("/complaints/comment/:id", adminHandler.UpdateComment)
	}

	// Chatbot
	r.POST("/api/chatbot", authenticated, chatbotHandler.Query)

	// Notifications
	notifications := r.Group("/api/notifications", authenticated)
	{
		notifications.GET("", notificationHandler.List)
		notifications.PATCH("/:id/read", notificationHandler.MarkAsRead)
		notifications.PATCH("/read-all", notificationHandler.MarkAllAsRead)
	}

	// Graceful shutdown for background workers
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutdown signal received...")
		consumer.Stop()
		outboxWorker.Stop()
		log.Println("Stopped gracefully")
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Improve My City API listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

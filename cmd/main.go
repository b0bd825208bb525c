package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/mimoza-store/storefront-api/internal/router"
	"github.com/mimoza-store/storefront-api/pkg/ai"
	"github.com/mimoza-store/storefront-api/pkg/auth"
	"github.com/mimoza-store/storefront-api/pkg/cart"
	"github.com/mimoza-store/storefront-api/pkg/email"
	"github.com/mimoza-store/storefront-api/pkg/global"
	"github.com/mimoza-store/storefront-api/pkg/mongo"
	"github.com/mimoza-store/storefront-api/pkg/redis"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	mongo.InitMongoDB()
	mongo.EnsureIndexesOnStartup()
	redis.PingOnStartup(context.Background())
	ai.InitializeAIService()

	var mailer auth.Mailer
	if svc := email.NewService(); svc != nil {
		mailer = svc
	}

	authService := auth.NewService(
		mongo.NewUserStore(),
		redis.NewSessionStore(),
		mailer,
		global.GetJWTSecret(),
	)
	carts := cart.NewRegistry(redis.NewBlobStore())

	router.InitEngine()
	router.InitializeRoutes(authService, carts)

	port := global.GetEnvOrDefault("PORT", "8000")
	log.Printf("Server is running on port %s", port)

	if err := router.Router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

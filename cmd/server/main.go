package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/suraj946/goss-up-server/infrastructure/blob"
	"github.com/suraj946/goss-up-server/infrastructure/cache"
	"github.com/suraj946/goss-up-server/infrastructure/db"
	"github.com/suraj946/goss-up-server/infrastructure/ws"
	httpHandler "github.com/suraj946/goss-up-server/internal/delivery/http"
	wsDelivery "github.com/suraj946/goss-up-server/internal/delivery/websocket"
	"github.com/suraj946/goss-up-server/internal/repository"
	"github.com/suraj946/goss-up-server/internal/usecase"
	"github.com/suraj946/goss-up-server/pkg/jwt"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

// Presence keys expire unless refreshed, so a crashed server never leaves
// users permanently online. Connections alive longer than the TTL are kept
// online by the refresh ticker below.
const presenceTTL = 2 * time.Minute

func Run() {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("godotenv: error loading .env file")
	}

	ctx := context.Background()

	mongoDbHost := os.Getenv("MONGODB_URI")
	mongoDbName := os.Getenv("MONGODB_DATABASE")
	mongoDb, err := db.NewMongoStore(ctx, mongoDbHost, mongoDbName)
	if err != nil {
		panic(err)
	}
	if err := mongoDb.EnsureIndexes(ctx); err != nil {
		panic(err)
	}

	log.Println("Connected to MongoDB")

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	presence := cache.NewPresenceTracker(redisAddr, presenceTTL)
	if err := presence.Ping(ctx); err != nil {
		log.Printf("Warning: Redis unreachable at %s, presence will be stale: %v", redisAddr, err)
	}

	blobStore, err := blob.NewCloudinaryStore(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		panic(err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(mongoDb.DB)
	friendRepo := repository.NewFriendshipRepository(mongoDb.DB)
	chatRepo := repository.NewChatRepository(mongoDb.DB)
	messageRepo := repository.NewMessageRepository(mongoDb.DB)

	// Initialize JWT manager
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-this-in-production" // Default for development
		log.Println("Warning: Using default JWT secret. Set JWT_SECRET in .env for production")
	}
	jwtManager := jwt.NewJWTManager(jwtSecret, 24*time.Hour)

	// Realtime hub; presence tracks the first/last connection of each user
	hub := ws.NewHub()
	hub.SetOnUserOnline(func(userId string) {
		if err := presence.SetOnline(ctx, userId); err != nil {
			log.Printf("SetOnline error for %s: %v", userId, err)
		}
	})
	hub.SetOnUserOffline(func(userId string) {
		if err := presence.SetOffline(ctx, userId); err != nil {
			log.Printf("SetOffline error for %s: %v", userId, err)
		}
	})
	fanout := wsDelivery.NewFanout(hub)

	// Keep presence keys alive for long-lived connections.
	go func() {
		ticker := time.NewTicker(presenceTTL / 2)
		defer ticker.Stop()
		for range ticker.C {
			for _, userId := range hub.OnlineUsers() {
				if err := presence.SetOnline(ctx, userId); err != nil {
					log.Printf("Presence refresh error for %s: %v", userId, err)
				}
			}
		}
	}()

	profiles := cache.NewProfileCache(time.Minute)

	// Initialize use cases
	authUc := usecase.NewAuthUsecase(userRepo, jwtManager)
	userUc := usecase.NewUserUsecase(userRepo, profiles)
	friendUc := usecase.NewFriendUsecase(friendRepo, userRepo, presence, fanout)
	messageUc := usecase.NewMessageUsecase(messageRepo, chatRepo, userRepo, fanout)
	chatUc := usecase.NewChatUsecase(chatRepo, userRepo, friendRepo, messageRepo, profiles, blobStore, fanout)

	// CORS middleware
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "http://localhost:3000")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			// Handle preflight requests
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Initialize handlers
	websocketH := wsDelivery.NewWebsocketHandler(hub, authUc, messageUc)
	chatH := httpHandler.NewChatHandler(chatUc, messageUc)
	friendH := httpHandler.NewFriendHandler(friendUc)
	userH := httpHandler.NewUserHandler(userUc)
	authH := httpHandler.NewAuthHandler(authUc)
	authMiddleware := httpHandler.NewAuthMiddleware(authUc)

	// Map routes
	httpHandler.MapHttpRoutes(router, chatH, friendH, userH, authH, websocketH, authMiddleware)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("HTTP server is running on :%s", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}

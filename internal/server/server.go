package server

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/database"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/handlers"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/storage"
	ws "github.com/KnowYourLines/blabhear-backend-archive-3/internal/websocket"
	"github.com/KnowYourLines/blabhear-backend-archive-3/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *ws.Hub
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
	)

	signer, err := storage.NewGCSSignerFromEnv()
	if err != nil {
		log.Fatalf("Storage signer init failed: %v", err)
	}

	hub := ws.NewHub()

	authH := handlers.NewAuthHandler(dbConn, jwtMgr, rdb)
	wsH := handlers.NewWebSocketHandler(dbConn, hub, signer)

	router := gin.Default()
	APIEndpoints(router, authH, wsH, jwtMgr, rdb)

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
	}
}

func (s *Server) Run() {
	go s.Hub.Run()
	defer s.Hub.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}

package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/handlers"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/middleware"
	"github.com/KnowYourLines/blabhear-backend-archive-3/pkg/auth"
)

func APIEndpoints(r *gin.Engine, authH *handlers.AuthHandler, wsH *handlers.WebSocketHandler, jwtMgr *auth.JWTManager, rdb *redis.Client) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", middleware.AuthMiddleware(jwtMgr, rdb), authH.Logout)
	}

	// WebSocket endpoints
	wsGroup := r.Group("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb))
	{
		wsGroup.GET("/rooms/:room_id", wsH.HandleRoom)
		wsGroup.GET("/users/:username", wsH.HandleUser)
	}
}

package routes

import (
	"gainboard/internal/controllers"
	"gainboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterLeaderboardRoutes(router *gin.Engine, leaderboardController *controllers.LeaderboardController) {
	leaderboardRoutes := router.Group("/competitions/:id")
	leaderboardRoutes.Use(middleware.AuthMiddleware())
	{
		leaderboardRoutes.GET("/leaderboard", leaderboardController.GetLeaderboard)
	}
}

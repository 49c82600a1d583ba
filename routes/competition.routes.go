package routes

import (
	"gainboard/internal/controllers"
	"gainboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterCompetitionRoutes(router *gin.Engine, competitionController *controllers.CompetitionController) {
	competitionRoutes := router.Group("/competitions")
	competitionRoutes.Use(middleware.AuthMiddleware())
	{
		competitionRoutes.GET("", competitionController.ListCompetitions)
		competitionRoutes.GET("/:id", competitionController.GetCompetition)

		teacherRoutes := competitionRoutes.Group("")
		teacherRoutes.Use(middleware.TeacherMiddleware())
		{
			teacherRoutes.POST("", competitionController.CreateCompetition)
		}
	}
}

package routes

import (
	"gainboard/internal/controllers"
	"gainboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterSubmissionRoutes(router *gin.Engine, submissionController *controllers.SubmissionController) {
	submissionRoutes := router.Group("/competitions/:id")
	submissionRoutes.Use(middleware.AuthMiddleware())
	{
		submissionRoutes.POST("/submissions", submissionController.SubmitPrediction)
		submissionRoutes.GET("/submissions/me", submissionController.GetMySubmissions)

		teacherRoutes := submissionRoutes.Group("")
		teacherRoutes.Use(middleware.TeacherMiddleware())
		{
			teacherRoutes.GET("/submissions", submissionController.GetAllSubmissions)
			teacherRoutes.GET("/submissions/user/:user_id", submissionController.GetUserSubmissions)
			teacherRoutes.GET("/duplicates", submissionController.GetDuplicates)
		}
	}
}

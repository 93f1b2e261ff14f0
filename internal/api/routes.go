package api

import (
	"selvaquiz/internal/api/handlers"
	"selvaquiz/internal/gemini"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(router *gin.Engine, handler *handlers.Handler) {
	router.Use(CORSMiddleware())

	api := router.Group("/api")
	{
		// Authenticated generation checks its preconditions in-handler so a
		// missing file_path outranks a missing token.
		api.POST("/generate", handler.HandleGenerateQuiz)

		// Guest generation, one handler with a capability-tagged shape per
		// route: the Portuguese path returns the extended question shape,
		// the English alias the minimal one.
		api.POST("/gerar-convidado", handler.GuestQuizHandler(gemini.GuestExtended))
		api.POST("/generate-guest", handler.GuestQuizHandler(gemini.GuestMinimal))

		authorized := api.Group("/")
		authorized.Use(AuthRequired(handler.Auth))
		{
			authorized.GET("/quizzes", handler.HandleListUserQuizzes)
			authorized.GET("/quizzes/:quizId", handler.HandleGetQuiz)
			authorized.GET("/quizzes/:quizId/questions", handler.HandleGetQuizQuestions)

			authorized.GET("/user/profile", handler.HandleGetProfile)
			authorized.POST("/user/profile", handler.HandleSaveProfile)
			authorized.POST("/user/plan", handler.HandleUpgradePlan)

			authorized.POST("/upload", handler.HandleUpload)

			authorized.POST("/runner/start", handler.HandleRunnerStart)
			authorized.GET("/runner/current", handler.HandleRunnerCurrent)
			authorized.POST("/runner/answer", handler.HandleRunnerAnswer)
			authorized.POST("/runner/previous", handler.HandleRunnerPrevious)
			authorized.POST("/runner/retry", handler.HandleRunnerRetry)
			authorized.POST("/runner/reset", handler.HandleRunnerReset)
		}
	}
}

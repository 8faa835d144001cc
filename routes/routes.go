package routes

import (
	"net/http"

	"quizbuilder/handlers"
	"quizbuilder/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	questionHandler *handlers.QuestionHandler,
	authMiddleware gin.HandlerFunc,
	metricsHandler http.Handler,
) {
	api := router.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/signup", authHandler.SignUp)
			users.POST("/signin", authHandler.SignIn)
			users.GET("/check-auth", authHandler.CheckAuth)
			users.POST("/signout", middleware.RequireSessionCookie(), authHandler.SignOut)
			users.GET("/getuser", authMiddleware, authHandler.GetUser)
		}

		quizzes := api.Group("/quizzes")
		{
			// Quiz metadata is readable without a session.
			quizzes.GET("/get-quiz/:id", quizHandler.GetQuizByID)

			quizzes.POST("/create-quiz", authMiddleware, quizHandler.CreateQuiz)
			quizzes.GET("/get-quizzes", authMiddleware, quizHandler.GetUserQuizzes)
			quizzes.PUT("/edit-quiz/:id", authMiddleware, quizHandler.UpdateQuiz)
			quizzes.DELETE("/delete-quiz/:id", authMiddleware, quizHandler.DeleteQuiz)
		}

		questions := api.Group("/")
		questions.Use(authMiddleware)
		{
			questions.POST("/:quizId/add-question", questionHandler.CreateQuestion)
			questions.GET("/:quizId/get-questions", questionHandler.GetQuestions)
			questions.PUT("/:quizId/edit-question/:id", questionHandler.UpdateQuestion)
			questions.DELETE("/:quizId/delete-question/:id", questionHandler.DeleteQuestion)
		}
	}

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

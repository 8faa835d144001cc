package handlers

import (
	"net/http"

	"quizbuilder/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type QuizHandler struct {
	quizService *services.QuizService
	log         *logrus.Logger
}

func NewQuizHandler(quizService *services.QuizService, log *logrus.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		log:         log,
	}
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req services.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.QuizFieldsRequired})
		return
	}

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Quiz created successfully", "data": quiz})
}

func (h *QuizHandler) GetUserQuizzes(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	quizzes, err := h.quizService.GetUserQuizzes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quizzes})
}

func (h *QuizHandler) GetQuizByID(c *gin.Context) {
	quiz, err := h.quizService.GetQuizByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quiz})
}

func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req services.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.QuizFieldsRequired})
		return
	}

	quiz, err := h.quizService.UpdateQuiz(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz updated successfully", "data": quiz})
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuiz(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted successfully"})
}

package handlers

import (
	"net/http"

	"quizbuilder/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type QuestionHandler struct {
	questionService *services.QuestionService
	log             *logrus.Logger
}

func NewQuestionHandler(questionService *services.QuestionService, log *logrus.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		log:             log,
	}
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.QuestionFieldsRequired})
		return
	}

	question, err := h.questionService.CreateQuestion(c.Request.Context(), c.Param("quizId"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Question created successfully", "data": question})
}

func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	questions, err := h.questionService.GetQuestions(c.Request.Context(), c.Param("quizId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": questions})
}

// UpdateQuestion ignores the :quizId segment; ownership is resolved through
// the question's stored parent quiz.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.QuestionFieldsRequired})
		return
	}

	question, err := h.questionService.UpdateQuestion(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question updated successfully", "data": question})
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.questionService.DeleteQuestion(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

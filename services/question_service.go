package services

import (
	"context"
	"fmt"
	"strings"

	"quizbuilder/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionService struct {
	db *gorm.DB

	// enforceAnswer rejects answers that are not one of the options.
	enforceAnswer bool
}

func NewQuestionService(db *gorm.DB, enforceAnswerInOptions bool) *QuestionService {
	return &QuestionService{
		db:            db,
		enforceAnswer: enforceAnswerInOptions,
	}
}

type QuestionRequest struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"required"`
	Answer   string   `json:"answer" validate:"required"`
}

const QuestionFieldsRequired = "Question, options and answer are required"

func (s *QuestionService) validate(req *QuestionRequest) error {
	if err := validateInput(req, QuestionFieldsRequired, &req.Question); err != nil {
		return err
	}
	// The answer is stored as sent so it keeps matching its option.
	if strings.TrimSpace(req.Answer) == "" {
		return newError(ErrValidation, QuestionFieldsRequired)
	}
	if s.enforceAnswer && !containsOption(req.Options, req.Answer) {
		return newError(ErrValidation, "Answer must be one of the options")
	}
	return nil
}

func containsOption(options []string, answer string) bool {
	for _, option := range options {
		if option == answer {
			return true
		}
	}
	return false
}

// CreateQuestion adds a question to any existing quiz. The caller's ownership
// of the quiz is not checked.
func (s *QuestionService) CreateQuestion(ctx context.Context, quizID string, req *QuestionRequest) (*models.Question, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Quiz{}).Where("id = ?", quizID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to look up quiz: %w", err)
	}
	if count == 0 {
		return nil, newError(ErrNotFound, "Quiz not found")
	}

	question := models.Question{
		QuizID:   quizID,
		Question: req.Question,
		Options:  datatypes.NewJSONSlice(req.Options),
		Answer:   req.Answer,
	}
	if err := db.Create(&question).Error; err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	return &question, nil
}

// GetQuestions returns every question of a quiz, answers included, without
// an ownership filter. Unknown quizzes yield an empty list.
func (s *QuestionService) GetQuestions(ctx context.Context, quizID string) ([]models.Question, error) {
	questions := []models.Question{}
	err := s.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("created_at").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// UpdateQuestion rewrites a question owned, through its quiz, by userID.
func (s *QuestionService) UpdateQuestion(ctx context.Context, questionID, userID string, req *QuestionRequest) (*models.Question, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	var question models.Question
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Question{}).
			Where("id = ? AND quiz_id IN (?)", questionID, ownedQuizIDs(tx, userID)).
			Updates(map[string]interface{}{
				"question": req.Question,
				"options":  datatypes.NewJSONSlice(req.Options),
				"answer":   req.Answer,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update question: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return questionAccessError(tx, questionID)
		}

		if err := tx.Where("id = ?", questionID).First(&question).Error; err != nil {
			return fmt.Errorf("failed to reload question: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &question, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, questionID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND quiz_id IN (?)", questionID, ownedQuizIDs(tx, userID)).
			Delete(&models.Question{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete question: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return questionAccessError(tx, questionID)
		}
		return nil
	})
}

func ownedQuizIDs(tx *gorm.DB, userID string) *gorm.DB {
	return tx.Model(&models.Quiz{}).Select("id").Where("user_id = ?", userID)
}

func questionAccessError(tx *gorm.DB, questionID string) error {
	var count int64
	if err := tx.Model(&models.Question{}).Where("id = ?", questionID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up question: %w", err)
	}
	if count == 0 {
		return newError(ErrNotFound, "Question not found")
	}
	return newError(ErrForbidden, "Forbidden: You don't own this question")
}

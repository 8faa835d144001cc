package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizbuilder/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type QuizRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// QuizSummary is a quiz as listed for its owner.
type QuizSummary struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []models.Question `json:"questions"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// QuizDetails is the publicly readable view of a quiz.
type QuizDetails struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	User        Identity `json:"user"`
}

const QuizFieldsRequired = "Title and description are required"

func (s *QuizService) CreateQuiz(ctx context.Context, userID string, req *QuizRequest) (*models.Quiz, error) {
	if err := validateInput(req, QuizFieldsRequired, &req.Title, &req.Description); err != nil {
		return nil, err
	}

	quiz := models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		UserID:      userID,
	}
	if err := s.db.WithContext(ctx).Create(&quiz).Error; err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	return &quiz, nil
}

// GetUserQuizzes lists only the caller's quizzes, newest first.
func (s *QuizService) GetUserQuizzes(ctx context.Context, userID string) ([]QuizSummary, error) {
	var quizzes []models.Quiz
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.created_at")
		}).
		Order("created_at DESC").
		Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		questions := quiz.Questions
		if questions == nil {
			questions = []models.Question{}
		}
		summaries = append(summaries, QuizSummary{
			ID:          quiz.ID,
			Title:       quiz.Title,
			Description: quiz.Description,
			Questions:   questions,
			CreatedAt:   quiz.CreatedAt,
		})
	}
	return summaries, nil
}

// GetQuizByID is readable by anyone holding the id.
func (s *QuizService) GetQuizByID(ctx context.Context, quizID string) (*QuizDetails, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).Preload("User").Where("id = ?", quizID).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrNotFound, "Quiz not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	details := &QuizDetails{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
	}
	if quiz.User != nil {
		details.User = Identity{ID: quiz.User.ID, Email: quiz.User.Email}
	}
	return details, nil
}

// UpdateQuiz applies the change with a single conditional update scoped to
// the owner, so ownership cannot change between check and write.
func (s *QuizService) UpdateQuiz(ctx context.Context, quizID, userID string, req *QuizRequest) (*models.Quiz, error) {
	if err := validateInput(req, QuizFieldsRequired, &req.Title, &req.Description); err != nil {
		return nil, err
	}

	var quiz models.Quiz
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Quiz{}).
			Where("id = ? AND user_id = ?", quizID, userID).
			Updates(map[string]interface{}{
				"title":       req.Title,
				"description": req.Description,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update quiz: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return quizAccessError(tx, quizID)
		}

		if err := tx.Where("id = ?", quizID).First(&quiz).Error; err != nil {
			return fmt.Errorf("failed to reload quiz: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &quiz, nil
}

// DeleteQuiz removes the quiz and all of its questions in one transaction.
func (s *QuizService) DeleteQuiz(ctx context.Context, quizID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Quiz{}).Select("id").Where("id = ? AND user_id = ?", quizID, userID)
		if err := tx.Where("quiz_id IN (?)", owned).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}

		res := tx.Where("id = ? AND user_id = ?", quizID, userID).Delete(&models.Quiz{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete quiz: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return quizAccessError(tx, quizID)
		}
		return nil
	})
}

// quizAccessError explains why an owner-scoped statement touched no rows.
func quizAccessError(tx *gorm.DB, quizID string) error {
	var count int64
	if err := tx.Model(&models.Quiz{}).Where("id = ?", quizID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up quiz: %w", err)
	}
	if count == 0 {
		return newError(ErrNotFound, "Quiz not found")
	}
	return newError(ErrForbidden, "Forbidden")
}

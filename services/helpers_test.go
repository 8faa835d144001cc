package services

import (
	"context"
	"testing"
	"time"

	"quizbuilder/config"
	"quizbuilder/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultTestTTL = time.Hour

// newTestDB opens a private in-memory database. A single connection keeps
// the database alive and serializes transactions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func newTestAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	sessions := NewSessionService("test-secret", defaultTestTTL, nil)
	return NewAuthService(db, sessions, bcrypt.MinCost)
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createQuiz(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.Quiz {
	t.Helper()
	quiz, err := NewQuizService(db).CreateQuiz(context.Background(), owner.ID, &QuizRequest{
		Title:       title,
		Description: title + " description",
	})
	require.NoError(t, err)
	return quiz
}

func createQuestion(t *testing.T, db *gorm.DB, quiz *models.Quiz, text string) *models.Question {
	t.Helper()
	question, err := NewQuestionService(db, false).CreateQuestion(context.Background(), quiz.ID, &QuestionRequest{
		Question: text,
		Options:  []string{"a", "b", "c", "d"},
		Answer:   "a",
	})
	require.NoError(t, err)
	return question
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&count).Error)
	return count
}

package services

import (
	"context"
	"testing"

	"quizbuilder/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionService_CreateQuestion(t *testing.T) {
	db := newTestDB(t)
	questions := NewQuestionService(db, false)
	quiz := createQuiz(t, db, createUser(t, db, "a@x.com"), "T")

	question, err := questions.CreateQuestion(context.Background(), quiz.ID, &QuestionRequest{
		Question: "Q",
		Options:  []string{"a", "b"},
		Answer:   "a",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, question.ID)
	assert.Equal(t, quiz.ID, question.QuizID)

	var stored models.Question
	require.NoError(t, db.First(&stored, "id = ?", question.ID).Error)
	assert.Equal(t, "Q", stored.Question)
	assert.Equal(t, []string{"a", "b"}, []string(stored.Options))
	assert.Equal(t, "a", stored.Answer)
}

func TestQuestionService_CreateQuestionValidation(t *testing.T) {
	db := newTestDB(t)
	questions := NewQuestionService(db, false)
	quiz := createQuiz(t, db, createUser(t, db, "a@x.com"), "T")

	tests := []struct {
		name string
		req  QuestionRequest
	}{
		{name: "missing question", req: QuestionRequest{Options: []string{"a"}, Answer: "a"}},
		{name: "missing options", req: QuestionRequest{Question: "Q", Answer: "a"}},
		{name: "missing answer", req: QuestionRequest{Question: "Q", Options: []string{"a"}}},
		{name: "blank answer", req: QuestionRequest{Question: "Q", Options: []string{"a"}, Answer: " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := questions.CreateQuestion(context.Background(), quiz.ID, &req)
			assert.ErrorIs(t, err, ErrValidation)
			assert.EqualError(t, err, QuestionFieldsRequired)
		})
	}

	assert.Equal(t, int64(0), countRows(t, db, &models.Question{}, "1 = 1"))
}

func TestQuestionService_CreateQuestionEmptyOptionsList(t *testing.T) {
	db := newTestDB(t)
	questions := NewQuestionService(db, false)
	quiz := createQuiz(t, db, createUser(t, db, "a@x.com"), "T")

	// Any list is accepted, even an empty one.
	question, err := questions.CreateQuestion(context.Background(), quiz.ID, &QuestionRequest{
		Question: "Q",
		Options:  []string{},
		Answer:   "a",
	})
	require.NoError(t, err)
	assert.Empty(t, question.Options)
}

func TestQuestionService_CreateQuestionUnknownQuiz(t *testing.T) {
	db := newTestDB(t)
	questions := NewQuestionService(db, false)

	_, err := questions.CreateQuestion(context.Background(), "missing", &QuestionRequest{
		Question: "Q",
		Options:  []string{"a"},
		Answer:   "a",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Quiz not found")
}

func TestQuestionService_AnswerOutsideOptions(t *testing.T) {
	db := newTestDB(t)
	quiz := createQuiz(t, db, createUser(t, db, "a@x.com"), "T")
	req := func() *QuestionRequest {
		return &QuestionRequest{Question: "Q", Options: []string{"a", "b"}, Answer: "c"}
	}

	t.Run("accepted by default", func(t *testing.T) {
		question, err := NewQuestionService(db, false).CreateQuestion(context.Background(), quiz.ID, req())
		require.NoError(t, err)
		assert.Equal(t, "c", question.Answer)
	})

	t.Run("rejected when enforced", func(t *testing.T) {
		_, err := NewQuestionService(db, true).CreateQuestion(context.Background(), quiz.ID, req())
		assert.ErrorIs(t, err, ErrValidation)
		assert.EqualError(t, err, "Answer must be one of the options")
	})
}

func TestQuestionService_GetQuestionsHasNoOwnerFilter(t *testing.T) {
	db := newTestDB(t)
	questions := NewQuestionService(db, false)
	quiz := createQuiz(t, db, createUser(t, db, "a@x.com"), "T")
	createQuestion(t, db, quiz, "Q1")
	createQuestion(t, db, quiz, "Q2")

	// The service takes no caller identity: answers are visible to any
	// authenticated reader.
	list, err := questions.GetQuestions(context.Background(), quiz.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, question := range list {
		assert.Equal(t, "a", question.Answer)
	}

	empty, err := questions.GetQuestions(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestQuestionService_UpdateQuestion(t *testing.T) {
	db := newTestDB(t)
	questions := NewQuestionService(db, false)
	alice := createUser(t, db, "alice@x.com")
	bob := createUser(t, db, "bob@x.com")
	quiz := createQuiz(t, db, alice, "T")
	question := createQuestion(t, db, quiz, "Q")
	ctx := context.Background()

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := questions.UpdateQuestion(ctx, question.ID, bob.ID, &QuestionRequest{
			Question: "Hijacked", Options: []string{"x"}, Answer: "x",
		})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.EqualError(t, err, "Forbidden: You don't own this question")

		var stored models.Question
		require.NoError(t, db.First(&stored, "id = ?", question.ID).Error)
		assert.Equal(t, "Q", stored.Question)
	})

	t.Run("missing question", func(t *testing.T) {
		_, err := questions.UpdateQuestion(ctx, "missing", alice.ID, &QuestionRequest{
			Question: "Q", Options: []string{"a"}, Answer: "a",
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("validation runs before lookup", func(t *testing.T) {
		_, err := questions.UpdateQuestion(ctx, "missing", alice.ID, &QuestionRequest{Question: "Q"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("owner may set an answer outside the options", func(t *testing.T) {
		updated, err := questions.UpdateQuestion(ctx, question.ID, alice.ID, &QuestionRequest{
			Question: "Q2", Options: []string{"a", "b"}, Answer: "c",
		})
		require.NoError(t, err)
		assert.Equal(t, question.ID, updated.ID)
		assert.Equal(t, quiz.ID, updated.QuizID)
		assert.Equal(t, "Q2", updated.Question)
		assert.Equal(t, []string{"a", "b"}, []string(updated.Options))
		assert.Equal(t, "c", updated.Answer)
	})
}

func TestQuestionService_CreateQuestionOnForeignQuiz(t *testing.T) {
	db := newTestDB(t)
	questions := NewQuestionService(db, false)
	alice := createUser(t, db, "alice@x.com")
	bob := createUser(t, db, "bob@x.com")
	quiz := createQuiz(t, db, alice, "T")
	ctx := context.Background()

	// Creation needs only a resolvable quiz id, so anyone can add to it.
	added, err := questions.CreateQuestion(ctx, quiz.ID, &QuestionRequest{
		Question: "From Bob", Options: []string{"a"}, Answer: "a",
	})
	require.NoError(t, err)

	// Ownership of the new question still follows the quiz.
	err = questions.DeleteQuestion(ctx, added.ID, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, questions.DeleteQuestion(ctx, added.ID, alice.ID))
}

func TestQuestionService_DeleteQuestion(t *testing.T) {
	db := newTestDB(t)
	questions := NewQuestionService(db, false)
	alice := createUser(t, db, "alice@x.com")
	bob := createUser(t, db, "bob@x.com")
	quiz := createQuiz(t, db, alice, "T")
	question := createQuestion(t, db, quiz, "Q")
	sibling := createQuestion(t, db, quiz, "Sibling")
	ctx := context.Background()

	err := questions.DeleteQuestion(ctx, question.ID, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, int64(1), countRows(t, db, &models.Question{}, "id = ?", question.ID))

	require.NoError(t, questions.DeleteQuestion(ctx, question.ID, alice.ID))
	assert.Equal(t, int64(0), countRows(t, db, &models.Question{}, "id = ?", question.ID))
	assert.Equal(t, int64(1), countRows(t, db, &models.Question{}, "id = ?", sibling.ID))
	assert.Equal(t, int64(1), countRows(t, db, &models.Quiz{}, "id = ?", quiz.ID))

	err = questions.DeleteQuestion(ctx, question.ID, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestionService_AnswerKeepsOptionWhitespace(t *testing.T) {
	db := newTestDB(t)
	quiz := createQuiz(t, db, createUser(t, db, "a@x.com"), "T")
	req := func() *QuestionRequest {
		return &QuestionRequest{Question: " Q ", Options: []string{" a ", "b"}, Answer: " a "}
	}

	for _, enforce := range []bool{false, true} {
		question, err := NewQuestionService(db, enforce).CreateQuestion(context.Background(), quiz.ID, req())
		require.NoError(t, err, "enforce=%v", enforce)

		var stored models.Question
		require.NoError(t, db.First(&stored, "id = ?", question.ID).Error)
		assert.Equal(t, "Q", stored.Question)
		assert.Equal(t, " a ", stored.Answer)
		assert.Contains(t, []string(stored.Options), stored.Answer)
	}
}

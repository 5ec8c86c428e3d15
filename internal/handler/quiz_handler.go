package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyhall/quizdeck-backend/internal/extract"
	"github.com/studyhall/quizdeck-backend/internal/llm"
	"github.com/studyhall/quizdeck-backend/internal/middleware"
	"github.com/studyhall/quizdeck-backend/internal/model"
	"github.com/studyhall/quizdeck-backend/internal/response"
	"github.com/studyhall/quizdeck-backend/internal/service"
	"github.com/studyhall/quizdeck-backend/internal/store"
	"github.com/studyhall/quizdeck-backend/internal/validator"
)

// QuizHandler handles the quiz lifecycle endpoints: generation from an
// uploaded document, instance selection, and submission.
type QuizHandler struct {
	generator      *service.GeneratorService
	quizService    *service.QuizService
	maxUploadBytes int64
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(
	generator *service.GeneratorService,
	quizService *service.QuizService,
	maxUploadBytes int64,
) *QuizHandler {
	return &QuizHandler{
		generator:      generator,
		quizService:    quizService,
		maxUploadBytes: maxUploadBytes,
	}
}

// Generate godoc
// POST /api/v1/quiz/generate
// Accepts a multipart document upload and returns a new session id with
// the generated bank size. The document itself is never stored.
func (h *QuizHandler) Generate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	bank, err := h.generator.GenerateFromDocument(
		c.Request.Context(),
		claims.UserID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		data,
	)
	if err != nil {
		h.failGeneration(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.GenerateResponse{
		SessionID:      bank.SessionID,
		FileName:       bank.FileName,
		FileSize:       bank.FileSize,
		TotalQuestions: len(bank.Questions),
	})
}

func (h *QuizHandler) failGeneration(c *gin.Context, err error) {
	var rateLimited *llm.ErrRateLimit
	var unavailable *llm.ErrProviderUnavailable

	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFormat)
	case errors.Is(err, extract.ErrInsufficientContent):
		response.Fail(c, http.StatusBadRequest, response.ErrInsufficientContent)
	case errors.Is(err, extract.ErrCorruptDocument):
		response.Fail(c, http.StatusBadRequest, response.ErrCorruptDocument)
	case errors.Is(err, service.ErrGenerationEmpty):
		response.Fail(c, http.StatusBadGateway, response.ErrGenerationEmpty)
	case errors.Is(err, service.ErrGenerationMalformed):
		response.Fail(c, http.StatusBadGateway, response.ErrGenerationMalformed)
	case errors.As(err, &rateLimited), errors.As(err, &unavailable),
		errors.Is(err, context.DeadlineExceeded):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrGenerationUnavailable)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// Start godoc
// POST /api/v1/quiz/start
// Selects a quiz instance of the requested size from a generated bank and
// returns its questions with the answer key stripped.
func (h *QuizHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.quizService.StartQuiz(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		h.failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Submit godoc
// POST /api/v1/quiz/submit
// Grades the submitted answers against the active instance, persists the
// result, and returns the full per-question breakdown.
func (h *QuizHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.quizService.SubmitQuiz(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		h.failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.SubmitQuizResponse{
		ResultID:        result.ID.String(),
		TotalQuestions:  result.TotalQuestions,
		CorrectAnswers:  result.CorrectAnswers,
		WrongAnswers:    result.WrongAnswers,
		Percentage:      result.Percentage,
		TimeSpent:       result.TimeSpent,
		DetailedAnswers: result.Details,
	})
}

func (h *QuizHandler) failQuiz(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, store.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrNoInstance):
		response.Fail(c, http.StatusConflict, response.ErrNoActiveInstance)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	contractapi "github.com/lexyai/drafter/internal/api/contract"
	"github.com/lexyai/drafter/internal/config"
	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type idleUsecase struct{}

func (idleUsecase) AnswerChat(context.Context, *entity.ContractChatRequest) (*entity.ContractChatResponse, error) {
	return nil, entity.ErrCompletionFailed
}

func (idleUsecase) Generate(context.Context, *entity.GenerateContractRequest) (*entity.GenerateContractResponse, error) {
	return nil, entity.ErrCompletionFailed
}

func (idleUsecase) GenerateAsync(context.Context, *entity.GenerateContractRequest) {}

func (idleUsecase) GetProgress(_ context.Context, draftID string) *entity.Progress {
	return entity.IdleProgress(draftID)
}

func newTestServer() http.Handler {
	h := contractapi.NewHandler(idleUsecase{}, validator.NewValidator(config.FileUploadConfig{}), 7, time.Second)
	return SetupRouter(h, time.Minute, zap.NewNop())
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["message"])
}

func TestRouterServesContractRoutes(t *testing.T) {
	router := newTestServer()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contract/progress/d1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contract/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/docs/index.html", rec.Header().Get("Location"))
}

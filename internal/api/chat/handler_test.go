package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/liliang-cn/closedrag/internal/domain"
	"github.com/liliang-cn/closedrag/internal/service"
	"github.com/liliang-cn/closedrag/internal/service/servicetest"
)

func setupChatRouter(t *testing.T) (*gin.Engine, *servicetest.MockRetriever, *servicetest.MockGenerator) {
	gin.SetMode(gin.TestMode)

	retriever := new(servicetest.MockRetriever)
	generator := new(servicetest.MockGenerator)
	svc := service.NewChatService(retriever, generator, 3, zaptest.NewLogger(t))

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api"))
	return router, retriever, generator
}

func postChat(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestChat_RoundTrip(t *testing.T) {
	router, retriever, generator := setupChatRouter(t)

	docs := []domain.RetrievedDocument{
		{Title: "Red List A", URL: "http://x/a", Content: "...", Score: 0.9},
	}
	retriever.On("Search", mock.Anything, "endangered species list", 3).Return(docs, nil).Once()
	generator.On("Generate", mock.Anything, "endangered species list", "[Red List A]\n...\nSource: http://x/a").
		Return("Here is the answer. [source: Red List A]", nil).Once()

	rr := postChat(router, `{"message": "endangered species list"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`{"response":"Here is the answer. [source: Red List A]","sources":[{"title":"Red List A","url":"http://x/a"}]}`,
		rr.Body.String())
	retriever.AssertExpectations(t)
	generator.AssertExpectations(t)
}

func TestChat_SourcesPreserveOrder(t *testing.T) {
	router, retriever, generator := setupChatRouter(t)

	docs := []domain.RetrievedDocument{
		{Title: "C", URL: "http://x/c", Score: 0.9},
		{Title: "A", URL: "http://x/a", Score: 0.5},
		{Title: "B", URL: "http://x/b", Score: 0.1},
	}
	retriever.On("Search", mock.Anything, "q", 3).Return(docs, nil).Once()
	generator.On("Generate", mock.Anything, "q", mock.AnythingOfType("string")).Return("ok", nil).Once()

	rr := postChat(router, `{"message": "q"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp domain.ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, domain.SourcesOf(docs), resp.Sources)
}

func TestChat_MissingOrEmptyMessage(t *testing.T) {
	bodies := []string{`{}`, `{"message": ""}`, `{"other": "field"}`, `null`}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			router, retriever, generator := setupChatRouter(t)

			rr := postChat(router, body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var resp domain.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, domain.ErrEmptyMessage.Error(), resp.Error)

			retriever.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
			generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestChat_InvalidJSON(t *testing.T) {
	for _, body := range []string{`{"message":`, `not json`, `{"message": 42}`, ``} {
		router, retriever, generator := setupChatRouter(t)

		rr := postChat(router, body)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "body %q", body)
		var resp domain.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error)

		retriever.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
		generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestChat_GenerationFailureStillOK(t *testing.T) {
	router, retriever, generator := setupChatRouter(t)

	docs := []domain.RetrievedDocument{{Title: "Red List A", URL: "http://x/a"}}
	retriever.On("Search", mock.Anything, "q", 3).Return(docs, nil).Once()
	generator.On("Generate", mock.Anything, "q", mock.AnythingOfType("string")).
		Return("", errors.New("token expired")).Once()

	rr := postChat(router, `{"message": "q"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp domain.ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Response, "token expired")
	assert.Equal(t, []domain.Source{{Title: "Red List A", URL: "http://x/a"}}, resp.Sources)
}

func TestChat_RetrievalFailureStillOK(t *testing.T) {
	router, retriever, generator := setupChatRouter(t)

	retriever.On("Search", mock.Anything, "q", 3).Return(nil, context.DeadlineExceeded).Once()
	generator.On("Generate", mock.Anything, "q", "").Return("no context answer", nil).Once()

	rr := postChat(router, `{"message": "q"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"response":"no context answer","sources":[]}`, rr.Body.String())
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeChatService struct {
	answer string
	reply  string
	err    error
}

func (f *fakeChatService) Ask(ctx context.Context, question string) (string, error) {
	return f.answer, f.err
}

func (f *fakeChatService) Chat(ctx context.Context, message string) (string, error) {
	return f.reply, f.err
}

func setupChatRouter(svc *fakeChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewChatHandler(svc).RegisterRoutes(router)
	return router
}

func TestAskEndpoint(t *testing.T) {
	router := setupChatRouter(&fakeChatService{answer: "Rake-03 had an open job card."})

	body, _ := json.Marshal(map[string]string{"question": "Why was Rake-03 held back?"})
	recorder := doRequest(router, http.MethodPost, "/kronos/api/v1/chat/ask", body)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Data map[string]any `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "Rake-03 had an open job card.", response.Data["answer"])
	assert.NotEmpty(t, response.Data["exchange_id"])
}

func TestAskEndpoint_UpstreamFailureDegradesInline(t *testing.T) {
	router := setupChatRouter(&fakeChatService{err: assert.AnError})

	body, _ := json.Marshal(map[string]string{"question": "anyone home?"})
	recorder := doRequest(router, http.MethodPost, "/kronos/api/v1/chat/ask", body)

	// The widget still gets a well-formed exchange, flagged degraded, so it
	// can render the trouble-connecting line inline.
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Data map[string]any `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, true, response.Data["degraded"])
	assert.Contains(t, response.Data["answer"], "trouble connecting")
}

func TestAskEndpoint_RequiresQuestion(t *testing.T) {
	router := setupChatRouter(&fakeChatService{})

	body, _ := json.Marshal(map[string]string{"question": ""})
	recorder := doRequest(router, http.MethodPost, "/kronos/api/v1/chat/ask", body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestMessageEndpoint(t *testing.T) {
	router := setupChatRouter(&fakeChatService{reply: "Rake-01 was in service."})

	body, _ := json.Marshal(map[string]string{"message": "where was Rake-01?"})
	recorder := doRequest(router, http.MethodPost, "/kronos/api/v1/chat/message", body)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Data map[string]any `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "Rake-01 was in service.", response.Data["reply"])
}

func TestMessageEndpoint_RequiresMessage(t *testing.T) {
	router := setupChatRouter(&fakeChatService{})

	recorder := doRequest(router, http.MethodPost, "/kronos/api/v1/chat/message", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

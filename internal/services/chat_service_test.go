package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/config"
)

func testChatService(askURL, chatURL string) IChatService {
	return NewChatService(config.ChatServiceConfig{
		AskServiceURL:  askURL,
		ChatServiceURL: chatURL,
		TimeoutSeconds: 5,
	}, nil)
}

func TestAsk_ForwardsQuestion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ask", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Why was Rake-03 on maintenance on day 15?", body["question"])

		w.Write([]byte(`{"answer": "Its health score dropped below the maintenance threshold."}`))
	}))
	defer server.Close()

	answer, err := testChatService(server.URL, server.URL).Ask(context.Background(), "Why was Rake-03 on maintenance on day 15?")

	assert.NoError(t, err)
	assert.Equal(t, "Its health score dropped below the maintenance threshold.", answer)
}

func TestAsk_ServiceReportedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "No question provided."}`))
	}))
	defer server.Close()

	answer, err := testChatService(server.URL, server.URL).Ask(context.Background(), "hello")

	assert.Error(t, err)
	assert.Empty(t, answer)
}

func TestChat_ForwardsMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "status of Rake-01 on day 2", body["message"])

		w.Write([]byte(`{"reply": "Rake-01 was in service on day 2."}`))
	}))
	defer server.Close()

	reply, err := testChatService(server.URL, server.URL).Chat(context.Background(), "status of Rake-01 on day 2")

	assert.NoError(t, err)
	assert.Equal(t, "Rake-01 was in service on day 2.", reply)
}

func TestChat_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "An internal error occurred."}`))
	}))
	defer server.Close()

	_, err := testChatService(server.URL, server.URL).Chat(context.Background(), "hello")

	assert.Error(t, err)
}

func TestChat_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := testChatService(server.URL, server.URL).Ask(context.Background(), "anyone there?")

	assert.Error(t, err)
}

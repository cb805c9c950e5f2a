package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/config"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/observability"
)

// IChatService forwards free-text questions to the two remote answering
// services. It carries no business logic of its own; failure surfaces as an
// error value and the handler decides what the user sees.
type IChatService interface {
	Ask(ctx context.Context, question string) (string, error)
	Chat(ctx context.Context, message string) (string, error)
}

type ChatService struct {
	cfg     config.ChatServiceConfig
	client  *http.Client
	metrics *observability.Metrics
}

func NewChatService(cfg config.ChatServiceConfig, metrics *observability.Metrics) IChatService {
	return &ChatService{
		cfg:     cfg,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		metrics: metrics,
	}
}

type askResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error"`
}

// Ask forwards a question to the Q&A service's /ask endpoint.
func (s *ChatService) Ask(ctx context.Context, question string) (string, error) {
	var parsed askResponse
	if err := s.forward(ctx, s.cfg.AskServiceURL+"/ask", map[string]string{"question": question}, &parsed); err != nil {
		s.metrics.ChatForwardFailed("ask")
		return "", err
	}
	if parsed.Error != "" {
		s.metrics.ChatForwardFailed("ask")
		return "", fmt.Errorf("answer service error: %s", parsed.Error)
	}
	return parsed.Answer, nil
}

// Chat forwards a message to the co-pilot service's /chat endpoint.
func (s *ChatService) Chat(ctx context.Context, message string) (string, error) {
	var parsed chatResponse
	if err := s.forward(ctx, s.cfg.ChatServiceURL+"/chat", map[string]string{"message": message}, &parsed); err != nil {
		s.metrics.ChatForwardFailed("chat")
		return "", err
	}
	if parsed.Error != "" {
		s.metrics.ChatForwardFailed("chat")
		return "", fmt.Errorf("co-pilot service error: %s", parsed.Error)
	}
	return parsed.Reply, nil
}

func (s *ChatService) forward(ctx context.Context, url string, payload map[string]string, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("Chat forward to %s failed: %v", url, err)
		return fmt.Errorf("failed to reach chat service")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Chat service %s returned status %d: %s", url, resp.StatusCode, string(raw))
		return fmt.Errorf("chat service returned status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse chat response: %w", err)
	}
	return nil
}

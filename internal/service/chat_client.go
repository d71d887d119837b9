package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ChatError 的失败原因
const (
	ChatReasonNetwork   = "network"
	ChatReasonStatus    = "status"
	ChatReasonMalformed = "malformed"
)

// ChatError 对话接口调用失败
type ChatError struct {
	Reason     string
	StatusCode int
	Err        error
}

func (e *ChatError) Error() string {
	switch e.Reason {
	case ChatReasonStatus:
		return fmt.Sprintf("chat completion failed: status %d", e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("chat completion failed (%s): %v", e.Reason, e.Err)
		}
		return fmt.Sprintf("chat completion failed (%s)", e.Reason)
	}
}

func (e *ChatError) Unwrap() error { return e.Err }

// ChatMessage 一轮对话
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatConfig 对话服务配置
type ChatConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatClient OpenAI 兼容的 chat/completions 客户端，只请求一次，不重试
type ChatClient struct {
	httpClient *resty.Client
	cfg        ChatConfig
	logger     *zap.Logger
}

func NewChatClient(cfg ChatConfig, logger *zap.Logger) *ChatClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &ChatClient{httpClient: client, cfg: cfg, logger: logger}
}

// Complete 发送对话，返回 choices[0].message.content
func (c *ChatClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	req := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		c.logger.Error("Chat completion call failed", zap.Error(err))
		return "", &ChatError{Reason: ChatReasonNetwork, Err: err}
	}

	if !resp.IsSuccess() {
		c.logger.Error("Chat completion returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.Int("body_len", len(resp.Body())),
		)
		return "", &ChatError{Reason: ChatReasonStatus, StatusCode: resp.StatusCode()}
	}

	var out chatResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		c.logger.Error("Failed to unmarshal chat completion response", zap.Error(err))
		return "", &ChatError{Reason: ChatReasonMalformed, StatusCode: resp.StatusCode(), Err: err}
	}
	if len(out.Choices) == 0 {
		return "", &ChatError{Reason: ChatReasonMalformed, StatusCode: resp.StatusCode(), Err: fmt.Errorf("no choices in response")}
	}

	reply := strings.TrimSpace(out.Choices[0].Message.Content)
	c.logger.Debug("Chat completion succeeded",
		zap.Int("turns", len(messages)),
		zap.Int("reply_len", len(reply)),
	)
	return reply, nil
}

package service

import (
	"context"
	"strings"
	"time"

	"food-checker/internal/core/ai/cache"
	openrouter "food-checker/internal/core/service"
	"food-checker/internal/infrastructure/config"
	"food-checker/internal/pkg/common"
)

// Response AI 回應結構
type Response struct {
	Content string
}

// Service AI 服務：統一的上游呼叫入口，帶快取
type Service struct {
	config     *config.Config
	openRouter *openrouter.OpenRouterService
	cacheStore cache.Store
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, cacheStore cache.Store) (*Service, error) {
	return &Service{
		config:     cfg,
		openRouter: openrouter.NewOpenRouterService(cfg),
		cacheStore: cacheStore,
	}, nil
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, prompt string, imageData string, maxTokens int) (*Response, error) {
	// 統一 prompt 格式，連續空白合併為一格，確保快取 key 一致
	prompt = strings.Join(strings.Fields(strings.TrimSpace(prompt)), " ")

	// 檢查緩存
	if s.cacheStore != nil {
		if val, err := s.cacheStore.Get(ctx, prompt, imageData); err == nil && val != "" {
			return &Response{Content: val}, nil
		}
	}

	// 每次上游呼叫帶一個關聯 ID，方便跨服務追日誌
	callID := common.GenerateUUID()
	start := time.Now()
	content, err := s.openRouter.GenerateResponse(ctx, prompt, imageData, maxTokens)
	common.LogAICall(prompt, time.Since(start), err, callID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.Set(ctx, prompt, imageData, content)
	}

	return &Response{Content: content}, nil
}

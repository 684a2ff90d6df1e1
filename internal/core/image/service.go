package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP

	"food-checker/internal/pkg/common"
)

// Service 圖片處理服務：接受 URL 或 data URI，統一轉成 JPEG data URI 後交給辨識流程
type Service struct {
	maxSizeBytes int64
	httpClient   *http.Client
}

// NewService 創建圖片處理服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Prepare 驗證並轉換圖片，輸出 data:image/jpeg;base64 格式
func (s *Service) Prepare(imageData string) (string, error) {
	raw, err := s.fetchBytes(imageData)
	if err != nil {
		return "", err
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidImageFormat, err)
	}
	if !isSupportedFormat(format) {
		return "", fmt.Errorf("%w: %s", common.ErrInvalidImageFormat, format)
	}

	// 統一重編碼為 JPEG，上游視覺模型只需處理單一格式
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("data:image/jpeg;base64,%s", encoded), nil
}

// Validate 只驗證圖片可解碼且大小合規，不做轉換
func (s *Service) Validate(imageData string) error {
	raw, err := s.fetchBytes(imageData)
	if err != nil {
		return err
	}

	_, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidImageFormat, err)
	}
	if !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", common.ErrInvalidImageFormat, format)
	}
	return nil
}

// fetchBytes 取得原始圖片位元組，支援 http(s) URL 與 data URI 兩種來源
func (s *Service) fetchBytes(imageData string) ([]byte, error) {
	if strings.HasPrefix(imageData, "http://") || strings.HasPrefix(imageData, "https://") {
		resp, err := s.httpClient.Get(imageData)
		if err != nil {
			return nil, fmt.Errorf("failed to download image: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to download image: status code %d", resp.StatusCode)
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSizeBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read image data: %w", err)
		}
		if int64(len(raw)) > s.maxSizeBytes {
			return nil, fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes)
		}
		return raw, nil
	}

	if !strings.HasPrefix(imageData, "data:image/") {
		return nil, fmt.Errorf("%w: expected URL or data URI", common.ErrInvalidImageFormat)
	}

	parts := strings.SplitN(imageData, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: malformed data URI", common.ErrInvalidImageFormat)
	}

	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidImageFormat, err)
	}
	if int64(len(raw)) > s.maxSizeBytes {
		return nil, fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes)
	}
	return raw, nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	switch format {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	}
	return false
}

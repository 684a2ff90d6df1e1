package food

import (
	"fmt"
	"net/http"
	"strings"

	"food-checker/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdentifyRequest 圖片辨識請求
// Image 接受 data URI、http(s) URL，或搭配 MimeType 的裸 base64
type IdentifyRequest struct {
	Image    string `json:"image" binding:"required"`
	MimeType string `json:"mime_type,omitempty"`
}

// HandleIdentify 處理圖片辨識請求
func (h *Handler) HandleIdentify(c *gin.Context) {
	var req IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid request format",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format: image is required",
			"code":  "INVALID_REQUEST",
		})
		return
	}

	imageData := req.Image
	if !strings.HasPrefix(imageData, "data:image/") &&
		!strings.HasPrefix(imageData, "http://") &&
		!strings.HasPrefix(imageData, "https://") {
		mime := req.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		imageData = fmt.Sprintf("data:%s;base64,%s", mime, req.Image)
	}

	// 圖片驗證失敗屬於用戶端錯誤，不走保底判定
	prepared, err := h.imageService.Prepare(imageData)
	if err != nil {
		common.LogWarn("圖片驗證失敗",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid image",
			"code":  "INVALID_IMAGE",
		})
		return
	}

	result := h.checker.Identify(c.Request.Context(), prepared)

	common.LogInfo("辨識完成",
		zap.String("name", result.Name),
		zap.String("verdict", string(result.Lookup.Verdict)),
		zap.String("request_id", requestid.Get(c)),
	)

	c.JSON(http.StatusOK, result)
}

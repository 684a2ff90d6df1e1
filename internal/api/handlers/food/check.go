package food

import (
	"net/http"

	foodcore "food-checker/internal/core/food"
	"food-checker/internal/core/image"
	"food-checker/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食物查詢相關的處理器
type Handler struct {
	checker      *foodcore.Checker
	db           *foodcore.Database
	resolver     *foodcore.Resolver
	imageService *image.Service
}

// NewHandler 創建處理器
func NewHandler(checker *foodcore.Checker, db *foodcore.Database, imageService *image.Service) *Handler {
	return &Handler{
		checker:      checker,
		db:           db,
		resolver:     foodcore.NewResolver(db),
		imageService: imageService,
	}
}

// CheckRequest 查詢請求
type CheckRequest struct {
	Item string `json:"item" binding:"required"`
}

// HandleCheck 處理 food/trash 查詢
// 唯一的 400 情境是請求體無效；查詢內容本身永遠能得到一個判定結果
func (h *Handler) HandleCheck(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid request format",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format: item is required",
			"code":  "INVALID_REQUEST",
		})
		return
	}

	result := h.checker.Check(c.Request.Context(), req.Item)

	common.LogInfo("查詢完成",
		zap.String("query", result.Query),
		zap.Bool("is_composite", result.IsComposite),
		zap.String("request_id", requestid.Get(c)),
	)

	c.JSON(http.StatusOK, result)
}

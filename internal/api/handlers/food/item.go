package food

import (
	"net/http"

	"food-checker/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// HandleItem 依名稱全等查詢單一條目
func (h *Handler) HandleItem(c *gin.Context) {
	name := c.Param("name")

	result, ok := h.resolver.ResolveExact(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": common.ErrItemNotFound.Message,
			"code":  common.ErrItemNotFound.Code,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleCategories 列出所有分類與條目數
func (h *Handler) HandleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.db.Categories(),
	})
}

// HandleCategory 列出指定分類下的所有條目，依分數排序
func (h *Handler) HandleCategory(c *gin.Context) {
	category := c.Param("category")

	entries := h.db.ByCategory(category)
	if len(entries) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": common.ErrUnknownCategory.Message,
			"code":  common.ErrUnknownCategory.Code,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"entries":  entries,
	})
}

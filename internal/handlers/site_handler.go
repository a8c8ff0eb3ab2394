package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yusurko/freak/internal/services"
)

// SiteHandler 站点级的展示接口
type SiteHandler struct {
	SiteService *services.SiteService
}

func NewSiteHandler(siteService *services.SiteService) *SiteHandler {
	return &SiteHandler{SiteService: siteService}
}

// Stats 公开的站点统计：帖子总数、近 30 天活跃用户数
func (h *SiteHandler) Stats(c *gin.Context) {
	stats, err := h.SiteService.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post_count":   stats.PostCount,
		"active_users": stats.ActiveUsers,
	})
}

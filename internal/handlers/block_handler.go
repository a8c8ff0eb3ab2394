package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yusurko/freak/internal/middlewares"
	"github.com/yusurko/freak/internal/services"
)

type BlockHandler struct {
	BlockService *services.BlockService
	UserService  *services.UserService
}

func NewBlockHandler(blockService *services.BlockService, userService *services.UserService) *BlockHandler {
	return &BlockHandler{BlockService: blockService, UserService: userService}
}

func (h *BlockHandler) Block(c *gin.Context) {
	viewer := middlewares.GetViewer(c)
	if viewer.IsAnonymous() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
		return
	}
	target, err := h.UserService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.BlockService.Block(c.Request.Context(), viewer.ID(), target.ID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": true})
}

func (h *BlockHandler) Unblock(c *gin.Context) {
	viewer := middlewares.GetViewer(c)
	if viewer.IsAnonymous() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
		return
	}
	target, err := h.UserService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.BlockService.Unblock(c.Request.Context(), viewer.ID(), target.ID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": false})
}

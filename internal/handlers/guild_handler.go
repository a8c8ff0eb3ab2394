package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yusurko/freak/internal/middlewares"
	"github.com/yusurko/freak/internal/repositories"
	"github.com/yusurko/freak/internal/services"
)

type GuildHandler struct {
	GuildService *services.GuildService
	Membership   *services.MembershipService
	UserService  *services.UserService
	UserRepo     *repositories.UserRepository
}

func NewGuildHandler(guildService *services.GuildService, membership *services.MembershipService, userService *services.UserService, userRepo *repositories.UserRepository) *GuildHandler {
	return &GuildHandler{GuildService: guildService, Membership: membership, UserService: userService, UserRepo: userRepo}
}

func (h *GuildHandler) currentUser(c *gin.Context) (*services.Viewer, bool) {
	viewer := middlewares.GetViewer(c)
	if viewer.IsAnonymous() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
		return nil, false
	}
	if err := viewer.Resolve(c.Request.Context(), h.UserRepo); err != nil {
		writeError(c, err)
		return nil, false
	}
	return viewer, true
}

type createGuildRequest struct {
	Name        string `json:"name" binding:"required"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

func (h *GuildHandler) Create(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req createGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	user, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}
	guild, err := h.GuildService.Create(c.Request.Context(), user, req.Name, req.DisplayName, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGuildView(guild))
}

func (h *GuildHandler) Get(c *gin.Context) {
	guild, err := h.GuildService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGuildView(guild))
}

type updateGuildRequest struct {
	DisplayName  *string `json:"display_name"`
	Description  *string `json:"description"`
	IsRestricted *bool   `json:"is_restricted"`
	IsPublic     *bool   `json:"is_public"`
	Language     *string `json:"language"`
}

func (h *GuildHandler) UpdateSettings(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req updateGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	guild, err := h.GuildService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	user, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}
	err = h.GuildService.UpdateSettings(c.Request.Context(), user, guild, services.GuildSettings{
		DisplayName:  req.DisplayName,
		Description:  req.Description,
		IsRestricted: req.IsRestricted,
		IsPublic:     req.IsPublic,
		Language:     req.Language,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGuildView(guild))
}

func (h *GuildHandler) Subscribe(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	guild, err := h.GuildService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	if _, err := h.Membership.Subscribe(c.Request.Context(), guild.ID, viewer.ID()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": true})
}

func (h *GuildHandler) Unsubscribe(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	guild, err := h.GuildService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	if _, err := h.Membership.Unsubscribe(c.Request.Context(), guild.ID, viewer.ID()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": false})
}

type exileRequest struct {
	Username string `json:"username" binding:"required"`
	Days     *int   `json:"days"`
	Reason   int16  `json:"reason"`
}

func (h *GuildHandler) Exile(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req exileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	guild, err := h.GuildService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	target, err := h.UserService.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	actor, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}

	var until *time.Time
	if req.Days != nil {
		t := time.Now().AddDate(0, 0, *req.Days)
		until = &t
	}
	if _, err := h.Membership.Exile(c.Request.Context(), actor, guild, target, until, req.Reason); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banned": true})
}

type memberActionRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *GuildHandler) Unexile(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req memberActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	guild, err := h.GuildService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	target, err := h.UserService.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	actor, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}
	if _, err := h.Membership.Unexile(c.Request.Context(), actor, guild, target); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banned": false})
}

func (h *GuildHandler) PromoteModerator(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req memberActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	guild, err := h.GuildService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	target, err := h.UserService.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	actor, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}
	if _, err := h.Membership.PromoteModerator(c.Request.Context(), actor, guild, target); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moderator": true})
}

func (h *GuildHandler) Approve(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req memberActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	guild, err := h.GuildService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	target, err := h.UserService.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	actor, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}
	if _, err := h.Membership.Approve(c.Request.Context(), actor, guild, target.ID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": true})
}

func (h *GuildHandler) TransferOwnership(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req memberActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	guild, err := h.GuildService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	target, err := h.UserService.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	actor, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.Membership.TransferOwnership(c.Request.Context(), actor, guild, target.ID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGuildView(guild))
}

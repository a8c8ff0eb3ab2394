package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yusurko/freak/internal/middlewares"
	"github.com/yusurko/freak/internal/repositories"
	"github.com/yusurko/freak/internal/services"
)

type UserHandler struct {
	UserService *services.UserService
	VoteService *services.VoteService
	UserRepo    *repositories.UserRepository
}

func NewUserHandler(userService *services.UserService, voteService *services.VoteService, userRepo *repositories.UserRepository) *UserHandler {
	return &UserHandler{UserService: userService, VoteService: voteService, UserRepo: userRepo}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password" binding:"required"`
	Email       string `json:"email"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	user, err := h.UserService.Register(c.Request.Context(), req.Username, req.DisplayName, req.Password, req.Email, c.ClientIP())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserView(user))
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	token, user, err := h.UserService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": newUserView(user)})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.UserService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user))
}

func (h *UserHandler) Me(c *gin.Context) {
	viewer := middlewares.GetViewer(c)
	if viewer.IsAnonymous() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
		return
	}
	if err := viewer.Resolve(c.Request.Context(), h.UserRepo); err != nil {
		writeError(c, err)
		return
	}
	user, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user))
}

type suspendRequest struct {
	Reason int16 `json:"reason"`
	Days   *int  `json:"days"`
}

// Suspend 站级封禁，仅限管理员；days 缺省为无限期
func (h *UserHandler) Suspend(c *gin.Context) {
	viewer := middlewares.GetViewer(c)
	if err := viewer.Resolve(c.Request.Context(), h.UserRepo); err != nil {
		writeError(c, err)
		return
	}
	actor, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}
	var req suspendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	target, err := h.UserService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	var until *time.Time
	if req.Days != nil {
		t := time.Now().AddDate(0, 0, *req.Days)
		until = &t
	}
	if err := h.UserService.Suspend(c.Request.Context(), actor, target.ID, req.Reason, until); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suspended": true})
}

// RecomputeKarma 管理员手工对账入口
func (h *UserHandler) RecomputeKarma(c *gin.Context) {
	viewer := middlewares.GetViewer(c)
	if err := viewer.Resolve(c.Request.Context(), h.UserRepo); err != nil {
		writeError(c, err)
		return
	}
	if isAdmin, err := viewer.IsAdministrator(); err != nil || !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrUnauthorized.Error()})
		return
	}

	target, err := h.UserService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	karma, err := h.VoteService.RecomputeKarma(c.Request.Context(), target.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"karma": karma})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yusurko/freak/internal/middlewares"
	"github.com/yusurko/freak/internal/models"
	"github.com/yusurko/freak/internal/repositories"
	"github.com/yusurko/freak/internal/services"
	"github.com/yusurko/freak/utils/snowflake"
)

type ReportHandler struct {
	ReportService *services.ReportService
	ReportRepo    *repositories.ReportRepository
	UserRepo      *repositories.UserRepository
}

func NewReportHandler(reportService *services.ReportService, reportRepo *repositories.ReportRepository, userRepo *repositories.UserRepository) *ReportHandler {
	return &ReportHandler{ReportService: reportService, ReportRepo: reportRepo, UserRepo: userRepo}
}

func (h *ReportHandler) currentUser(c *gin.Context) (*services.Viewer, bool) {
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

type submitReportRequest struct {
	TargetType int16  `json:"target_type" binding:"required"`
	TargetID   string `json:"target_id" binding:"required"`
	ReasonCode int16  `json:"reason_code" binding:"required"`
}

func (h *ReportHandler) Submit(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}
	targetID, err := snowflake.DecodeB32L(req.TargetID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "资源不存在"})
		return
	}

	// 先定位目标，拿到作者信息做自我举报检查
	target, err := h.ReportService.LoadTarget(c.Request.Context(), &models.PostReport{
		TargetType: req.TargetType,
		TargetID:   targetID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	reporter, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}
	report, err := h.ReportService.Submit(c.Request.Context(), reporter, target, req.ReasonCode, c.ClientIP())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReportView(report))
}

// List 待处理队列，仅限管理员
func (h *ReportHandler) List(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	if isAdmin, err := viewer.IsAdministrator(); err != nil || !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrUnauthorized.Error()})
		return
	}
	limit, offset := pagination(c)

	reports, err := h.ReportRepo.OpenReports(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]reportView, 0, len(reports))
	for i := range reports {
		views = append(views, newReportView(&reports[i]))
	}
	c.JSON(http.StatusOK, gin.H{"reports": views})
}

// Reasons 举报理由全表，前端下拉框用
func (h *ReportHandler) Reasons(c *gin.Context) {
	type reasonView struct {
		NumCode     int16  `json:"num_code"`
		Code        string `json:"code"`
		Description string `json:"description"`
	}
	views := make([]reasonView, 0, len(models.PostReportReasons))
	for _, r := range models.PostReportReasons {
		views = append(views, reasonView{NumCode: r.NumCode, Code: r.Code, Description: r.Description})
	}
	c.JSON(http.StatusOK, gin.H{"reasons": views})
}

type transitionRequest struct {
	Action string `json:"action" binding:"required"`
}

// Transition 处理一条举报：accept / strike / reject / withhold / escalate
func (h *ReportHandler) Transition(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	reportID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	actor, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.ReportService.Transition(c.Request.Context(), actor, reportID, req.Action); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

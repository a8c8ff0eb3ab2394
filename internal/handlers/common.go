package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
	"github.com/yusurko/freak/internal/services"
	"github.com/yusurko/freak/utils/snowflake"
)

// writeError 服务层错误到 HTTP 状态码的统一映射
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrGuildNotFound),
		errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrReportNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUserAlreadyExists),
		errors.Is(err, services.ErrGuildNameTaken),
		errors.Is(err, services.ErrConcurrencyConflict),
		errors.Is(err, services.ErrReportClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidVoteTransition),
		errors.Is(err, services.ErrInvalidReportAction),
		errors.Is(err, services.ErrSelfReport),
		errors.Is(err, services.ErrUnknownReason):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPasswordIncorrect),
		errors.Is(err, services.ErrAccountSuspended):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrPostingNotAllowed),
		errors.Is(err, services.ErrPostLocked),
		errors.Is(err, services.ErrKarmaTooLow):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotImplemented):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
	}
}

// parseIDParam 路径参数里的 b32l 标识符
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := snowflake.DecodeB32L(c.Param(name))
	if err != nil {
		// 格式不合法的标识符等同于资源不存在，不泄露内部编码规则
		c.JSON(http.StatusNotFound, gin.H{"error": "资源不存在"})
		return 0, false
	}
	return id, true
}

// pagination query 参数里的 limit/offset，带上限
func pagination(c *gin.Context) (limit, offset int) {
	limit = 25
	offset = 0
	if v, err := parsePositive(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := parsePositive(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	if limit > 100 {
		limit = 100
	}
	return limit, offset
}

func parsePositive(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.New("not a number")
		}
		n = n*10 + int(r-'0')
		if n > 1<<30 {
			return 0, errors.New("overflow")
		}
	}
	return n, nil
}

// 对外 JSON 视图：标识符一律 b32l 编码

type postView struct {
	ID        string  `json:"id"`
	Slug      string  `json:"slug"`
	Title     string  `json:"title"`
	AuthorID  *string `json:"author_id,omitempty"`
	GuildID   *string `json:"guild_id,omitempty"`
	Privacy   int16   `json:"privacy"`
	IsLocked  bool    `json:"is_locked"`
	SourceURL string  `json:"source_url,omitempty"`
	Text      string  `json:"text_content"`
	CreatedAt string  `json:"created_at"`
}

func newPostView(p *models.Post) postView {
	view := postView{
		ID:        snowflake.EncodeB32L(p.ID),
		Slug:      p.Slug,
		Title:     p.Title,
		Privacy:   p.Privacy,
		IsLocked:  p.IsLocked,
		SourceURL: p.SourceURL,
		Text:      p.TextContent,
		CreatedAt: p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if p.AuthorID != nil {
		s := snowflake.EncodeB32L(*p.AuthorID)
		view.AuthorID = &s
	}
	if p.GuildID != nil {
		s := snowflake.EncodeB32L(*p.GuildID)
		view.GuildID = &s
	}
	return view
}

func newPostViews(posts []models.Post) []postView {
	views := make([]postView, 0, len(posts))
	for i := range posts {
		views = append(views, newPostView(&posts[i]))
	}
	return views
}

type commentView struct {
	ID           string  `json:"id"`
	AuthorID     *string `json:"author_id,omitempty"`
	ParentPostID string  `json:"parent_post_id"`
	ParentID     *string `json:"parent_comment_id,omitempty"`
	Text         string  `json:"text_content"`
	CreatedAt    string  `json:"created_at"`
}

func newCommentView(cm *models.Comment) commentView {
	view := commentView{
		ID:           snowflake.EncodeB32L(cm.ID),
		ParentPostID: snowflake.EncodeB32L(cm.ParentPostID),
		Text:         cm.TextContent,
		CreatedAt:    cm.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if cm.AuthorID != nil {
		s := snowflake.EncodeB32L(*cm.AuthorID)
		view.AuthorID = &s
	}
	if cm.ParentCommentID != nil {
		s := snowflake.EncodeB32L(*cm.ParentCommentID)
		view.ParentID = &s
	}
	return view
}

type userView struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Karma       int64  `json:"karma"`
	JoinedAt    string `json:"joined_at"`
}

func newUserView(u *models.User) userView {
	return userView{
		ID:          snowflake.EncodeB32L(u.ID),
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Karma:       u.Karma,
		JoinedAt:    u.JoinedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

type guildView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	DisplayName  string  `json:"display_name,omitempty"`
	Description  string  `json:"description,omitempty"`
	OwnerID      *string `json:"owner_id,omitempty"`
	IsRestricted bool    `json:"is_restricted"`
	IsPublic     bool    `json:"is_public"`
}

func newGuildView(g *models.Guild) guildView {
	view := guildView{
		ID:           snowflake.EncodeB32L(g.ID),
		Name:         g.Name,
		DisplayName:  g.DisplayName,
		Description:  g.Description,
		IsRestricted: g.IsRestricted,
		IsPublic:     g.IsPublic,
	}
	if g.OwnerID != nil {
		s := snowflake.EncodeB32L(*g.OwnerID)
		view.OwnerID = &s
	}
	return view
}

type reportView struct {
	ID         string `json:"id"`
	TargetType int16  `json:"target_type"`
	TargetID   string `json:"target_id"`
	ReasonCode int16  `json:"reason_code"`
	Reason     string `json:"reason"`
	Status     int16  `json:"status"`
	CreatedAt  string `json:"created_at"`
}

func newReportView(r *models.PostReport) reportView {
	return reportView{
		ID:         snowflake.EncodeB32L(r.ID),
		TargetType: r.TargetType,
		TargetID:   snowflake.EncodeB32L(r.TargetID),
		ReasonCode: r.ReasonCode,
		Reason:     models.ReasonDescription(r.ReasonCode),
		Status:     r.UpdateStatus,
		CreatedAt:  r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

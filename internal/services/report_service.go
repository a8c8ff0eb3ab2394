package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
	"github.com/yusurko/freak/internal/repositories"
	logger "github.com/yusurko/freak/middleware/log"
	"github.com/yusurko/freak/utils/snowflake"
)

// 举报处理动作
const (
	ReportActionAccept   = "accept"
	ReportActionStrike   = "strike"
	ReportActionReject   = "reject"
	ReportActionWithhold = "withhold"
	ReportActionEscalate = "escalate"
)

// ReportTarget 举报目标的统一视图，帖子和评论各自实现
type ReportTarget interface {
	TargetType() int16
	TargetID() int64
	AuthorID() *int64
	ContentSnapshot() string
}

type PostTarget struct{ Post *models.Post }

func (t PostTarget) TargetType() int16       { return models.ReportTargetPost }
func (t PostTarget) TargetID() int64         { return t.Post.ID }
func (t PostTarget) AuthorID() *int64        { return t.Post.AuthorID }
func (t PostTarget) ContentSnapshot() string { return t.Post.Title + "\n\n" + t.Post.TextContent }

type CommentTarget struct{ Comment *models.Comment }

func (t CommentTarget) TargetType() int16       { return models.ReportTargetComment }
func (t CommentTarget) TargetID() int64         { return t.Comment.ID }
func (t CommentTarget) AuthorID() *int64        { return t.Comment.AuthorID }
func (t CommentTarget) ContentSnapshot() string { return t.Comment.TextContent }

// ModerationEvent 处理动作的审计事件，投递到消息队列
type ModerationEvent struct {
	ReportID   int64     `json:"report_id"`
	Action     string    `json:"action"`
	TargetType int16     `json:"target_type"`
	TargetID   int64     `json:"target_id"`
	ReasonCode int16     `json:"reason_code"`
	ActorID    int64     `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditEmitter 审计事件出口。投递失败只记日志，不回滚处理结果
type AuditEmitter interface {
	EmitModeration(ctx context.Context, event ModerationEvent) error
}

type ReportService struct {
	ReportRepo *repositories.ReportRepository
	PostRepo   *repositories.PostRepository
	UserRepo   *repositories.UserRepository
	GuildRepo  *repositories.GuildRepository
	Membership *MembershipService
	Audit      AuditEmitter
	IDGen      *snowflake.Generator
	Log        *logger.Logger
}

func NewReportService(reportRepo *repositories.ReportRepository, postRepo *repositories.PostRepository, userRepo *repositories.UserRepository, guildRepo *repositories.GuildRepository, membership *MembershipService, audit AuditEmitter, idGen *snowflake.Generator, log *logger.Logger) *ReportService {
	return &ReportService{ReportRepo: reportRepo, PostRepo: postRepo, UserRepo: userRepo, GuildRepo: guildRepo, Membership: membership, Audit: audit, IDGen: idGen, Log: log}
}

// Submit 提交举报。不可举报自己的内容，理由码必须在注册表内
func (s *ReportService) Submit(ctx context.Context, reporter *models.User, target ReportTarget, reasonCode int16, clientIP string) (*models.PostReport, error) {
	if _, ok := models.ReasonByNumCode(reasonCode); !ok {
		return nil, ErrUnknownReason
	}
	if target.AuthorID() != nil && reporter != nil && *target.AuthorID() == reporter.ID {
		return nil, ErrSelfReport
	}

	id, err := s.IDGen.NextID()
	if err != nil {
		return nil, err
	}
	report := &models.PostReport{
		ID:           id,
		TargetType:   target.TargetType(),
		TargetID:     target.TargetID(),
		ReasonCode:   reasonCode,
		UpdateStatus: models.ReportUpdatePending,
		CreatedIP:    clientIP,
	}
	if reporter != nil {
		report.AuthorID = &reporter.ID
	}
	if err := s.ReportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// LoadTarget 按举报记录找回目标内容
func (s *ReportService) LoadTarget(ctx context.Context, report *models.PostReport) (ReportTarget, error) {
	switch report.TargetType {
	case models.ReportTargetPost:
		post, err := s.PostRepo.GetPost(ctx, report.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPostNotFound
			}
			return nil, err
		}
		return PostTarget{Post: post}, nil
	case models.ReportTargetComment:
		comment, err := s.PostRepo.GetComment(ctx, report.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		return CommentTarget{Comment: comment}, nil
	default:
		return nil, ErrReportNotFound
	}
}

// Transition 处理一条举报。全局管理员可处理任何举报；社区版主可
// 处理本社区内容的举报，但处分（strike）只有管理员有权执行。
// 已了结（complete/rejected）的举报拒绝再次处理。
// accept 对重大理由码自动升级为 strike
func (s *ReportService) Transition(ctx context.Context, actor *models.User, reportID int64, action string) error {
	if actor == nil {
		return ErrUnauthorized
	}
	report, err := s.ReportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	if !report.IsOpen() {
		return ErrReportClosed
	}
	if err := s.authorize(ctx, actor, report); err != nil {
		return err
	}

	critical := models.IsCriticalReason(report.ReasonCode)
	if action == ReportActionAccept && critical {
		action = ReportActionStrike
	}
	if action == ReportActionStrike && !actor.IsAdministrator {
		// 封禁用户是站级动作，版主无权
		return ErrUnauthorized
	}

	switch action {
	case ReportActionAccept:
		err = s.ReportRepo.ResolveRemoval(ctx, report, actor.ID)
	case ReportActionStrike:
		err = s.strike(ctx, actor, report, critical)
	case ReportActionReject:
		err = s.ReportRepo.SetStatus(ctx, report.ID, models.ReportUpdateRejected)
	case ReportActionWithhold:
		err = s.ReportRepo.SetStatus(ctx, report.ID, models.ReportUpdateOnHold)
	case ReportActionEscalate:
		return ErrNotImplemented
	default:
		return ErrInvalidReportAction
	}
	if err != nil {
		return err
	}

	s.emit(ctx, ModerationEvent{
		ReportID:   report.ID,
		Action:     action,
		TargetType: report.TargetType,
		TargetID:   report.TargetID,
		ReasonCode: report.ReasonCode,
		ActorID:    actor.ID,
		OccurredAt: time.Now(),
	})
	return nil
}

// authorize 管理员放行；否则要求对目标所在社区有版主权限。
// 个人页内容（无社区）只有管理员能处理
func (s *ReportService) authorize(ctx context.Context, actor *models.User, report *models.PostReport) error {
	if actor.IsAdministrator {
		return nil
	}
	guildID, err := s.targetGuildID(ctx, report)
	if err != nil {
		return err
	}
	if guildID == nil {
		return ErrUnauthorized
	}
	guild, err := s.GuildRepo.GetByID(ctx, *guildID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		}
		return err
	}
	ok, err := s.Membership.ModeratesGuild(ctx, actor, guild)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

func (s *ReportService) targetGuildID(ctx context.Context, report *models.PostReport) (*int64, error) {
	target, err := s.LoadTarget(ctx, report)
	if err != nil {
		return nil, err
	}
	switch t := target.(type) {
	case PostTarget:
		return t.Post.GuildID, nil
	case CommentTarget:
		post, err := s.PostRepo.GetPost(ctx, t.Comment.ParentPostID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPostNotFound
			}
			return nil, err
		}
		return post.GuildID, nil
	default:
		return nil, ErrReportNotFound
	}
}

func (s *ReportService) strike(ctx context.Context, actor *models.User, report *models.PostReport, suspend bool) error {
	target, err := s.LoadTarget(ctx, report)
	if err != nil {
		return err
	}
	if target.AuthorID() == nil {
		// 作者已注销，退化为只删内容
		return s.ReportRepo.ResolveRemoval(ctx, report, actor.ID)
	}
	id, err := s.IDGen.NextID()
	if err != nil {
		return err
	}
	strike := &models.UserStrike{
		ID:            id,
		UserID:        *target.AuthorID(),
		TargetType:    report.TargetType,
		TargetID:      report.TargetID,
		TargetContent: target.ContentSnapshot(),
		ReasonCode:    report.ReasonCode,
		IssuedByID:    actor.ID,
	}
	return s.ReportRepo.ResolveStrike(ctx, report, strike, suspend)
}

func (s *ReportService) emit(ctx context.Context, event ModerationEvent) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.EmitModeration(ctx, event); err != nil && s.Log != nil {
		s.Log.WarnContext(ctx, "审计事件投递失败",
			zap.Int64("report_id", event.ReportID),
			zap.String("action", event.Action),
			zap.Error(err))
	}
}

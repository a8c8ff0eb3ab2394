package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
	"github.com/yusurko/freak/internal/repositories"
)

type MembershipService struct {
	GuildRepo *repositories.GuildRepository
	UserRepo  *repositories.UserRepository
	BlockRepo *repositories.BlockRepository
}

func NewMembershipService(guildRepo *repositories.GuildRepository, userRepo *repositories.UserRepository, blockRepo *repositories.BlockRepository) *MembershipService {
	return &MembershipService{GuildRepo: guildRepo, UserRepo: userRepo, BlockRepo: blockRepo}
}

// Moderates 能力检查：社区所有者、全局管理员、或成员行带版主标记。
// 用于门禁设置修改和举报处理
func Moderates(user *models.User, guild *models.Guild, member *models.Member) bool {
	if user == nil {
		return false
	}
	if user.IsAdministrator {
		return true
	}
	if guild.OwnerID != nil && *guild.OwnerID == user.ID {
		return true
	}
	return member != nil && member.IsModerator
}

// AllowsPosting 发帖门禁：无主社区冻结；账号停用不能发；社区内
// 封禁不能发；版主无条件放行；受限社区要审批通过
func AllowsPosting(guild *models.Guild, user *models.User, member *models.Member, now time.Time) bool {
	if guild.IsFrozen() {
		return false
	}
	if user == nil || user.IsDisabled(now) {
		return false
	}
	if member != nil && member.IsBanned(now) {
		return false
	}
	if Moderates(user, guild, member) {
		return true
	}
	if guild.IsRestricted {
		return member != nil && member.IsApproved
	}
	return true
}

// ModeratesGuild 数据库形态的 Moderates：按需取成员行
func (s *MembershipService) ModeratesGuild(ctx context.Context, user *models.User, guild *models.Guild) (bool, error) {
	if user == nil {
		return false, nil
	}
	member, err := s.GuildRepo.GetMember(ctx, guild.ID, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return Moderates(user, guild, member), nil
}

// CheckPosting 数据库形态的 AllowsPosting
func (s *MembershipService) CheckPosting(ctx context.Context, guild *models.Guild, user *models.User) (bool, error) {
	member, err := s.GuildRepo.GetMember(ctx, guild.ID, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return AllowsPosting(guild, user, member, time.Now()), nil
}

// Subscribe 订阅（幂等）
func (s *MembershipService) Subscribe(ctx context.Context, guildID, userID int64) (*models.Member, error) {
	return s.GuildRepo.UpdateMember(ctx, guildID, userID, map[string]any{"is_subscribed": true})
}

// Unsubscribe 退订（幂等）
func (s *MembershipService) Unsubscribe(ctx context.Context, guildID, userID int64) (*models.Member, error) {
	return s.GuildRepo.UpdateMember(ctx, guildID, userID, map[string]any{"is_subscribed": false})
}

// Approve 受限社区的发帖审批
func (s *MembershipService) Approve(ctx context.Context, actor *models.User, guild *models.Guild, userID int64) (*models.Member, error) {
	ok, err := s.ModeratesGuild(ctx, actor, guild)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}
	return s.GuildRepo.UpdateMember(ctx, guild.ID, userID, map[string]any{"is_approved": true})
}

// Exile 社区内封禁；until 为空表示无限期
func (s *MembershipService) Exile(ctx context.Context, actor *models.User, guild *models.Guild, target *models.User, until *time.Time, reason int16) (*models.Member, error) {
	ok, err := s.ModeratesGuild(ctx, actor, guild)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}
	return s.GuildRepo.UpdateMember(ctx, guild.ID, target.ID, map[string]any{
		"banned_at":     time.Now(),
		"banned_by_id":  actor.ID,
		"banned_until":  until,
		"banned_reason": reason,
	})
}

// Unexile 解除社区内封禁
func (s *MembershipService) Unexile(ctx context.Context, actor *models.User, guild *models.Guild, target *models.User) (*models.Member, error) {
	ok, err := s.ModeratesGuild(ctx, actor, guild)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}
	return s.GuildRepo.UpdateMember(ctx, guild.ID, target.ID, map[string]any{
		"banned_at":    nil,
		"banned_by_id": nil,
		"banned_until": nil,
	})
}

// PromoteModerator 提升版主：停用账号不行、被其屏蔽不行、被社区
// 封禁不行；已是版主返回现状不报错
func (s *MembershipService) PromoteModerator(ctx context.Context, actor *models.User, guild *models.Guild, target *models.User) (*models.Member, error) {
	ok, err := s.ModeratesGuild(ctx, actor, guild)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	now := time.Now()
	if target.IsDisabled(now) {
		return nil, ErrUnauthorized
	}
	blocked, err := s.BlockRepo.HasBlocked(ctx, target.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if blocked {
		// 对操作者不可见的用户按不存在处理
		return nil, ErrUserNotFound
	}

	member, err := s.GuildRepo.UpdateMember(ctx, guild.ID, target.ID, nil)
	if err != nil {
		return nil, err
	}
	if member.IsBanned(now) {
		return nil, ErrUnauthorized
	}
	if member.IsModerator {
		return member, nil
	}
	return s.GuildRepo.UpdateMember(ctx, guild.ID, target.ID, map[string]any{"is_moderator": true})
}

// TransferOwnership 所有权转移仅限全局管理员，不支持自助转移
func (s *MembershipService) TransferOwnership(ctx context.Context, actor *models.User, guild *models.Guild, newOwnerID int64) error {
	if actor == nil || !actor.IsAdministrator {
		return ErrUnauthorized
	}
	guild.OwnerID = &newOwnerID
	return s.GuildRepo.Save(ctx, guild)
}

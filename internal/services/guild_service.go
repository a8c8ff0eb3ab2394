package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
	"github.com/yusurko/freak/internal/repositories"
	"github.com/yusurko/freak/internal/utils"
	"github.com/yusurko/freak/utils/snowflake"
)

type GuildService struct {
	GuildRepo  *repositories.GuildRepository
	Membership *MembershipService
	IDGen      *snowflake.Generator
}

func NewGuildService(guildRepo *repositories.GuildRepository, membership *MembershipService, idGen *snowflake.Generator) *GuildService {
	return &GuildService{GuildRepo: guildRepo, Membership: membership, IDGen: idGen}
}

// Create 创建社区。声望门槛挡批量注册的小号，管理员豁免。
// 创建者自动成为所有者并写入订阅+审批+版主的成员行
func (s *GuildService) Create(ctx context.Context, owner *models.User, name, displayName, description string) (*models.Guild, error) {
	if owner == nil {
		return nil, ErrUnauthorized
	}
	if !owner.CanCreateGuild() {
		return nil, ErrKarmaTooLow
	}
	if !utils.UsernameIsLegal(name) {
		return nil, ErrInvalidUsername
	}
	if _, err := s.GuildRepo.GetByName(ctx, name); err == nil {
		return nil, ErrGuildNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, err := s.IDGen.NextID()
	if err != nil {
		return nil, err
	}
	guild := &models.Guild{
		ID:          id,
		Name:        name,
		DisplayName: displayName,
		Description: description,
		OwnerID:     &owner.ID,
		IsPublic:    true,
	}
	if err := s.GuildRepo.Create(ctx, guild); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrGuildNameTaken
		}
		return nil, err
	}
	return guild, nil
}

// GetByName 按短名取社区
func (s *GuildService) GetByName(ctx context.Context, name string) (*models.Guild, error) {
	guild, err := s.GuildRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuildNotFound
		}
		return nil, err
	}
	return guild, nil
}

// GuildSettings 可由版主修改的设置
type GuildSettings struct {
	DisplayName  *string
	Description  *string
	IsRestricted *bool
	IsPublic     *bool
	Language     *string
}

// UpdateSettings 修改社区设置，版主权限门禁
func (s *GuildService) UpdateSettings(ctx context.Context, actor *models.User, guild *models.Guild, settings GuildSettings) error {
	ok, err := s.Membership.ModeratesGuild(ctx, actor, guild)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}

	if settings.DisplayName != nil {
		guild.DisplayName = *settings.DisplayName
	}
	if settings.Description != nil {
		guild.Description = *settings.Description
	}
	if settings.IsRestricted != nil {
		guild.IsRestricted = *settings.IsRestricted
	}
	if settings.IsPublic != nil {
		guild.IsPublic = *settings.IsPublic
	}
	if settings.Language != nil {
		guild.Language = *settings.Language
	}
	return s.GuildRepo.Save(ctx, guild)
}

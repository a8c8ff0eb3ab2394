package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
)

type GuildRepository struct {
	db *gorm.DB
}

func NewGuildRepository(db *gorm.DB) *GuildRepository {
	return &GuildRepository{db: db}
}

// Create 创建社区并把所有者写入 Member 表（版主 + 已订阅），同一事务
func (r *GuildRepository) Create(ctx context.Context, guild *models.Guild) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(guild).Error; err != nil {
			return err
		}
		if guild.OwnerID == nil {
			return nil
		}
		member := models.Member{
			GuildID:      guild.ID,
			UserID:       *guild.OwnerID,
			IsSubscribed: true,
			IsApproved:   true,
			IsModerator:  true,
		}
		return tx.Create(&member).Error
	})
}

func (r *GuildRepository) GetByID(ctx context.Context, id int64) (*models.Guild, error) {
	var guild models.Guild
	err := r.db.WithContext(ctx).First(&guild, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &guild, nil
}

func (r *GuildRepository) GetByName(ctx context.Context, name string) (*models.Guild, error) {
	var guild models.Guild
	err := r.db.WithContext(ctx).First(&guild, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &guild, nil
}

func (r *GuildRepository) Save(ctx context.Context, guild *models.Guild) error {
	return r.db.WithContext(ctx).Save(guild).Error
}

// GetMember 查成员行；不存在返回 gorm.ErrRecordNotFound
func (r *GuildRepository) GetMember(ctx context.Context, guildID, userID int64) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		First(&member, "guild_id = ? AND user_id = ?", guildID, userID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMember 取出或创建成员行并应用字段更新（upsert 语义）。
// 并发 subscribe 插入撞到唯一约束时回退为读取再更新，重试一次。
// fields 为空时返回现有行不做写入
func (r *GuildRepository) UpdateMember(ctx context.Context, guildID, userID int64, fields map[string]any) (*models.Member, error) {
	for attempt := 0; ; attempt++ {
		member, err := r.GetMember(ctx, guildID, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			member = &models.Member{GuildID: guildID, UserID: userID}
			if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) && attempt == 0 {
					continue // 另一个请求刚插入了同一行
				}
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}

		if len(fields) == 0 {
			return member, nil
		}

		err = r.db.WithContext(ctx).Model(member).
			Where("guild_id = ? AND user_id = ?", guildID, userID).
			Updates(fields).Error
		if err != nil {
			return nil, err
		}
		return r.GetMember(ctx, guildID, userID)
	}
}

package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
)

type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

// Block 插入屏蔽边；已存在时返回 already=true，不报错
func (r *BlockRepository) Block(ctx context.Context, actorID, targetID int64) (already bool, err error) {
	edge := models.UserBlock{ActorID: actorID, TargetID: targetID}
	err = r.db.WithContext(ctx).Create(&edge).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true, nil
	}
	return false, err
}

// Unblock 删除屏蔽边；不存在时返回 existed=false
func (r *BlockRepository) Unblock(ctx context.Context, actorID, targetID int64) (existed bool, err error) {
	res := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_id = ?", actorID, targetID).
		Delete(&models.UserBlock{})
	return res.RowsAffected > 0, res.Error
}

// HasBlocked actor 是否屏蔽了 target
func (r *BlockRepository) HasBlocked(ctx context.Context, actorID, targetID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserBlock{}).
		Where("actor_id = ? AND target_id = ?", actorID, targetID).
		Count(&count).Error
	return count > 0, err
}

// IsBlockedBy actor 是否被 target 屏蔽（反向查询）
func (r *BlockRepository) IsBlockedBy(ctx context.Context, actorID, targetID int64) (bool, error) {
	return r.HasBlocked(ctx, targetID, actorID)
}

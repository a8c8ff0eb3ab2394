package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Reward karma 加减。必须是服务端单语句自增，并发下先读后写会丢更新
func (r *UserRepository) Reward(ctx context.Context, userID int64, points int64) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("karma", gorm.Expr("karma + ?", points)).Error
}

// RecomputeKarma 从源数据整体重算 karma 并落库，重复执行结果一致。
// karma = 发帖数 + 收到的赞 − 收到的踩，全部在一条 UPDATE 内完成
func (r *UserRepository) RecomputeKarma(ctx context.Context, userID int64) (int64, error) {
	err := r.db.WithContext(ctx).Exec(`
		UPDATE freak_user SET karma =
			(SELECT count(*) FROM freak_post WHERE author_id = freak_user.id)
			+ (SELECT count(*) FROM freak_post_upvote v
				JOIN freak_post p ON p.id = v.post_id
				WHERE p.author_id = freak_user.id AND v.is_downvote = false)
			- (SELECT count(*) FROM freak_post_upvote v
				JOIN freak_post p ON p.id = v.post_id
				WHERE p.author_id = freak_user.id AND v.is_downvote = true)
		WHERE id = ?`, userID).Error
	if err != nil {
		return 0, err
	}

	var karma int64
	err = r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Pluck("karma", &karma).Error
	return karma, err
}

// Suspend 站级封禁；until 为空表示无限期
func (r *UserRepository) Suspend(ctx context.Context, userID int64, byID int64, reason int16, until *time.Time) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"banned_at":     now,
			"banned_by_id":  byID,
			"banned_reason": reason,
			"banned_until":  until,
		}).Error
}

// ActiveCount 近 30 天发过帖的用户数，展示用
func (r *UserRepository) ActiveCount(ctx context.Context) (int64, error) {
	var count int64
	threshold := time.Now().AddDate(0, 0, -30)
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN freak_post ON freak_post.author_id = freak_user.id").
		Where("freak_post.created_at >= ?", threshold).
		Distinct("freak_user.id").
		Count(&count).Error
	return count, err
}

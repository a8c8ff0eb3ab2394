package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yusurko/freak/internal/models"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// CurrentVote 当前投票状态：+1 赞、-1 踩、0 未投
func (r *VoteRepository) CurrentVote(ctx context.Context, postID, voterID int64) (int, error) {
	var vote models.PostUpvote
	err := r.db.WithContext(ctx).
		First(&vote, "post_id = ? AND voter_id = ?", postID, voterID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if vote.IsDownvote {
		return -1, nil
	}
	return 1, nil
}

// Apply 在单个事务内完成读取-删除-插入。行锁串行化同一 (post, voter)
// 的并发提交，复合主键兜底。并发首投双双越过空读时，落败方重试一次：
// 第二次事务能读到胜者的行，decide 据此解出合法转移（通常是空操作）。
// decide 是纯转移函数，返回是否写入及方向
func (r *VoteRepository) Apply(ctx context.Context, postID, voterID int64, decide func(current int) (write bool, isDownvote bool, del bool, err error)) error {
	for attempt := 0; ; attempt++ {
		err := r.apply(ctx, postID, voterID, decide)
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt == 0 {
			continue
		}
		return err
	}
}

func (r *VoteRepository) apply(ctx context.Context, postID, voterID int64, decide func(current int) (write bool, isDownvote bool, del bool, err error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vote models.PostUpvote
		current := 0
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&vote, "post_id = ? AND voter_id = ?", postID, voterID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			current = 0
		case err != nil:
			return err
		case vote.IsDownvote:
			current = -1
		default:
			current = 1
		}

		write, isDownvote, del, err := decide(current)
		if err != nil {
			return err
		}

		if del || write {
			err := tx.Where("post_id = ? AND voter_id = ?", postID, voterID).
				Delete(&models.PostUpvote{}).Error
			if err != nil {
				return err
			}
		}
		if write {
			return tx.Create(&models.PostUpvote{
				PostID:     postID,
				VoterID:    voterID,
				IsDownvote: isDownvote,
			}).Error
		}
		return nil
	})
}

// Upvotes 赞数减踩数，按需统计不做缓存
func (r *VoteRepository) Upvotes(ctx context.Context, postID int64) (int64, error) {
	var ups, downs int64
	err := r.db.WithContext(ctx).Model(&models.PostUpvote{}).
		Where("post_id = ? AND is_downvote = false", postID).
		Count(&ups).Error
	if err != nil {
		return 0, err
	}
	err = r.db.WithContext(ctx).Model(&models.PostUpvote{}).
		Where("post_id = ? AND is_downvote = true", postID).
		Count(&downs).Error
	return ups - downs, err
}

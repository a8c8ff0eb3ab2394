package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/repositories"
)

// VoteTransition 票态转移的纯函数形式。current/intent 取值 -1/0/+1，
// 返回落库动作：写入哪种票、是否删行
type VoteTransition struct {
	Write      bool
	IsDownvote bool
	Delete     bool
}

// ResolveVote 从当前票态与意图算出转移动作。同值重复投为空操作。
func ResolveVote(current, intent int) (VoteTransition, error) {
	if intent < -1 || intent > 1 {
		return VoteTransition{}, ErrInvalidVoteTransition
	}
	if current == intent {
		return VoteTransition{}, nil
	}
	switch intent {
	case 0:
		return VoteTransition{Delete: true}, nil
	case 1:
		return VoteTransition{Write: true, IsDownvote: false, Delete: current != 0}, nil
	default:
		return VoteTransition{Write: true, IsDownvote: true, Delete: current != 0}, nil
	}
}

type VoteService struct {
	VoteRepo *repositories.VoteRepository
	UserRepo *repositories.UserRepository
	PostRepo *repositories.PostRepository
}

func NewVoteService(voteRepo *repositories.VoteRepository, userRepo *repositories.UserRepository, postRepo *repositories.PostRepository) *VoteService {
	return &VoteService{VoteRepo: voteRepo, UserRepo: userRepo, PostRepo: postRepo}
}

// Cast 对帖子投票。intent: +1 赞、-1 踩、0 撤销。锁定的帖子拒绝投票。
// 作者声望走增量通道，与全量重算收敛到同一结果
func (s *VoteService) Cast(ctx context.Context, postID, voterID int64, intent int) error {
	post, err := s.PostRepo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.IsLocked {
		return ErrPostLocked
	}

	var delta int
	err = s.VoteRepo.Apply(ctx, postID, voterID, func(current int) (bool, bool, bool, error) {
		tr, terr := ResolveVote(current, intent)
		if terr != nil {
			return false, false, false, terr
		}
		delta = intent - current
		return tr.Write, tr.IsDownvote, tr.Delete, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 仓储层已重试一次，仍撞复合主键才报并发冲突
			return ErrConcurrencyConflict
		}
		return err
	}

	if delta != 0 && post.AuthorID != nil {
		return s.UserRepo.Reward(ctx, *post.AuthorID, int64(delta))
	}
	return nil
}

// Current 当前用户对帖子的票态
func (s *VoteService) Current(ctx context.Context, postID, voterID int64) (int, error) {
	return s.VoteRepo.CurrentVote(ctx, postID, voterID)
}

// Score 帖子净得分（赞减踩）。按需统计不走缓存：投票后立刻读到
// 新分数比省一次 count 更重要，站点级计数才走 TTL 缓存
func (s *VoteService) Score(ctx context.Context, postID int64) (int64, error) {
	return s.VoteRepo.Upvotes(ctx, postID)
}

// RecomputeKarma 从投票表全量重算用户声望，幂等，用于对账
func (s *VoteService) RecomputeKarma(ctx context.Context, userID int64) (int64, error) {
	return s.UserRepo.RecomputeKarma(ctx, userID)
}

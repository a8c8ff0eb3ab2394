package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/repositories"
)

type BlockService struct {
	BlockRepo *repositories.BlockRepository
	UserRepo  *repositories.UserRepository
}

func NewBlockService(blockRepo *repositories.BlockRepository, userRepo *repositories.UserRepository) *BlockService {
	return &BlockService{BlockRepo: blockRepo, UserRepo: userRepo}
}

// Block 屏蔽用户。重复屏蔽幂等；屏蔽自己允许（只是无效果）
func (s *BlockService) Block(ctx context.Context, actorID, targetID int64) error {
	if _, err := s.UserRepo.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	_, err := s.BlockRepo.Block(ctx, actorID, targetID)
	return err
}

// Unblock 解除屏蔽，不存在也静默成功
func (s *BlockService) Unblock(ctx context.Context, actorID, targetID int64) error {
	_, err := s.BlockRepo.Unblock(ctx, actorID, targetID)
	return err
}

// Relation 取两个用户间的双向屏蔽关系，供可见性判定
func (s *BlockService) Relation(ctx context.Context, viewerID, authorID int64) (BlockRelation, error) {
	var rel BlockRelation
	if viewerID == 0 || viewerID == authorID {
		return rel, nil
	}
	authorBlocked, err := s.BlockRepo.HasBlocked(ctx, authorID, viewerID)
	if err != nil {
		return rel, err
	}
	viewerBlocked, err := s.BlockRepo.HasBlocked(ctx, viewerID, authorID)
	if err != nil {
		return rel, err
	}
	rel.AuthorBlockedViewer = authorBlocked
	rel.ViewerBlockedAuthor = viewerBlocked
	return rel, nil
}

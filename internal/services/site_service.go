package services

import (
	"context"

	"github.com/yusurko/freak/internal/repositories"
)

// SiteCounterCache 站点计数的 TTL 读缓存，可为 nil（直查数据库）
type SiteCounterCache interface {
	Counter(ctx context.Context, name string) (int64, bool, error)
	SetCounter(ctx context.Context, name string, value int64) error
}

// SiteStats 首页展示用的全站计数
type SiteStats struct {
	PostCount   int64
	ActiveUsers int64
}

type SiteService struct {
	UserRepo *repositories.UserRepository
	PostRepo *repositories.PostRepository
	Counters SiteCounterCache
}

func NewSiteService(userRepo *repositories.UserRepository, postRepo *repositories.PostRepository, counters SiteCounterCache) *SiteService {
	return &SiteService{UserRepo: userRepo, PostRepo: postRepo, Counters: counters}
}

// Stats 全站计数，优先走 TTL 缓存。展示性数字，过期窗口内的
// 偏差可以接受
func (s *SiteService) Stats(ctx context.Context) (SiteStats, error) {
	posts, err := s.cached(ctx, "post_count", s.PostRepo.PostCount)
	if err != nil {
		return SiteStats{}, err
	}
	active, err := s.cached(ctx, "active_users", s.UserRepo.ActiveCount)
	if err != nil {
		return SiteStats{}, err
	}
	return SiteStats{PostCount: posts, ActiveUsers: active}, nil
}

func (s *SiteService) cached(ctx context.Context, name string, load func(context.Context) (int64, error)) (int64, error) {
	if s.Counters != nil {
		if n, ok, err := s.Counters.Counter(ctx, name); err == nil && ok {
			return n, nil
		}
	}
	n, err := load(ctx)
	if err != nil {
		return 0, err
	}
	if s.Counters != nil {
		// 回填失败不冒错，下次读再回源
		_ = s.Counters.SetCounter(ctx, name, n)
	}
	return n, nil
}

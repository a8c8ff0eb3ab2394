package services

import (
	"context"

	"github.com/yusurko/freak/internal/models"
	"github.com/yusurko/freak/internal/repositories"
)

// Viewer 当前请求的认证身份。显式两态：未解析时只持有 token 声明，
// Resolve 之后才能访问 User 行；解析前访问一律报错，不允许静默穿透
type Viewer struct {
	id       int64
	username string
	isAdmin  bool

	user     *models.User
	resolved bool
}

// AnonymousViewer 匿名身份；ID 为 0，解析是空操作
func AnonymousViewer() *Viewer {
	return &Viewer{resolved: true}
}

// NewViewer 从认证中间件的声明构造未解析的 viewer
func NewViewer(id int64, username string, isAdmin bool) *Viewer {
	return &Viewer{id: id, username: username, isAdmin: isAdmin}
}

// ID 匿名为 0；声明里就有，解析前也可用
func (v *Viewer) ID() int64 {
	return v.id
}

func (v *Viewer) IsAnonymous() bool {
	return v.id == 0
}

// Resolve 加载数据库里的用户行。幂等
func (v *Viewer) Resolve(ctx context.Context, users *repositories.UserRepository) error {
	if v.resolved {
		return nil
	}
	user, err := users.GetByID(ctx, v.id)
	if err != nil {
		return err
	}
	v.user = user
	v.resolved = true
	return nil
}

// User 解析后的用户行；未解析时报错而不是返回 nil
func (v *Viewer) User() (*models.User, error) {
	if !v.resolved {
		return nil, ErrViewerUnresolved
	}
	return v.user, nil
}

// IsAdministrator 优先用数据库行，退回 token 声明需要先解析
func (v *Viewer) IsAdministrator() (bool, error) {
	if !v.resolved {
		return false, ErrViewerUnresolved
	}
	if v.user == nil {
		return false, nil
	}
	return v.user.IsAdministrator, nil
}

package services

import (
	"time"

	"github.com/yusurko/freak/internal/models"
)

// 可见性判定语境。feed 里双向屏蔽都隐藏；直达链接只有
// 作者屏蔽 viewer 才隐藏（viewer 主动点开自己屏蔽的人不拦）
type VisibilityContext int

const (
	FeedContext VisibilityContext = iota
	DirectContext
)

// BlockRelation 作者与 viewer 之间的屏蔽关系快照
type BlockRelation struct {
	AuthorBlockedViewer bool
	ViewerBlockedAuthor bool
}

// IsPostVisible 纯谓词：帖子对 viewer 是否可见。
// viewerID 为 0 表示匿名。author 为帖子作者行（可为 nil，如系统帖）
func IsPostVisible(p *models.Post, author *models.User, viewerID int64, rel BlockRelation, vctx VisibilityContext, now time.Time) bool {
	isAuthor := viewerID != 0 && p.AuthorID != nil && *p.AuthorID == viewerID

	// 作者永远能看到自己的内容：软删、隐私级别、封禁都不挡
	if p.IsRemoved() && !isAuthor {
		return false
	}
	if author != nil && author.IsSuspended(now) && !isAuthor {
		return false
	}
	if !isAuthor {
		if rel.AuthorBlockedViewer {
			return false
		}
		if vctx == FeedContext && rel.ViewerBlockedAuthor {
			return false
		}
	}

	if p.Privacy == models.PrivacyPublic {
		return true
	}
	return isAuthor
}

// IsCommentVisible 评论没有自己的隐私级别，继承父帖约束；
// 软删状态独立判定
func IsCommentVisible(c *models.Comment, parent *models.Post, parentAuthor *models.User, commentAuthor *models.User, viewerID int64, rel BlockRelation, parentRel BlockRelation, vctx VisibilityContext, now time.Time) bool {
	if !IsPostVisible(parent, parentAuthor, viewerID, parentRel, vctx, now) {
		return false
	}

	isAuthor := viewerID != 0 && c.AuthorID != nil && *c.AuthorID == viewerID
	if c.IsRemoved() && !isAuthor {
		return false
	}
	if commentAuthor != nil && commentAuthor.IsSuspended(now) && !isAuthor {
		return false
	}
	if !isAuthor && rel.AuthorBlockedViewer {
		return false
	}
	return true
}

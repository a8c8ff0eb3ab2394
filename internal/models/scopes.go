package models

import (
	"time"

	"gorm.io/gorm"
)

// 可组合的查询谓词。feed 查询必须在 SQL 层过滤，
// 否则分页会数出不可见的行

// PostNotRemoved 未被软删除的帖子
func PostNotRemoved(db *gorm.DB) *gorm.DB {
	return db.Where("freak_post.removed_at IS NULL")
}

// CommentNotRemoved 未被软删除的评论
func CommentNotRemoved(db *gorm.DB) *gorm.DB {
	return db.Where("freak_comment.removed_at IS NULL")
}

// AuthorNotSuspended 作者未被站级封禁（需要已 join freak_user）
func AuthorNotSuspended(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"freak_user.banned_at IS NULL OR (freak_user.banned_until IS NOT NULL AND freak_user.banned_until <= ?)",
			now,
		)
	}
}

// PostVisibleBy 公开帖，或 viewer 即作者（unlisted 也可见）
func PostVisibleBy(viewerID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("freak_post.privacy = 0 OR freak_post.author_id = ?", viewerID)
	}
}

// NoBlockEither feed 语境下双向屏蔽都隐藏：作者屏蔽了 viewer，
// 或 viewer 屏蔽了作者，都不进入 feed
func NoBlockEither(viewerID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewerID == 0 {
			return db
		}
		return db.
			Where(`NOT EXISTS (SELECT 1 FROM freak_userblock b
				WHERE b.actor_id = freak_post.author_id AND b.target_id = ?)`, viewerID).
			Where(`NOT EXISTS (SELECT 1 FROM freak_userblock b
				WHERE b.actor_id = ? AND b.target_id = freak_post.author_id)`, viewerID)
	}
}

// CommentAuthorNotSuspended 评论流隐藏被站级封禁作者的评论，
// 与逐条判定口径一致
func CommentAuthorNotSuspended(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(`NOT EXISTS (SELECT 1 FROM freak_user u
			WHERE u.id = freak_comment.author_id AND u.banned_at IS NOT NULL
			AND (u.banned_until IS NULL OR u.banned_until > ?))`, now)
	}
}

// CommentNoAuthorBlock 评论流只检查作者是否屏蔽了 viewer
func CommentNoAuthorBlock(viewerID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewerID == 0 {
			return db
		}
		return db.Where(`NOT EXISTS (SELECT 1 FROM freak_userblock b
			WHERE b.actor_id = freak_comment.author_id AND b.target_id = ?)`, viewerID)
	}
}

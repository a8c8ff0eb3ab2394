package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yusurko/freak/internal/models"
)

func ptrInt64(v int64) *int64 { return &v }

func TestIsPostVisible(t *testing.T) {
	now := time.Now()
	author := &models.User{ID: 1, Username: "alice"}
	post := &models.Post{ID: 100, AuthorID: ptrInt64(1), Privacy: models.PrivacyPublic}

	tests := []struct {
		name     string
		post     *models.Post
		author   *models.User
		viewerID int64
		rel      BlockRelation
		vctx     VisibilityContext
		want     bool
	}{
		{"公开帖对匿名可见", post, author, 0, BlockRelation{}, FeedContext, true},
		{"公开帖对陌生人可见", post, author, 2, BlockRelation{}, FeedContext, true},
		{"作者看自己的帖子", post, author, 1, BlockRelation{}, FeedContext, true},
		{
			"作者屏蔽 viewer 时 feed 不可见",
			post, author, 2,
			BlockRelation{AuthorBlockedViewer: true}, FeedContext, false,
		},
		{
			"作者屏蔽 viewer 时直达也不可见",
			post, author, 2,
			BlockRelation{AuthorBlockedViewer: true}, DirectContext, false,
		},
		{
			"viewer 屏蔽作者时 feed 不可见",
			post, author, 2,
			BlockRelation{ViewerBlockedAuthor: true}, FeedContext, false,
		},
		{
			"viewer 屏蔽作者时直达仍可见",
			post, author, 2,
			BlockRelation{ViewerBlockedAuthor: true}, DirectContext, true,
		},
		{
			"unlisted 帖对他人不可见",
			&models.Post{ID: 101, AuthorID: ptrInt64(1), Privacy: models.PrivacyUnlisted},
			author, 2, BlockRelation{}, DirectContext, false,
		},
		{
			"unlisted 帖对作者可见",
			&models.Post{ID: 101, AuthorID: ptrInt64(1), Privacy: models.PrivacyUnlisted},
			author, 1, BlockRelation{}, DirectContext, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsPostVisible(tt.post, tt.author, tt.viewerID, tt.rel, tt.vctx, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsPostVisible_Removed(t *testing.T) {
	now := time.Now()
	author := &models.User{ID: 1, Username: "alice"}
	removed := &models.Post{
		ID:        100,
		AuthorID:  ptrInt64(1),
		Privacy:   models.PrivacyPublic,
		RemovedAt: &now,
	}

	assert.False(t, IsPostVisible(removed, author, 2, BlockRelation{}, FeedContext, now),
		"软删帖对他人不可见")
	assert.True(t, IsPostVisible(removed, author, 1, BlockRelation{}, FeedContext, now),
		"软删帖对作者仍可见")
}

func TestIsPostVisible_SuspendedAuthor(t *testing.T) {
	now := time.Now()
	bannedAt := now.Add(-time.Hour)
	suspended := &models.User{ID: 1, Username: "alice", BannedAt: &bannedAt}
	post := &models.Post{ID: 100, AuthorID: ptrInt64(1), Privacy: models.PrivacyPublic}

	assert.False(t, IsPostVisible(post, suspended, 2, BlockRelation{}, FeedContext, now),
		"封禁作者的帖子对他人不可见")
	assert.True(t, IsPostVisible(post, suspended, 1, BlockRelation{}, FeedContext, now),
		"封禁作者仍能看到自己的帖子")
}

func TestIsPostVisible_BanExpiry(t *testing.T) {
	now := time.Now()
	bannedAt := now.Add(-48 * time.Hour)
	until := now.Add(-time.Hour) // 已过期
	author := &models.User{ID: 1, BannedAt: &bannedAt, BannedUntil: &until}
	post := &models.Post{ID: 100, AuthorID: ptrInt64(1), Privacy: models.PrivacyPublic}

	// 封禁到期即自动恢复，无需写操作
	assert.True(t, IsPostVisible(post, author, 2, BlockRelation{}, FeedContext, now))

	future := now.Add(time.Hour)
	author.BannedUntil = &future
	assert.False(t, IsPostVisible(post, author, 2, BlockRelation{}, FeedContext, now))
}

func TestIsCommentVisible(t *testing.T) {
	now := time.Now()
	postAuthor := &models.User{ID: 1}
	commentAuthor := &models.User{ID: 2}
	parent := &models.Post{ID: 100, AuthorID: ptrInt64(1), Privacy: models.PrivacyPublic}
	comment := &models.Comment{ID: 200, AuthorID: ptrInt64(2), ParentPostID: 100}

	t.Run("父帖可见则评论可见", func(t *testing.T) {
		assert.True(t, IsCommentVisible(comment, parent, postAuthor, commentAuthor, 3,
			BlockRelation{}, BlockRelation{}, FeedContext, now))
	})

	t.Run("父帖不可见则评论不可见", func(t *testing.T) {
		removedParent := &models.Post{ID: 100, AuthorID: ptrInt64(1), RemovedAt: &now}
		assert.False(t, IsCommentVisible(comment, removedParent, postAuthor, commentAuthor, 3,
			BlockRelation{}, BlockRelation{}, FeedContext, now))
	})

	t.Run("评论软删独立于父帖", func(t *testing.T) {
		removed := &models.Comment{ID: 201, AuthorID: ptrInt64(2), ParentPostID: 100, RemovedAt: &now}
		assert.False(t, IsCommentVisible(removed, parent, postAuthor, commentAuthor, 3,
			BlockRelation{}, BlockRelation{}, FeedContext, now))
		assert.True(t, IsCommentVisible(removed, parent, postAuthor, commentAuthor, 2,
			BlockRelation{}, BlockRelation{}, FeedContext, now),
			"评论作者看得到自己被删的评论")
	})

	t.Run("评论作者屏蔽 viewer", func(t *testing.T) {
		assert.False(t, IsCommentVisible(comment, parent, postAuthor, commentAuthor, 3,
			BlockRelation{AuthorBlockedViewer: true}, BlockRelation{}, FeedContext, now))
	})
}

package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetPost 带作者预加载取单帖；可见性判定需要作者的封禁状态
func (r *PostRepository) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *PostRepository) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// PublicFeed 全站公开时间线，按创建时间倒序分页
func (r *PostRepository) PublicFeed(ctx context.Context, viewerID int64, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Joins("JOIN freak_user ON freak_user.id = freak_post.author_id").
		Scopes(
			models.PostNotRemoved,
			models.AuthorNotSuspended(time.Now()),
			models.NoBlockEither(viewerID),
		).
		Where("freak_post.privacy = 0").
		Order("freak_post.created_at DESC").
		Limit(limit).Offset(offset).
		Preload("Author").
		Find(&posts).Error
	return posts, err
}

// GuildFeed 社区时间线
func (r *PostRepository) GuildFeed(ctx context.Context, guildID, viewerID int64, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Joins("JOIN freak_user ON freak_user.id = freak_post.author_id").
		Scopes(
			models.PostNotRemoved,
			models.AuthorNotSuspended(time.Now()),
			models.NoBlockEither(viewerID),
		).
		Where("freak_post.guild_id = ?", guildID).
		Where("freak_post.privacy = 0").
		Order("freak_post.created_at DESC").
		Limit(limit).Offset(offset).
		Preload("Author").
		Find(&posts).Error
	return posts, err
}

// UserFeed 用户个人页；作者本人还能看到自己的 unlisted 帖
func (r *PostRepository) UserFeed(ctx context.Context, authorID, viewerID int64, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Joins("JOIN freak_user ON freak_user.id = freak_post.author_id").
		Scopes(
			models.PostNotRemoved,
			models.AuthorNotSuspended(time.Now()),
			models.NoBlockEither(viewerID),
			models.PostVisibleBy(viewerID),
		).
		Where("freak_post.author_id = ?", authorID).
		Order("freak_post.created_at DESC").
		Limit(limit).Offset(offset).
		Preload("Author").
		Find(&posts).Error
	return posts, err
}

// TopLevelComments 帖子的顶层评论，最新优先
func (r *PostRepository) TopLevelComments(ctx context.Context, postID, viewerID int64, limit, offset int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Scopes(
			models.CommentNotRemoved,
			models.CommentAuthorNotSuspended(time.Now()),
			models.CommentNoAuthorBlock(viewerID),
		).
		Where("freak_comment.parent_post_id = ? AND freak_comment.parent_comment_id IS NULL", postID).
		Order("freak_comment.created_at DESC").
		Limit(limit).Offset(offset).
		Preload("Author").
		Find(&comments).Error
	return comments, err
}

// ChildComments 按父评论批量取子树的一层，避免逐节点懒加载
func (r *PostRepository) ChildComments(ctx context.Context, parentIDs []int64, viewerID int64) ([]models.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Scopes(
			models.CommentNotRemoved,
			models.CommentAuthorNotSuspended(time.Now()),
			models.CommentNoAuthorBlock(viewerID),
		).
		Where("freak_comment.parent_comment_id IN ?", parentIDs).
		Order("freak_comment.created_at DESC").
		Preload("Author").
		Find(&comments).Error
	return comments, err
}

// PostCount 全站帖子数，展示用
func (r *PostRepository) PostCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}

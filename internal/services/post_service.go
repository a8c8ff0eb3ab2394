package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yusurko/freak/internal/models"
	"github.com/yusurko/freak/internal/repositories"
	"github.com/yusurko/freak/utils/snowflake"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 标题转 URL 片段，只保留小写字母数字和连字符
func Slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if len(s) > 64 {
		s = s[:64]
	}
	return s
}

type PostService struct {
	PostRepo   *repositories.PostRepository
	GuildRepo  *repositories.GuildRepository
	UserRepo   *repositories.UserRepository
	BlockSvc   *BlockService
	Membership *MembershipService
	IDGen      *snowflake.Generator
}

func NewPostService(postRepo *repositories.PostRepository, guildRepo *repositories.GuildRepository, userRepo *repositories.UserRepository, blockSvc *BlockService, membership *MembershipService, idGen *snowflake.Generator) *PostService {
	return &PostService{PostRepo: postRepo, GuildRepo: guildRepo, UserRepo: userRepo, BlockSvc: blockSvc, Membership: membership, IDGen: idGen}
}

// PostInput 创建帖子的参数
type PostInput struct {
	Title       string
	TextContent string
	SourceURL   string
	GuildID     *int64
	Privacy     int16
	ClientIP    string
}

// CreatePost 发帖。社区帖走发帖门禁；个人页帖（guild_id 为空）只要账号可用
func (s *PostService) CreatePost(ctx context.Context, author *models.User, input PostInput) (*models.Post, error) {
	if author == nil || author.IsDisabled(time.Now()) {
		return nil, ErrUnauthorized
	}
	if input.GuildID != nil {
		guild, err := s.GuildRepo.GetByID(ctx, *input.GuildID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGuildNotFound
			}
			return nil, err
		}
		allowed, err := s.Membership.CheckPosting(ctx, guild, author)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrPostingNotAllowed
		}
	}

	id, err := s.IDGen.NextID()
	if err != nil {
		return nil, err
	}
	post := &models.Post{
		ID:          id,
		Slug:        Slugify(input.Title),
		Title:       input.Title,
		AuthorID:    &author.ID,
		GuildID:     input.GuildID,
		Privacy:     input.Privacy,
		SourceURL:   input.SourceURL,
		TextContent: input.TextContent,
		CreatedIP:   input.ClientIP,
	}
	if err := s.PostRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	// 发帖计入 karma，与全量重算同一公式
	if err := s.UserRepo.Reward(ctx, author.ID, 1); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPostForViewer 直达链接取帖子。对观看者不可见按不存在处理
func (s *PostService) GetPostForViewer(ctx context.Context, postID int64, viewer *Viewer) (*models.Post, error) {
	post, err := s.PostRepo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	rel := BlockRelation{}
	if post.AuthorID != nil && !viewer.IsAnonymous() {
		rel, err = s.BlockSvc.Relation(ctx, viewer.ID(), *post.AuthorID)
		if err != nil {
			return nil, err
		}
	}
	if !IsPostVisible(post, post.Author, viewer.ID(), rel, DirectContext, time.Now()) {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// CreateComment 评论。锁定的帖子拒绝评论；帖子对作者不可见也拒绝
func (s *PostService) CreateComment(ctx context.Context, author *models.User, postID int64, parentCommentID *int64, text, clientIP string) (*models.Comment, error) {
	if author == nil || author.IsDisabled(time.Now()) {
		return nil, ErrUnauthorized
	}
	viewer := NewViewer(author.ID, author.Username, author.IsAdministrator)
	post, err := s.GetPostForViewer(ctx, postID, viewer)
	if err != nil {
		return nil, err
	}
	if post.IsLocked {
		return nil, ErrPostLocked
	}
	if parentCommentID != nil {
		parent, err := s.PostRepo.GetComment(ctx, *parentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if parent.ParentPostID != postID {
			return nil, ErrCommentNotFound
		}
	}

	id, err := s.IDGen.NextID()
	if err != nil {
		return nil, err
	}
	comment := &models.Comment{
		ID:              id,
		ParentPostID:    postID,
		ParentCommentID: parentCommentID,
		AuthorID:        &author.ID,
		TextContent:     text,
		CreatedIP:       clientIP,
	}
	if err := s.PostRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// PublicFeed 全站公开 feed，可见性过滤在 SQL 端完成
func (s *PostService) PublicFeed(ctx context.Context, viewerID int64, limit, offset int) ([]models.Post, error) {
	return s.PostRepo.PublicFeed(ctx, viewerID, limit, offset)
}

// GuildFeed 社区 feed
func (s *PostService) GuildFeed(ctx context.Context, guildID, viewerID int64, limit, offset int) ([]models.Post, error) {
	return s.PostRepo.GuildFeed(ctx, guildID, viewerID, limit, offset)
}

// UserFeed 用户个人页 feed
func (s *PostService) UserFeed(ctx context.Context, authorID, viewerID int64, limit, offset int) ([]models.Post, error) {
	return s.PostRepo.UserFeed(ctx, authorID, viewerID, limit, offset)
}

// Comments 帖子的顶层评论
func (s *PostService) Comments(ctx context.Context, postID, viewerID int64, limit, offset int) ([]models.Comment, error) {
	return s.PostRepo.TopLevelComments(ctx, postID, viewerID, limit, offset)
}

// CommentThread 顶层评论加一层子评论，子评论按父批量取出
// 避免逐节点懒加载
func (s *PostService) CommentThread(ctx context.Context, postID, viewerID int64, limit, offset int) ([]models.Comment, map[int64][]models.Comment, error) {
	top, err := s.PostRepo.TopLevelComments(ctx, postID, viewerID, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	parentIDs := make([]int64, 0, len(top))
	for i := range top {
		parentIDs = append(parentIDs, top[i].ID)
	}
	children, err := s.PostRepo.ChildComments(ctx, parentIDs, viewerID)
	if err != nil {
		return nil, nil, err
	}
	byParent := make(map[int64][]models.Comment, len(parentIDs))
	for i := range children {
		if children[i].ParentCommentID == nil {
			continue
		}
		pid := *children[i].ParentCommentID
		byParent[pid] = append(byParent[pid], children[i])
	}
	return top, byParent, nil
}

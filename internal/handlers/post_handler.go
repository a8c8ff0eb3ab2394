package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yusurko/freak/internal/middlewares"
	"github.com/yusurko/freak/internal/repositories"
	"github.com/yusurko/freak/internal/services"
	"github.com/yusurko/freak/utils/snowflake"
)

type PostHandler struct {
	PostService  *services.PostService
	VoteService  *services.VoteService
	GuildService *services.GuildService
	UserService  *services.UserService
	UserRepo     *repositories.UserRepository
}

func NewPostHandler(postService *services.PostService, voteService *services.VoteService, guildService *services.GuildService, userService *services.UserService, userRepo *repositories.UserRepository) *PostHandler {
	return &PostHandler{PostService: postService, VoteService: voteService, GuildService: guildService, UserService: userService, UserRepo: userRepo}
}

func (h *PostHandler) currentUser(c *gin.Context) (*services.Viewer, bool) {
	viewer := middlewares.GetViewer(c)
	if viewer.IsAnonymous() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
		return nil, false
	}
	if err := viewer.Resolve(c.Request.Context(), h.UserRepo); err != nil {
		writeError(c, err)
		return nil, false
	}
	return viewer, true
}

type createPostRequest struct {
	Title     string `json:"title" binding:"required"`
	Text      string `json:"text_content"`
	SourceURL string `json:"source_url"`
	Guild     string `json:"guild"`
	Privacy   int16  `json:"privacy"`
}

func (h *PostHandler) Create(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	input := services.PostInput{
		Title:       req.Title,
		TextContent: req.Text,
		SourceURL:   req.SourceURL,
		Privacy:     req.Privacy,
		ClientIP:    c.ClientIP(),
	}
	if req.Guild != "" {
		guild, err := h.GuildService.GetByName(c.Request.Context(), req.Guild)
		if err != nil {
			writeError(c, err)
			return
		}
		input.GuildID = &guild.ID
	}

	author, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}
	post, err := h.PostService.CreatePost(c.Request.Context(), author, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPostView(post))
}

func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	viewer := middlewares.GetViewer(c)

	post, err := h.PostService.GetPostForViewer(c.Request.Context(), postID, viewer)
	if err != nil {
		writeError(c, err)
		return
	}
	score, err := h.VoteService.Score(c.Request.Context(), post.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	view := newPostView(post)
	c.JSON(http.StatusOK, gin.H{"post": view, "score": score})
}

func (h *PostHandler) PublicFeed(c *gin.Context) {
	viewer := middlewares.GetViewer(c)
	limit, offset := pagination(c)

	posts, err := h.PostService.PublicFeed(c.Request.Context(), viewer.ID(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": newPostViews(posts)})
}

func (h *PostHandler) GuildFeed(c *gin.Context) {
	viewer := middlewares.GetViewer(c)
	limit, offset := pagination(c)

	guild, err := h.GuildService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	posts, err := h.PostService.GuildFeed(c.Request.Context(), guild.ID, viewer.ID(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guild": newGuildView(guild), "posts": newPostViews(posts)})
}

func (h *PostHandler) UserFeed(c *gin.Context) {
	viewer := middlewares.GetViewer(c)
	limit, offset := pagination(c)

	author, err := h.UserService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	posts, err := h.PostService.UserFeed(c.Request.Context(), author.ID, viewer.ID(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserView(author), "posts": newPostViews(posts)})
}

type createCommentRequest struct {
	Text     string `json:"text_content" binding:"required"`
	ParentID string `json:"parent_comment_id"`
}

func (h *PostHandler) CreateComment(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	var parentID *int64
	if req.ParentID != "" {
		id, err := snowflake.DecodeB32L(req.ParentID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "资源不存在"})
			return
		}
		parentID = &id
	}

	author, err := viewer.User()
	if err != nil {
		writeError(c, err)
		return
	}
	comment, err := h.PostService.CreateComment(c.Request.Context(), author, postID, parentID, req.Text, c.ClientIP())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCommentView(comment))
}

// Comments 顶层评论带一层回复
func (h *PostHandler) Comments(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	viewer := middlewares.GetViewer(c)
	limit, offset := pagination(c)

	top, children, err := h.PostService.CommentThread(c.Request.Context(), postID, viewer.ID(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	type threadView struct {
		commentView
		Replies []commentView `json:"replies,omitempty"`
	}
	views := make([]threadView, 0, len(top))
	for i := range top {
		tv := threadView{commentView: newCommentView(&top[i])}
		for j := range children[top[i].ID] {
			tv.Replies = append(tv.Replies, newCommentView(&children[top[i].ID][j]))
		}
		views = append(views, tv)
	}
	c.JSON(http.StatusOK, gin.H{"comments": views})
}

type voteRequest struct {
	Intent int `json:"intent"`
}

// Vote intent: 1 赞、-1 踩、0 撤销
func (h *PostHandler) Vote(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	if err := h.VoteService.Cast(c.Request.Context(), postID, viewer.ID(), req.Intent); err != nil {
		writeError(c, err)
		return
	}
	score, err := h.VoteService.Score(c.Request.Context(), postID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score, "intent": req.Intent})
}

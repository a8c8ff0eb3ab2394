package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yusurko/freak/internal/models"
)

func TestReportTargets(t *testing.T) {
	post := &models.Post{
		ID:          100,
		AuthorID:    ptrInt64(1),
		Title:       "某个标题",
		TextContent: "正文内容",
	}
	comment := &models.Comment{
		ID:           200,
		AuthorID:     ptrInt64(2),
		ParentPostID: 100,
		TextContent:  "评论内容",
	}

	t.Run("帖子目标", func(t *testing.T) {
		target := PostTarget{Post: post}
		assert.Equal(t, models.ReportTargetPost, target.TargetType())
		assert.Equal(t, int64(100), target.TargetID())
		assert.Equal(t, int64(1), *target.AuthorID())
		// 快照同时带标题和正文，删除后还能看到被处分的是什么
		assert.Contains(t, target.ContentSnapshot(), "某个标题")
		assert.Contains(t, target.ContentSnapshot(), "正文内容")
	})

	t.Run("评论目标", func(t *testing.T) {
		target := CommentTarget{Comment: comment}
		assert.Equal(t, models.ReportTargetComment, target.TargetType())
		assert.Equal(t, int64(200), target.TargetID())
		assert.Equal(t, int64(2), *target.AuthorID())
		assert.Equal(t, "评论内容", target.ContentSnapshot())
	})
}

func TestReportOpenStates(t *testing.T) {
	tests := []struct {
		status int16
		open   bool
	}{
		{models.ReportUpdatePending, true},
		{models.ReportUpdateOnHold, true},
		{models.ReportUpdateComplete, false},
		{models.ReportUpdateRejected, false},
	}
	for _, tt := range tests {
		r := &models.PostReport{UpdateStatus: tt.status}
		assert.Equal(t, tt.open, r.IsOpen())
	}
}

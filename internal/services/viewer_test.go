package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewerUnresolved(t *testing.T) {
	v := NewViewer(42, "alice", false)

	assert.Equal(t, int64(42), v.ID())
	assert.False(t, v.IsAnonymous())

	// 解析前访问用户行必须报错，不允许静默返回 nil
	_, err := v.User()
	assert.ErrorIs(t, err, ErrViewerUnresolved)

	_, err = v.IsAdministrator()
	assert.ErrorIs(t, err, ErrViewerUnresolved)
}

func TestAnonymousViewer(t *testing.T) {
	v := AnonymousViewer()

	assert.True(t, v.IsAnonymous())
	assert.Equal(t, int64(0), v.ID())

	// 匿名身份天然已解析，User 返回 nil 而不是错误
	user, err := v.User()
	assert.NoError(t, err)
	assert.Nil(t, user)

	isAdmin, err := v.IsAdministrator()
	assert.NoError(t, err)
	assert.False(t, isAdmin)
}

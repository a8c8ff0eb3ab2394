package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("12345678"))
	assert.False(t, ValidatePassword("1234567"))
	assert.False(t, ValidatePassword(""))
}

func TestUsernameIsLegal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"常规用户名", "alice", true},
		{"带数字和下划线", "user_42", true},
		{"带连字符", "some-user", true},
		{"最短长度", "ab", true},
		{"单字符太短", "a", false},
		{"超长", "abcdefghijklmnopqrstuvwxyz0123456789", false},
		{"大写不允许", "Alice", false},
		{"空格不允许", "a b", false},
		{"中文不允许", "用户", false},
		{"空串", "", false},
		{"保留名 admin", "admin", false},
		{"保留名 api", "api", false},
		{"保留名 moderator", "moderator", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UsernameIsLegal(tt.input))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.org"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail(""))
}

func TestIsB32L(t *testing.T) {
	assert.True(t, IsB32L("b"))
	assert.True(t, IsB32L("ciwrtmvthr3"))
	assert.False(t, IsB32L("UPPER"))
	assert.False(t, IsB32L("has1digit"))
	assert.False(t, IsB32L(""))
}

package utils

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	namePattern  = regexp.MustCompile(`^[a-z0-9_-]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	b32lPattern  = regexp.MustCompile(`^[a-z2-7]+$`)

	// 保留名单：路由前缀和运营保留词不可注册
	reservedNames = map[string]bool{
		"admin":     true,
		"api":       true,
		"moderator": true,
		"mod":       true,
		"system":    true,
		"support":   true,
		"staff":     true,
		"root":      true,
		"null":      true,
		"undefined": true,
		"everyone":  true,
		"here":      true,
	}
)

// HashPassword 使用 bcrypt 对密码进行哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword 验证密码
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidatePassword 验证密码强度（至少8个字符）
func ValidatePassword(password string) bool {
	return len(password) >= 8
}

// UsernameIsLegal 用户名/社区名校验：小写、2-32字符、受限字符集、
// 不在保留名单内。与数据库 CHECK 约束保持一致
func UsernameIsLegal(name string) bool {
	if len(name) < 2 || len(name) > 32 {
		return false
	}
	if name != strings.ToLower(name) {
		return false
	}
	if !namePattern.MatchString(name) {
		return false
	}
	return !reservedNames[name]
}

// ValidateEmail 验证邮箱格式（邮箱可选，空串视为未提供）
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsB32L 是否形如一个 b32l 编码的标识符
func IsB32L(s string) bool {
	return b32lPattern.MatchString(s)
}

package services

import "errors"

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrUserAlreadyExists = errors.New("用户已存在")
	ErrGuildNotFound     = errors.New("社区不存在")
	ErrGuildNameTaken    = errors.New("社区名已被占用")
	ErrPostNotFound      = errors.New("帖子不存在")
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrReportNotFound    = errors.New("举报不存在")

	ErrInvalidUsername   = errors.New("用户名不合法")
	ErrInvalidEmail      = errors.New("邮箱格式不合法")
	ErrWeakPassword      = errors.New("密码强度不足")
	ErrPasswordIncorrect = errors.New("用户名或密码错误")
	ErrAccountSuspended  = errors.New("账号已被封禁")

	// Unauthorized 对应 403：权限检查未通过，记录日志但不升级
	ErrUnauthorized = errors.New("没有执行该操作的权限")

	// InvalidVoteTransition 对应 400：意图/状态组合不在转移表内
	ErrInvalidVoteTransition = errors.New("无效的投票转移")

	// NotImplemented 必须与成功明确区分，不允许静默空操作
	ErrNotImplemented = errors.New("该操作尚未实现")

	// ConcurrencyConflict 唯一约束冲突且重试一次后仍失败
	ErrConcurrencyConflict = errors.New("并发写入冲突")

	ErrReportClosed        = errors.New("举报已了结，不能再次处理")
	ErrInvalidReportAction = errors.New("未知的举报处理动作")

	ErrPostingNotAllowed = errors.New("不能在该社区发帖")
	ErrPostLocked        = errors.New("帖子已锁定")
	ErrSelfReport        = errors.New("不能举报自己的内容")
	ErrUnknownReason     = errors.New("未知的举报理由")
	ErrKarmaTooLow       = errors.New("karma 不足，无法创建社区")
	ErrViewerUnresolved  = errors.New("viewer 尚未解析")
)

package models

import (
	"time"
)

// 举报目标类型
const (
	ReportTargetPost    int16 = 1
	ReportTargetComment int16 = 2
)

// 举报处理状态机：pending 为初始态，complete/rejected 为终态，
// on_hold 可转移到任何其他状态
const (
	ReportUpdatePending  int16 = 0
	ReportUpdateComplete int16 = 1
	ReportUpdateRejected int16 = 2
	ReportUpdateOnHold   int16 = 3
)

// PostReport 用户提交的举报
type PostReport struct {
	ID int64 `gorm:"primaryKey" json:"id"`

	AuthorID     *int64 `gorm:"index" json:"author_id,omitempty"`
	TargetType   int16  `gorm:"not null" json:"target_type"`
	TargetID     int64  `gorm:"not null;index" json:"target_id"`
	ReasonCode   int16  `gorm:"not null" json:"reason_code"`
	UpdateStatus int16  `gorm:"not null;default:0" json:"update_status"`

	CreatedAt time.Time `json:"created_at"`
	CreatedIP string    `gorm:"size:64" json:"-"`

	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}

func (PostReport) TableName() string {
	return "freak_postreport"
}

// IsOpen 举报是否仍待处理（含 on_hold）
func (r *PostReport) IsOpen() bool {
	return r.UpdateStatus != ReportUpdateComplete && r.UpdateStatus != ReportUpdateRejected
}

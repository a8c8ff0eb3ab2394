package models

import (
	"time"
)

// UserBlock 有向屏蔽边 actor -> target，按序对唯一
type UserBlock struct {
	ActorID  int64 `gorm:"primaryKey;autoIncrement:false" json:"actor_id"`
	TargetID int64 `gorm:"primaryKey;autoIncrement:false" json:"target_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (UserBlock) TableName() string {
	return "freak_userblock"
}

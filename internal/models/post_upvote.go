package models

// PostUpvote 每个 (post_id, voter_id) 至多一行；is_downvote 区分方向
// 复合主键是并发投票的最终防线
type PostUpvote struct {
	PostID  int64 `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	VoterID int64 `gorm:"primaryKey;autoIncrement:false" json:"voter_id"`

	IsDownvote bool `gorm:"not null;default:false" json:"is_downvote"`
}

func (PostUpvote) TableName() string {
	return "freak_post_upvote"
}

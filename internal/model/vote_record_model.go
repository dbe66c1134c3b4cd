package model

import (
	"time"
)

// VoteRecordModel 本地投票回退记录，按 (poll_id, address) 唯一
// 仅在权威响应列表拉不下来时作为"是否已投"的参考，能读到链上数据时以链上为准
type VoteRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PollId  int64  `json:"poll_id" gorm:"uniqueIndex:idx_vote_poll_addr;not null"`
	Address string `json:"address" gorm:"uniqueIndex:idx_vote_poll_addr;not null"`
	Option  string `json:"option" gorm:"not null"`
	TxHash  string `json:"tx_hash"`
}

// TableName 自定义表名
func (VoteRecordModel) TableName() string {
	return "vote_record"
}

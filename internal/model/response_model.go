package model

import (
	"time"
)

// ResponseModel 链上投票响应的本地缓存
type ResponseModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PollId    int64  `json:"poll_id" gorm:"index:idx_response_poll_addr;not null"`
	Responder string `json:"responder" gorm:"index:idx_response_poll_addr;not null"`
	Response  string `json:"response" gorm:"not null"`
	Weight    int64  `json:"weight"`
	Timestamp int64  `json:"timestamp"` // 链上响应时间，UNIX 秒
	IsClaimed bool   `json:"is_claimed"`
	Reward    string `json:"reward"` // 最小单位十进制字符串
}

// TableName 自定义表名
func (ResponseModel) TableName() string {
	return "response"
}

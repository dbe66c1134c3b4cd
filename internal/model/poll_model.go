package model

import (
	"time"
)

// PollModel 链上投票快照的本地缓存
// 权威状态永远在合约里，这里只是读取加速层，读取时必须重新计算有效状态
type PollModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PollId int64 `json:"poll_id" gorm:"uniqueIndex;not null"`

	// 内容
	Creator     string `json:"creator" gorm:"index;not null"`
	Subject     string `json:"subject" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category"`
	Status      string `json:"status"`    // 合约声明的状态标签
	ViewType    string `json:"view_type"` // public / private
	Options     string `json:"options" gorm:"type:text"` // JSON数组，保持声明顺序
	IsOpen      bool   `json:"is_open"`

	// 设置，链上金额以十进制字符串存储避免精度丢失
	RewardPerResponse  string `json:"reward_per_response"`
	MaxResponses       int64  `json:"max_responses"`
	DurationDays       int64  `json:"duration_days"`
	MinContribution    string `json:"min_contribution"`
	FundingType        string `json:"funding_type"`
	TargetFund         string `json:"target_fund"`
	EndTime            int64  `json:"end_time"` // UNIX 秒
	Funds              string `json:"funds"`
	RewardToken        string `json:"reward_token"`
	RewardDistribution string `json:"reward_distribution"`
	TotalResponses     int64  `json:"total_responses"`

	// 抓取序号，旧的抓取结果不允许覆盖新的
	FetchSeq int64 `json:"fetch_seq" gorm:"not null;default:0"`
}

// TableName 自定义表名
func (PollModel) TableName() string {
	return "poll"
}

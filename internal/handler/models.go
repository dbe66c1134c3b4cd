package handler

import (
	"github.com/bpolls/bpolls-bapp/internal/logic"
	"github.com/bpolls/bpolls-bapp/internal/poll"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 投票相关响应模型

// PollResponse 投票快照响应模型
// 金额字段以基础单位的十进制字符串输出，展示单位转换交给前端
type PollResponse struct {
	PollId             int64    `json:"pollId"`
	Creator            string   `json:"creator"`
	Subject            string   `json:"subject"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	DeclaredStatus     string   `json:"declaredStatus"`
	EffectiveStatus    string   `json:"effectiveStatus"`
	ViewType           string   `json:"viewType"`
	Options            []string `json:"options"`
	IsOpen             bool     `json:"isOpen"`
	RewardPerResponse  string   `json:"rewardPerResponse"`
	MaxResponses       int64    `json:"maxResponses"`
	DurationDays       int64    `json:"durationDays"`
	MinContribution    string   `json:"minContribution"`
	FundingType        string   `json:"fundingType"`
	TargetFund         string   `json:"targetFund"`
	EndTime            int64    `json:"endTime"`
	Funds              string   `json:"funds"`
	RewardToken        string   `json:"rewardToken"`
	RewardDistribution string   `json:"rewardDistribution"`
	TotalResponses     int64    `json:"totalResponses"`
	TimeRemaining      int64    `json:"timeRemainingSeconds"`
}

// GetPollsResponse 获取投票列表响应
type GetPollsResponse struct {
	Polls []PollResponse `json:"polls"`
	Total int            `json:"total"`
}

// PollResponseItem 单条投票响应记录
type PollResponseItem struct {
	Responder string `json:"responder"`
	Response  string `json:"response"`
	Weight    string `json:"weight"`
	Timestamp int64  `json:"timestamp"`
	IsClaimed bool   `json:"isClaimed"`
	Reward    string `json:"reward"`
}

// GetResponsesResponse 获取响应列表响应
type GetResponsesResponse struct {
	PollId    int64              `json:"pollId"`
	Responses []PollResponseItem `json:"responses"`
	Total     int                `json:"total"`
}

// CreatePollRequest 创建投票请求
// 金额字段接受展示单位的十进制字符串，如 "0.00001"
type CreatePollRequest struct {
	Creator            string   `json:"creator" binding:"required"`
	Subject            string   `json:"subject" binding:"required"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	ViewType           string   `json:"viewType"`
	Options            []string `json:"options" binding:"required"`
	RewardPerResponse  string   `json:"rewardPerResponse" binding:"required"`
	DurationDays       int64    `json:"durationDays" binding:"required"`
	MaxResponses       int64    `json:"maxResponses" binding:"required"`
	MinContribution    string   `json:"minContribution" binding:"required"`
	FundingType        string   `json:"fundingType"`
	IsOpenImmediately  bool     `json:"isOpenImmediately"`
	RewardToken        string   `json:"rewardToken"`
	RewardDistribution string   `json:"rewardDistribution"`
}

// VoteRequest 提交投票请求
type VoteRequest struct {
	Address string `json:"address" binding:"required"`
	ChainId int64  `json:"chainId"`
	Option  string `json:"option" binding:"required"`
}

// ChangeStatusRequest 状态变更请求
type ChangeStatusRequest struct {
	Address string `json:"address" binding:"required"`
	Target  string `json:"target" binding:"required"`
}

// TxResponse 交易提交响应
type TxResponse struct {
	TxHash string `json:"txHash"`
}

// 转换函数

// ToPollResponse 将业务视图转换为响应模型
func ToPollResponse(v *logic.PollView) PollResponse {
	p := v.Poll
	return PollResponse{
		PollId:             p.ID,
		Creator:            p.Content.Creator.Hex(),
		Subject:            p.Content.Subject,
		Description:        p.Content.Description,
		Category:           p.Content.Category,
		DeclaredStatus:     p.Content.Status,
		EffectiveStatus:    string(v.EffectiveStatus),
		ViewType:           p.Content.ViewType,
		Options:            p.Content.Options,
		IsOpen:             p.Content.IsOpen,
		RewardPerResponse:  bigText(p.Settings.RewardPerResponse),
		MaxResponses:       p.Settings.MaxResponses,
		DurationDays:       p.Settings.DurationDays,
		MinContribution:    bigText(p.Settings.MinContribution),
		FundingType:        p.Settings.FundingType,
		TargetFund:         bigText(p.Settings.TargetFund),
		EndTime:            p.Settings.EndTime,
		Funds:              bigText(p.Settings.Funds),
		RewardToken:        p.Settings.RewardToken.Hex(),
		RewardDistribution: p.Settings.RewardDistribution,
		TotalResponses:     p.Settings.TotalResponses,
		TimeRemaining:      v.TimeRemaining,
	}
}

// ToPollResponseList 将业务视图列表转换为响应模型列表
func ToPollResponseList(views []*logic.PollView) []PollResponse {
	result := make([]PollResponse, len(views))
	for i, v := range views {
		result[i] = ToPollResponse(v)
	}
	return result
}

// ToPollResponseItemList 将响应记录列表转换为响应模型列表
func ToPollResponseItemList(responses []poll.PollResponse) []PollResponseItem {
	result := make([]PollResponseItem, len(responses))
	for i, r := range responses {
		result[i] = PollResponseItem{
			Responder: r.Responder.Hex(),
			Response:  r.Response,
			Weight:    bigText(r.Weight),
			Timestamp: r.Timestamp,
			IsClaimed: r.IsClaimed,
			Reward:    bigText(r.Reward),
		}
	}
	return result
}

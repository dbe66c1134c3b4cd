package logic

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/bpolls/bpolls-bapp/internal/model"
	"github.com/bpolls/bpolls-bapp/internal/poll"
	"github.com/ethereum/go-ethereum/common"
)

// toPollModel 把规整后的快照转成缓存行
// 链上金额存十进制字符串，避免落库时精度丢失
func toPollModel(p *poll.Poll, fetchSeq int64) (*model.PollModel, error) {
	options, err := json.Marshal(p.Content.Options)
	if err != nil {
		return nil, fmt.Errorf("编码选项失败: %w", err)
	}

	return &model.PollModel{
		PollId:             p.ID,
		Creator:            p.Content.Creator.Hex(),
		Subject:            p.Content.Subject,
		Description:        p.Content.Description,
		Category:           p.Content.Category,
		Status:             p.Content.Status,
		ViewType:           p.Content.ViewType,
		Options:            string(options),
		IsOpen:             p.Content.IsOpen,
		RewardPerResponse:  bigString(p.Settings.RewardPerResponse),
		MaxResponses:       p.Settings.MaxResponses,
		DurationDays:       p.Settings.DurationDays,
		MinContribution:    bigString(p.Settings.MinContribution),
		FundingType:        p.Settings.FundingType,
		TargetFund:         bigString(p.Settings.TargetFund),
		EndTime:            p.Settings.EndTime,
		Funds:              bigString(p.Settings.Funds),
		RewardToken:        p.Settings.RewardToken.Hex(),
		RewardDistribution: p.Settings.RewardDistribution,
		TotalResponses:     p.Settings.TotalResponses,
		FetchSeq:           fetchSeq,
	}, nil
}

// fromPollModel 把缓存行还原成域快照
func fromPollModel(m *model.PollModel) (*poll.Poll, error) {
	var options []string
	if err := json.Unmarshal([]byte(m.Options), &options); err != nil {
		return nil, fmt.Errorf("%w: 缓存的选项解码失败: %v", poll.ErrMalformedPoll, err)
	}

	return &poll.Poll{
		ID: m.PollId,
		Content: poll.PollContent{
			Creator:     common.HexToAddress(m.Creator),
			Subject:     m.Subject,
			Description: m.Description,
			Category:    m.Category,
			Status:      m.Status,
			ViewType:    m.ViewType,
			Options:     options,
			IsOpen:      m.IsOpen,
		},
		Settings: poll.PollSettings{
			RewardPerResponse:  stringBig(m.RewardPerResponse),
			MaxResponses:       m.MaxResponses,
			DurationDays:       m.DurationDays,
			MinContribution:    stringBig(m.MinContribution),
			FundingType:        m.FundingType,
			TargetFund:         stringBig(m.TargetFund),
			EndTime:            m.EndTime,
			Funds:              stringBig(m.Funds),
			RewardToken:        common.HexToAddress(m.RewardToken),
			RewardDistribution: m.RewardDistribution,
			TotalResponses:     m.TotalResponses,
		},
	}, nil
}

// toResponseModel 响应快照转缓存行
func toResponseModel(pollID int64, r *poll.PollResponse) *model.ResponseModel {
	weight := int64(0)
	if r.Weight != nil && r.Weight.IsInt64() {
		weight = r.Weight.Int64()
	}
	return &model.ResponseModel{
		PollId:    pollID,
		Responder: r.Responder.Hex(),
		Response:  r.Response,
		Weight:    weight,
		Timestamp: r.Timestamp,
		IsClaimed: r.IsClaimed,
		Reward:    bigString(r.Reward),
	}
}

// fromResponseModel 缓存行转响应快照
func fromResponseModel(m *model.ResponseModel) poll.PollResponse {
	return poll.PollResponse{
		Responder: common.HexToAddress(m.Responder),
		Response:  m.Response,
		Weight:    big.NewInt(m.Weight),
		Timestamp: m.Timestamp,
		IsClaimed: m.IsClaimed,
		Reward:    stringBig(m.Reward),
	}
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func stringBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return big.NewInt(0)
	}
	return v
}

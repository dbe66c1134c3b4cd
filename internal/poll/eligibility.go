package poll

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ConnectionContext 钱包连接上下文，显式传参而不是全局状态
type ConnectionContext struct {
	Address common.Address
	ChainID int64
}

// Connected 是否已连接钱包
func (c ConnectionContext) Connected() bool {
	return c.Address != (common.Address{})
}

// VoteIntent 通过资格检查后得到的投票意向
// Value 是提交交易必须携带的金额，取投票的最小贡献
type VoteIntent struct {
	PollID int64
	Option string
	Value  *big.Int
}

// CanVote 投票资格检查，按顺序验证，全部通过返回 VoteIntent
// 这里只是乐观预检，避免白花 gas；快照可能过期，合约回滚才是最终裁决
func CanVote(p *Poll, conn ConnectionContext, option string, hasVoted bool, now time.Time) (*VoteIntent, error) {
	if !conn.Connected() {
		return nil, ErrWalletNotConnected
	}

	if status := EffectiveStatus(p, now); !status.AcceptsVotes() {
		return nil, fmt.Errorf("%w: poll %d is %s", ErrPollNotAccepting, p.ID, status)
	}

	if !p.Content.HasOption(option) {
		return nil, fmt.Errorf("%w: %q not in poll %d options", ErrInvalidOption, option, p.ID)
	}

	if hasVoted {
		return nil, fmt.Errorf("%w: %s on poll %d", ErrAlreadyVoted, conn.Address.Hex(), p.ID)
	}

	value := p.Settings.MinContribution
	if value == nil {
		value = big.NewInt(0)
	}

	return &VoteIntent{
		PollID: p.ID,
		Option: option,
		Value:  value,
	}, nil
}

// HasResponded 在响应列表里查找该地址是否已投过，返回其已选选项
func HasResponded(responses []PollResponse, addr common.Address) (string, bool) {
	for _, r := range responses {
		if r.Responder == addr {
			return r.Response, true
		}
	}
	return "", false
}

// CreatePollParams 创建投票的参数，对应合约 createPoll 的入参结构
type CreatePollParams struct {
	Creator            common.Address
	Subject            string
	Description        string
	Category           string
	ViewType           string
	Options            []string
	RewardPerResponse  *big.Int
	DurationDays       int64
	MaxResponses       int64
	MinContribution    *big.Int
	FundingType        string
	IsOpenImmediately  bool
	TargetFund         *big.Int
	RewardToken        common.Address
	RewardDistribution string
}

// Validate 创建前的本地校验，和创建表单的约束保持一致
func (p *CreatePollParams) Validate() error {
	if p.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidParams)
	}

	nonEmpty := 0
	for _, o := range p.Options {
		if o != "" {
			nonEmpty++
		}
	}
	if nonEmpty < 2 {
		return fmt.Errorf("%w: need at least 2 non-empty options", ErrInvalidParams)
	}

	if p.MaxResponses < 1 {
		return fmt.Errorf("%w: maxResponses must be >= 1", ErrInvalidParams)
	}
	if p.DurationDays < 1 {
		return fmt.Errorf("%w: durationDays must be >= 1", ErrInvalidParams)
	}
	// 类型上允许0，但创建入口要求必须为正；合约是否同样强制未知，以回滚为准
	if p.MinContribution == nil || p.MinContribution.Sign() <= 0 {
		return fmt.Errorf("%w: minContribution must be > 0", ErrInvalidParams)
	}
	if p.RewardPerResponse == nil || p.RewardPerResponse.Sign() < 0 {
		return fmt.Errorf("%w: rewardPerResponse must be >= 0", ErrInvalidParams)
	}

	// 目标资金固定为自动计算值
	want := TargetFund(p.RewardPerResponse, p.MaxResponses)
	if p.TargetFund == nil || p.TargetFund.Cmp(want) != 0 {
		return fmt.Errorf("%w: targetFund must equal rewardPerResponse * maxResponses", ErrInvalidParams)
	}

	return nil
}

// TxValue 创建交易需要携带的金额：立即开启时预存目标资金，否则为0
func (p *CreatePollParams) TxValue() *big.Int {
	if p.IsOpenImmediately {
		return p.TargetFund
	}
	return big.NewInt(0)
}

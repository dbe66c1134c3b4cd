package poll

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// 视图类型
const (
	ViewTypePublic  = "public"
	ViewTypePrivate = "private"
)

// 资金类型，合约侧是自由字符串，客户端不做枚举强校验
const (
	FundingTypeSelf      = "self-funded"
	FundingTypeCrowd     = "crowdfunded"
	FundingTypeCommunity = "community"
	FundingTypeUnfunded  = "unfunded"
)

// 奖励分配方式
const (
	RewardDistributionEqual    = "equal"
	RewardDistributionWeighted = "weighted"
)

// PollContent 投票内容，单次抓取后不可变
type PollContent struct {
	Creator     common.Address `json:"creator"`
	Subject     string         `json:"subject"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Status      string         `json:"status"` // 合约声明的状态标签，只有结合时间和响应数检查才可信
	ViewType    string         `json:"viewType"`
	Options     []string       `json:"options"`
	IsOpen      bool           `json:"isOpen"`
}

// PollSettings 投票参数设置
type PollSettings struct {
	RewardPerResponse  *big.Int       `json:"rewardPerResponse"`
	MaxResponses       int64          `json:"maxResponses"`
	DurationDays       int64          `json:"durationDays"`
	MinContribution    *big.Int       `json:"minContribution"`
	FundingType        string         `json:"fundingType"`
	TargetFund         *big.Int       `json:"targetFund"`
	EndTime            int64          `json:"endTime"` // UNIX 秒
	Funds              *big.Int       `json:"funds"`
	RewardToken        common.Address `json:"rewardToken"` // 零地址表示原生币
	RewardDistribution string         `json:"rewardDistribution"`
	TotalResponses     int64          `json:"totalResponses"`
}

// Poll 一次抓取得到的投票快照，派生状态不落在快照上
type Poll struct {
	ID       int64        `json:"pollId"`
	Content  PollContent  `json:"content"`
	Settings PollSettings `json:"settings"`
}

// PollResponse 单条投票响应
type PollResponse struct {
	Responder common.Address `json:"responder"`
	Response  string         `json:"response"`
	Weight    *big.Int       `json:"weight"`
	Timestamp int64          `json:"timestamp"`
	IsClaimed bool           `json:"isClaimed"`
	Reward    *big.Int       `json:"reward"`
}

// UsesNativeReward 奖励是否用原生币发放
func (p *Poll) UsesNativeReward() bool {
	return p.Settings.RewardToken == (common.Address{})
}

// HasOption 判断选项是否存在，与合约一致做精确字符串比较
func (c *PollContent) HasOption(option string) bool {
	for _, o := range c.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Normalize 把 ABI 解包出来的原始记录规整成 Poll 快照
// 这是非类型化数据进入系统的唯一入口，缺字段或选项少于2个返回 ErrMalformedPoll
func Normalize(pollID int64, raw map[string]interface{}) (*Poll, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil record", ErrMalformedPoll)
	}

	p := &Poll{ID: pollID}
	var err error

	if p.Content.Creator, err = rawAddress(raw, "creator"); err != nil {
		return nil, err
	}
	if p.Content.Subject, err = rawString(raw, "subject"); err != nil {
		return nil, err
	}
	// description/category 允许为空串，但键必须存在
	if p.Content.Description, err = rawString(raw, "description"); err != nil {
		return nil, err
	}
	if p.Content.Category, err = rawString(raw, "category"); err != nil {
		return nil, err
	}
	if p.Content.Status, err = rawString(raw, "status"); err != nil {
		return nil, err
	}
	if p.Content.ViewType, err = rawString(raw, "viewType"); err != nil {
		return nil, err
	}
	if p.Content.Options, err = rawStrings(raw, "options"); err != nil {
		return nil, err
	}
	if len(p.Content.Options) < 2 {
		return nil, fmt.Errorf("%w: poll %d has %d options, need at least 2", ErrMalformedPoll, pollID, len(p.Content.Options))
	}
	if p.Content.IsOpen, err = rawBool(raw, "isOpen"); err != nil {
		return nil, err
	}

	if p.Settings.RewardPerResponse, err = rawBigInt(raw, "rewardPerResponse"); err != nil {
		return nil, err
	}
	if p.Settings.MaxResponses, err = rawInt64(raw, "maxResponses"); err != nil {
		return nil, err
	}
	if p.Settings.DurationDays, err = rawInt64(raw, "durationDays"); err != nil {
		return nil, err
	}
	if p.Settings.MinContribution, err = rawBigInt(raw, "minContribution"); err != nil {
		return nil, err
	}
	if p.Settings.FundingType, err = rawString(raw, "fundingType"); err != nil {
		return nil, err
	}
	if p.Settings.TargetFund, err = rawBigInt(raw, "targetFund"); err != nil {
		return nil, err
	}
	if p.Settings.EndTime, err = rawInt64(raw, "endTime"); err != nil {
		return nil, err
	}
	if p.Settings.Funds, err = rawBigInt(raw, "funds"); err != nil {
		return nil, err
	}
	if p.Settings.RewardToken, err = rawAddress(raw, "rewardToken"); err != nil {
		return nil, err
	}
	if p.Settings.RewardDistribution, err = rawString(raw, "rewardDistribution"); err != nil {
		return nil, err
	}
	if p.Settings.TotalResponses, err = rawInt64(raw, "totalResponses"); err != nil {
		return nil, err
	}

	return p, nil
}

// NormalizeResponse 规整单条响应记录
func NormalizeResponse(raw map[string]interface{}) (*PollResponse, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil response record", ErrMalformedPoll)
	}

	r := &PollResponse{}
	var err error

	if r.Responder, err = rawAddress(raw, "responder"); err != nil {
		return nil, err
	}
	if r.Response, err = rawString(raw, "response"); err != nil {
		return nil, err
	}
	if r.Weight, err = rawBigInt(raw, "weight"); err != nil {
		return nil, err
	}
	if r.Timestamp, err = rawInt64(raw, "timestamp"); err != nil {
		return nil, err
	}
	if r.IsClaimed, err = rawBool(raw, "isClaimed"); err != nil {
		return nil, err
	}
	if r.Reward, err = rawBigInt(raw, "reward"); err != nil {
		return nil, err
	}

	return r, nil
}

func rawString(raw map[string]interface{}, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrMalformedPoll, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is %T, want string", ErrMalformedPoll, key, v)
	}
	return s, nil
}

func rawStrings(raw map[string]interface{}, key string) ([]string, error) {
	v, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrMalformedPoll, key)
	}
	switch s := v.(type) {
	case []string:
		return s, nil
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: field %q has non-string element %T", ErrMalformedPoll, key, e)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: field %q is %T, want []string", ErrMalformedPoll, key, v)
	}
}

func rawBool(raw map[string]interface{}, key string) (bool, error) {
	v, ok := raw[key]
	if !ok {
		return false, fmt.Errorf("%w: missing field %q", ErrMalformedPoll, key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: field %q is %T, want bool", ErrMalformedPoll, key, v)
	}
	return b, nil
}

func rawAddress(raw map[string]interface{}, key string) (common.Address, error) {
	v, ok := raw[key]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: missing field %q", ErrMalformedPoll, key)
	}
	switch a := v.(type) {
	case common.Address:
		return a, nil
	case string:
		if !common.IsHexAddress(a) {
			return common.Address{}, fmt.Errorf("%w: field %q is not a hex address", ErrMalformedPoll, key)
		}
		return common.HexToAddress(a), nil
	default:
		return common.Address{}, fmt.Errorf("%w: field %q is %T, want address", ErrMalformedPoll, key, v)
	}
}

func rawBigInt(raw map[string]interface{}, key string) (*big.Int, error) {
	v, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrMalformedPoll, key)
	}
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("%w: field %q is nil", ErrMalformedPoll, key)
		}
		return n, nil
	case int64:
		return big.NewInt(n), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case string:
		b, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not numeric", ErrMalformedPoll, key)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: field %q is %T, want integer", ErrMalformedPoll, key, v)
	}
}

func rawInt64(raw map[string]interface{}, key string) (int64, error) {
	b, err := rawBigInt(raw, key)
	if err != nil {
		return 0, err
	}
	if !b.IsInt64() {
		return 0, fmt.Errorf("%w: field %q overflows int64", ErrMalformedPoll, key)
	}
	return b.Int64(), nil
}

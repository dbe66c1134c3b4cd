package gateway

import (
	"context"
	"fmt"
	"math/big"

	"github.com/bpolls/bpolls-bapp/internal/poll"
	"github.com/ethereum/go-ethereum/common"
)

// PollGateway 远程投票网关，屏蔽链访问细节
// 读操作返回规整后的快照，写操作返回交易哈希
type PollGateway interface {
	// GetAllPollIds 获取全部投票ID
	GetAllPollIds(ctx context.Context) ([]int64, error)
	// GetPoll 按ID获取投票快照
	GetPoll(ctx context.Context, pollID int64) (*poll.Poll, error)
	// GetPollResponses 获取投票的全部响应
	GetPollResponses(ctx context.Context, pollID int64) ([]poll.PollResponse, error)
	// SubmitResponse 提交投票响应，value 是交易携带金额
	SubmitResponse(ctx context.Context, pollID int64, option string, value *big.Int) (common.Hash, error)
	// ChangeStatus 发起状态变更交易，target 取 open/funding/claiming/closed
	ChangeStatus(ctx context.Context, pollID int64, target string) (common.Hash, error)
	// CreatePoll 创建投票
	CreatePoll(ctx context.Context, params *poll.CreatePollParams) (common.Hash, error)
}

// Unconfigured 返回一个所有操作都失败的网关
// 合约未配置时服务降级为只读缓存模式，用它占位避免空指针
func Unconfigured() PollGateway {
	return unconfiguredGateway{}
}

type unconfiguredGateway struct{}

func (unconfiguredGateway) GetAllPollIds(ctx context.Context) ([]int64, error) {
	return nil, unconfiguredErr()
}

func (unconfiguredGateway) GetPoll(ctx context.Context, pollID int64) (*poll.Poll, error) {
	return nil, unconfiguredErr()
}

func (unconfiguredGateway) GetPollResponses(ctx context.Context, pollID int64) ([]poll.PollResponse, error) {
	return nil, unconfiguredErr()
}

func (unconfiguredGateway) SubmitResponse(ctx context.Context, pollID int64, option string, value *big.Int) (common.Hash, error) {
	return common.Hash{}, unconfiguredErr()
}

func (unconfiguredGateway) ChangeStatus(ctx context.Context, pollID int64, target string) (common.Hash, error) {
	return common.Hash{}, unconfiguredErr()
}

func (unconfiguredGateway) CreatePoll(ctx context.Context, params *poll.CreatePollParams) (common.Hash, error) {
	return common.Hash{}, unconfiguredErr()
}

func unconfiguredErr() error {
	return fmt.Errorf("%w: polls contract is not configured", poll.ErrContractNotConfigured)
}

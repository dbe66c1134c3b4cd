package gateway

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/bpolls/bpolls-bapp/internal/chain"
	"github.com/bpolls/bpolls-bapp/internal/logger"
	"github.com/bpolls/bpolls-bapp/internal/poll"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// PollsContractName 链管理器里BPolls主合约的注册名
const PollsContractName = "polls_dapp"

// contractCaller 网关对合约包装器的依赖面
type contractCaller interface {
	Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error)
	Transact(opts *bind.TransactOpts, method string, args ...interface{}) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	GetAddress() common.Address
}

type transactOptsFunc func(ctx context.Context, value *big.Int) (*bind.TransactOpts, error)

// EthGateway 基于 go-ethereum 的网关实现
type EthGateway struct {
	contract contractCaller
	txOpts   transactOptsFunc
}

// NewEthGateway 从链管理器创建网关
// 主合约未配置时返回 ErrContractNotConfigured，让上层明确降级而不是panic
func NewEthGateway(manager *chain.Manager) (*EthGateway, error) {
	contract, err := manager.GetContract(PollsContractName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", poll.ErrContractNotConfigured, err)
	}

	return &EthGateway{
		contract: contract,
		txOpts:   manager.NewTransactOpts,
	}, nil
}

// newWithDeps 测试入口
func newWithDeps(contract contractCaller, txOpts transactOptsFunc) *EthGateway {
	return &EthGateway{contract: contract, txOpts: txOpts}
}

// GetAllPollIds 获取全部投票ID
func (g *EthGateway) GetAllPollIds(ctx context.Context) ([]int64, error) {
	out, err := g.contract.Call(ctx, "getAllPollIds")
	if err != nil {
		// RPC 失败必须报网关不可用，绝不能当成空列表
		return nil, fmt.Errorf("%w: getAllPollIds: %v", poll.ErrGatewayUnavailable, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: getAllPollIds returned nothing", poll.ErrGatewayUnavailable)
	}

	raw, ok := out[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: getAllPollIds returned %T", poll.ErrMalformedPoll, out[0])
	}

	ids := make([]int64, 0, len(raw))
	for _, id := range raw {
		if id == nil || !id.IsInt64() {
			return nil, fmt.Errorf("%w: poll id out of range", poll.ErrMalformedPoll)
		}
		ids = append(ids, id.Int64())
	}
	return ids, nil
}

// GetPoll 按ID获取投票快照，规整在这一层完成
func (g *EthGateway) GetPoll(ctx context.Context, pollID int64) (*poll.Poll, error) {
	out, err := g.contract.Call(ctx, "getPoll", big.NewInt(pollID))
	if err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("%w: poll %d", poll.ErrPollNotFound, pollID)
		}
		return nil, fmt.Errorf("%w: getPoll(%d): %v", poll.ErrGatewayUnavailable, pollID, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: getPoll(%d) returned nothing", poll.ErrGatewayUnavailable, pollID)
	}

	raw, err := structToMap(out[0])
	if err != nil {
		return nil, fmt.Errorf("%w: getPoll(%d): %v", poll.ErrMalformedPoll, pollID, err)
	}

	return poll.Normalize(pollID, raw)
}

// GetPollResponses 获取投票的全部响应
func (g *EthGateway) GetPollResponses(ctx context.Context, pollID int64) ([]poll.PollResponse, error) {
	out, err := g.contract.Call(ctx, "getPollResponses", big.NewInt(pollID))
	if err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("%w: poll %d", poll.ErrPollNotFound, pollID)
		}
		return nil, fmt.Errorf("%w: getPollResponses(%d): %v", poll.ErrGatewayUnavailable, pollID, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: getPollResponses(%d) returned nothing", poll.ErrGatewayUnavailable, pollID)
	}

	items, err := sliceToMaps(out[0])
	if err != nil {
		return nil, fmt.Errorf("%w: getPollResponses(%d): %v", poll.ErrMalformedPoll, pollID, err)
	}

	responses := make([]poll.PollResponse, 0, len(items))
	for _, item := range items {
		r, err := poll.NormalizeResponse(item)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *r)
	}
	return responses, nil
}

// SubmitResponse 提交投票响应
// 本地预检通过不代表能成：快照可能过期，合约回滚才是最终裁决
func (g *EthGateway) SubmitResponse(ctx context.Context, pollID int64, option string, value *big.Int) (common.Hash, error) {
	opts, err := g.txOpts(ctx, value)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", poll.ErrGatewayUnavailable, err)
	}

	tx, err := g.contract.Transact(opts, "submitResponse", big.NewInt(pollID), option)
	if err != nil {
		return common.Hash{}, mapTxError(err)
	}

	logger.Info("Submitted response tx %s for poll %d", tx.Hash().Hex(), pollID)
	return g.awaitReceipt(ctx, tx)
}

// ChangeStatus 发起状态变更交易
func (g *EthGateway) ChangeStatus(ctx context.Context, pollID int64, target string) (common.Hash, error) {
	method, err := statusMethod(target)
	if err != nil {
		return common.Hash{}, err
	}

	opts, err := g.txOpts(ctx, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", poll.ErrGatewayUnavailable, err)
	}

	tx, err := g.contract.Transact(opts, method, big.NewInt(pollID))
	if err != nil {
		return common.Hash{}, mapTxError(err)
	}

	logger.Info("Submitted %s tx %s for poll %d", method, tx.Hash().Hex(), pollID)
	return g.awaitReceipt(ctx, tx)
}

// CreatePoll 创建投票，开启时交易携带目标资金
func (g *EthGateway) CreatePoll(ctx context.Context, params *poll.CreatePollParams) (common.Hash, error) {
	if err := params.Validate(); err != nil {
		return common.Hash{}, err
	}

	opts, err := g.txOpts(ctx, params.TxValue())
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", poll.ErrGatewayUnavailable, err)
	}

	tx, err := g.contract.Transact(opts, "createPoll", toCreateTuple(params))
	if err != nil {
		return common.Hash{}, mapTxError(err)
	}

	logger.Info("Submitted createPoll tx %s", tx.Hash().Hex())
	return g.awaitReceipt(ctx, tx)
}

// awaitReceipt 等交易上链，回执失败视为合约回滚
func (g *EthGateway) awaitReceipt(ctx context.Context, tx *types.Transaction) (common.Hash, error) {
	receipt, err := g.contract.WaitMined(ctx, tx)
	if err != nil {
		return tx.Hash(), fmt.Errorf("%w: waiting for tx %s: %v", poll.ErrGatewayUnavailable, tx.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return tx.Hash(), fmt.Errorf("%w: tx %s", poll.ErrTransactionReverted, tx.Hash().Hex())
	}
	return tx.Hash(), nil
}

// statusMethod 状态标签到合约方法的映射
func statusMethod(target string) (string, error) {
	switch target {
	case poll.DeclaredStatusOpen:
		return "openPoll", nil
	case poll.DeclaredStatusFunding:
		return "forFunding", nil
	case poll.DeclaredStatusClaiming:
		return "forClaiming", nil
	case poll.DeclaredStatusClosed:
		return "closePoll", nil
	default:
		return "", fmt.Errorf("%w: unknown target status %q", poll.ErrInvalidParams, target)
	}
}

// mapTxError 把发送交易的错误映射到核心错误分类，保留回滚原因
func mapTxError(err error) error {
	if isRevert(err) {
		return fmt.Errorf("%w: %v", poll.ErrTransactionReverted, err)
	}
	return fmt.Errorf("%w: %v", poll.ErrGatewayUnavailable, err)
}

func isRevert(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "execution reverted") ||
		strings.Contains(err.Error(), "revert")
}

// createTuple 对应合约 createPoll 的参数结构，字段顺序和ABI保持一致
type createTuple struct {
	Creator            common.Address
	Subject            string
	Description        string
	Category           string
	ViewType           string
	Options            []string
	RewardPerResponse  *big.Int
	DurationDays       *big.Int
	MaxResponses       *big.Int
	MinContribution    *big.Int
	FundingType        string
	IsOpenImmediately  bool
	TargetFund         *big.Int
	RewardToken        common.Address
	RewardDistribution string
}

func toCreateTuple(p *poll.CreatePollParams) createTuple {
	return createTuple{
		Creator:            p.Creator,
		Subject:            p.Subject,
		Description:        p.Description,
		Category:           p.Category,
		ViewType:           p.ViewType,
		Options:            p.Options,
		RewardPerResponse:  p.RewardPerResponse,
		DurationDays:       big.NewInt(p.DurationDays),
		MaxResponses:       big.NewInt(p.MaxResponses),
		MinContribution:    p.MinContribution,
		FundingType:        p.FundingType,
		IsOpenImmediately:  p.IsOpenImmediately,
		TargetFund:         p.TargetFund,
		RewardToken:        p.RewardToken,
		RewardDistribution: p.RewardDistribution,
	}
}

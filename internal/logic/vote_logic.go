package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bpolls/bpolls-bapp/internal/gateway"
	"github.com/bpolls/bpolls-bapp/internal/logger"
	"github.com/bpolls/bpolls-bapp/internal/model"
	"github.com/bpolls/bpolls-bapp/internal/poll"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteStatus 某地址在某投票上的投票状态
type VoteStatus struct {
	HasVoted bool   `json:"hasVoted"`
	Option   string `json:"option,omitempty"`
	// Advisory 为真表示结果来自本地回退记录而非链上权威数据
	Advisory bool `json:"advisory"`
}

// VoteLogic 投票提交业务逻辑
type VoteLogic struct {
	db        *gorm.DB
	gw        gateway.PollGateway
	pollLogic *PollLogic
}

// NewVoteLogic 创建投票提交业务逻辑
func NewVoteLogic(db *gorm.DB, gw gateway.PollGateway) *VoteLogic {
	return &VoteLogic{
		db:        db,
		gw:        gw,
		pollLogic: NewPollLogic(db, gw),
	}
}

// GetVoteStatus 查询地址是否已投票
// 权威来源是链上响应列表；只有拉取失败时才看本地回退记录，并标记为参考值
func (l *VoteLogic) GetVoteStatus(ctx context.Context, pollID int64, addr common.Address) (*VoteStatus, error) {
	responses, err := l.gw.GetPollResponses(ctx, pollID)
	if err == nil {
		option, voted := poll.HasResponded(responses, addr)
		return &VoteStatus{HasVoted: voted, Option: option}, nil
	}

	if !servableFromCache(err) {
		return nil, err
	}

	logger.Warn("Response list unavailable for poll %d, falling back to local vote records: %v", pollID, err)

	var record model.VoteRecordModel
	dbErr := l.db.Where("poll_id = ? AND address = ?", pollID, addr.Hex()).First(&record).Error
	if dbErr == nil {
		return &VoteStatus{HasVoted: true, Option: record.Option, Advisory: true}, nil
	}
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return &VoteStatus{HasVoted: false, Advisory: true}, nil
	}
	return nil, fmt.Errorf("读取本地投票记录失败: %w", dbErr)
}

// SubmitVote 提交一票
// 先做本地资格预检避免白花gas；预检和上链之间没有锁，真正的排他靠合约保证，
// 回滚时把合约的拒绝原因原样交给调用方
func (l *VoteLogic) SubmitVote(ctx context.Context, pollID int64, conn poll.ConnectionContext, option string) (common.Hash, error) {
	p, err := l.pollLogic.RefreshPoll(ctx, pollID)
	if err != nil {
		return common.Hash{}, err
	}

	status, err := l.GetVoteStatus(ctx, pollID, conn.Address)
	if err != nil {
		return common.Hash{}, err
	}

	intent, err := poll.CanVote(p, conn, option, status.HasVoted, time.Now())
	if err != nil {
		return common.Hash{}, err
	}

	txHash, err := l.gw.SubmitResponse(ctx, intent.PollID, intent.Option, intent.Value)
	if err != nil {
		return txHash, err
	}

	// 上链成功后落一条本地回退记录，响应列表拉不下来时还能防重复提交
	record := &model.VoteRecordModel{
		PollId:  pollID,
		Address: conn.Address.Hex(),
		Option:  option,
		TxHash:  txHash.Hex(),
	}
	if err := l.db.Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error; err != nil {
		logger.Warn("Failed to save local vote record for poll %d: %v", pollID, err)
	}

	// 刷新快照让 totalResponses 跟上，失败不影响投票结果
	if _, err := l.pollLogic.RefreshPoll(ctx, pollID); err != nil {
		logger.Warn("Failed to refresh poll %d after vote: %v", pollID, err)
	}
	if _, err := l.pollLogic.RefreshResponses(ctx, pollID); err != nil {
		logger.Warn("Failed to refresh responses for poll %d after vote: %v", pollID, err)
	}

	logger.Info("Vote submitted: poll %d option %q by %s, tx %s", pollID, option, conn.Address.Hex(), txHash.Hex())
	return txHash, nil
}

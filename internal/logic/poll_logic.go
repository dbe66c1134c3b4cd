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

// PollView 对外展示的投票视图，带计算出的有效状态
type PollView struct {
	Poll            *poll.Poll  `json:"poll"`
	EffectiveStatus poll.Status `json:"effectiveStatus"`
	TimeRemaining   int64       `json:"timeRemainingSeconds"`
}

// PollLogic 投票业务逻辑
type PollLogic struct {
	db *gorm.DB
	gw gateway.PollGateway
}

// NewPollLogic 创建投票业务逻辑
func NewPollLogic(db *gorm.DB, gw gateway.PollGateway) *PollLogic {
	return &PollLogic{db: db, gw: gw}
}

// RefreshPoll 从链上拉取单个投票快照写入缓存
// 抓取序号在发起RPC前取好：晚发起的抓取序号更大，旧结果回来再晚也盖不掉新结果
func (l *PollLogic) RefreshPoll(ctx context.Context, pollID int64) (*poll.Poll, error) {
	fetchSeq := time.Now().UnixNano()

	p, err := l.gw.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	row, err := toPollModel(p, fetchSeq)
	if err != nil {
		return nil, err
	}

	// 已有更新的快照时放弃本次写入
	res := l.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "poll_id"}},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Lt{Column: clause.Column{Table: "poll", Name: "fetch_seq"}, Value: fetchSeq},
		}},
		UpdateAll: true,
	}).Create(row)
	if res.Error != nil {
		return nil, fmt.Errorf("缓存投票快照失败: %w", res.Error)
	}

	return p, nil
}

// RefreshResponses 从链上拉取响应列表写入缓存
func (l *PollLogic) RefreshResponses(ctx context.Context, pollID int64) ([]poll.PollResponse, error) {
	responses, err := l.gw.GetPollResponses(ctx, pollID)
	if err != nil {
		return nil, err
	}

	err = l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ?", pollID).Delete(&model.ResponseModel{}).Error; err != nil {
			return err
		}
		for i := range responses {
			if err := tx.Create(toResponseModel(pollID, &responses[i])).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("缓存响应列表失败: %w", err)
	}

	return responses, nil
}

// RefreshAll 全量同步所有投票快照
func (l *PollLogic) RefreshAll(ctx context.Context) (int, error) {
	ids, err := l.gw.GetAllPollIds(ctx)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, id := range ids {
		if _, err := l.RefreshPoll(ctx, id); err != nil {
			logger.Error("Failed to refresh poll %d: %v", id, err)
			continue
		}
		synced++
	}
	return synced, nil
}

// GetPoll 获取投票详情，优先链上，链不可用时退回缓存
func (l *PollLogic) GetPoll(ctx context.Context, pollID int64) (*PollView, error) {
	p, err := l.RefreshPoll(ctx, pollID)
	if err != nil {
		if !servableFromCache(err) {
			return nil, err
		}
		logger.Warn("Gateway unavailable, serving poll %d from cache: %v", pollID, err)
		p, err = l.cachedPoll(pollID)
		if err != nil {
			return nil, err
		}
	}

	return newPollView(p, time.Now()), nil
}

// ListPolls 投票列表，读缓存，有效状态读取时实时计算
func (l *PollLogic) ListPolls(statusFilter string, category string) ([]*PollView, error) {
	var rows []model.PollModel
	q := l.db.Order("poll_id DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("获取投票列表失败: %w", err)
	}

	now := time.Now()
	views := make([]*PollView, 0, len(rows))
	for i := range rows {
		p, err := fromPollModel(&rows[i])
		if err != nil {
			logger.Warn("Skipping corrupt cached poll %d: %v", rows[i].PollId, err)
			continue
		}
		v := newPollView(p, now)
		if statusFilter != "" && string(v.EffectiveStatus) != statusFilter {
			continue
		}
		views = append(views, v)
	}
	return views, nil
}

// GetResults 聚合投票结果
// 优先用链上最新响应；链不可用时退回缓存并继续服务
func (l *PollLogic) GetResults(ctx context.Context, pollID int64) (*poll.ResultSet, error) {
	view, err := l.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	responses, err := l.RefreshResponses(ctx, pollID)
	if err != nil {
		if !servableFromCache(err) {
			return nil, err
		}
		logger.Warn("Gateway unavailable, aggregating poll %d from cached responses", pollID)
		responses, err = l.cachedResponses(pollID)
		if err != nil {
			return nil, err
		}
	}

	return poll.Aggregate(view.Poll, responses), nil
}

// GetResponses 获取投票的响应记录，优先链上，链不可用时退回缓存
func (l *PollLogic) GetResponses(ctx context.Context, pollID int64) ([]poll.PollResponse, error) {
	responses, err := l.RefreshResponses(ctx, pollID)
	if err != nil {
		if !servableFromCache(err) {
			return nil, err
		}
		logger.Warn("Gateway unavailable, serving poll %d responses from cache", pollID)
		return l.cachedResponses(pollID)
	}
	return responses, nil
}

// servableFromCache 判断链上读取失败后能否退回缓存继续服务
// 网关不可用和合约未配置都走缓存，其余错误原样上抛
func servableFromCache(err error) bool {
	return errors.Is(err, poll.ErrGatewayUnavailable) || errors.Is(err, poll.ErrContractNotConfigured)
}

// CreatePoll 创建投票，返回交易哈希
func (l *PollLogic) CreatePoll(ctx context.Context, params *poll.CreatePollParams) (common.Hash, error) {
	txHash, err := l.gw.CreatePoll(ctx, params)
	if err != nil {
		return txHash, err
	}

	logger.Info("Poll created by %s, tx %s", params.Creator.Hex(), txHash.Hex())
	return txHash, nil
}

// ChangeStatus 状态变更，仅限创建者发起
// 合约才是权限的最终裁决者，这里的检查只是避免明显白费的交易
func (l *PollLogic) ChangeStatus(ctx context.Context, pollID int64, requester common.Address, target string) (common.Hash, error) {
	p, err := l.RefreshPoll(ctx, pollID)
	if err != nil {
		return common.Hash{}, err
	}

	if requester != p.Content.Creator {
		return common.Hash{}, fmt.Errorf("%w: %s is not the creator of poll %d", poll.ErrUnauthorized, requester.Hex(), pollID)
	}

	txHash, err := l.gw.ChangeStatus(ctx, pollID, target)
	if err != nil {
		return txHash, err
	}

	// 变更上链后刷新缓存，失败只记日志
	if _, err := l.RefreshPoll(ctx, pollID); err != nil {
		logger.Warn("Failed to refresh poll %d after status change: %v", pollID, err)
	}

	logger.Info("Poll %d status changed to %s, tx %s", pollID, target, txHash.Hex())
	return txHash, nil
}

// cachedPoll 读缓存快照
func (l *PollLogic) cachedPoll(pollID int64) (*poll.Poll, error) {
	var row model.PollModel
	if err := l.db.Where("poll_id = ?", pollID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: poll %d", poll.ErrPollNotFound, pollID)
		}
		return nil, fmt.Errorf("读取投票缓存失败: %w", err)
	}
	return fromPollModel(&row)
}

// cachedResponses 读缓存响应列表
func (l *PollLogic) cachedResponses(pollID int64) ([]poll.PollResponse, error) {
	var rows []model.ResponseModel
	if err := l.db.Where("poll_id = ?", pollID).Order("timestamp ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("读取响应缓存失败: %w", err)
	}

	responses := make([]poll.PollResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, fromResponseModel(&rows[i]))
	}
	return responses, nil
}

func newPollView(p *poll.Poll, now time.Time) *PollView {
	return &PollView{
		Poll:            p,
		EffectiveStatus: poll.EffectiveStatus(p, now),
		TimeRemaining:   int64(poll.TimeRemaining(p, now).Seconds()),
	}
}

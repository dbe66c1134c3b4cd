package logic

import (
	"fmt"
	"math/big"
	"time"

	"github.com/bpolls/bpolls-bapp/internal/logger"
	"github.com/bpolls/bpolls-bapp/internal/model"
	"github.com/bpolls/bpolls-bapp/internal/poll"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// CreatorStats 创建者仪表盘统计
type CreatorStats struct {
	TotalPolls     int    `json:"totalPolls"`
	ActivePolls    int    `json:"activePolls"`
	FundingPolls   int    `json:"fundingPolls"`
	ClosedPolls    int    `json:"closedPolls"` // closed/ended/full 合计
	TotalFunding   string `json:"totalFunding"`
	TotalResponses int64  `json:"totalResponses"`
}

// ResponderActivity 响应者的单条参与记录
type ResponderActivity struct {
	PollId    int64  `json:"pollId"`
	Subject   string `json:"subject"`
	Response  string `json:"response"`
	Reward    string `json:"reward"`
	Timestamp int64  `json:"timestamp"`
}

// ResponderStats 响应者仪表盘统计
type ResponderStats struct {
	TotalParticipated  int                 `json:"totalParticipated"`
	TotalRewardsEarned string              `json:"totalRewardsEarned"`
	RecentActivity     []ResponderActivity `json:"recentActivity"`
}

// StatsLogic 仪表盘统计业务逻辑，全部基于本地缓存计算
type StatsLogic struct {
	db *gorm.DB
}

// NewStatsLogic 创建统计业务逻辑
func NewStatsLogic(db *gorm.DB) *StatsLogic {
	return &StatsLogic{db: db}
}

// GetCreatorStats 按创建者地址统计
func (l *StatsLogic) GetCreatorStats(creator common.Address) (*CreatorStats, error) {
	var rows []model.PollModel
	if err := l.db.Where("creator = ?", creator.Hex()).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("获取创建者投票失败: %w", err)
	}

	now := time.Now()
	polls := make([]*poll.Poll, 0, len(rows))
	for i := range rows {
		p, err := fromPollModel(&rows[i])
		if err != nil {
			logger.Warn("Skipping corrupt cached poll %d: %v", rows[i].PollId, err)
			continue
		}
		polls = append(polls, p)
	}

	statusOf := func(p *poll.Poll) poll.Status { return poll.EffectiveStatus(p, now) }

	totalFunding := big.NewInt(0)
	var totalResponses int64
	for _, p := range polls {
		if p.Settings.Funds != nil {
			totalFunding.Add(totalFunding, p.Settings.Funds)
		}
		totalResponses += p.Settings.TotalResponses
	}

	return &CreatorStats{
		TotalPolls:   len(polls),
		ActivePolls:  lo.CountBy(polls, func(p *poll.Poll) bool { return statusOf(p) == poll.StatusActive }),
		FundingPolls: lo.CountBy(polls, func(p *poll.Poll) bool { return statusOf(p) == poll.StatusFunding }),
		ClosedPolls: lo.CountBy(polls, func(p *poll.Poll) bool {
			return statusOf(p).Terminal()
		}),
		TotalFunding:   totalFunding.String(),
		TotalResponses: totalResponses,
	}, nil
}

// GetResponderStats 按响应者地址统计
func (l *StatsLogic) GetResponderStats(responder common.Address) (*ResponderStats, error) {
	var rows []model.ResponseModel
	if err := l.db.Where("responder = ?", responder.Hex()).
		Order("timestamp DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("获取响应者记录失败: %w", err)
	}

	totalRewards := big.NewInt(0)
	for i := range rows {
		totalRewards.Add(totalRewards, stringBig(rows[i].Reward))
	}

	// 最近10条参与记录，补上投票主题
	recent := lo.Slice(rows, 0, 10)
	subjects := l.subjectsFor(lo.Map(recent, func(r model.ResponseModel, _ int) int64 { return r.PollId }))

	activity := lo.Map(recent, func(r model.ResponseModel, _ int) ResponderActivity {
		return ResponderActivity{
			PollId:    r.PollId,
			Subject:   subjects[r.PollId],
			Response:  r.Response,
			Reward:    r.Reward,
			Timestamp: r.Timestamp,
		}
	})

	return &ResponderStats{
		TotalParticipated:  len(rows),
		TotalRewardsEarned: totalRewards.String(),
		RecentActivity:     activity,
	}, nil
}

// subjectsFor 批量查投票主题
func (l *StatsLogic) subjectsFor(pollIDs []int64) map[int64]string {
	out := make(map[int64]string, len(pollIDs))
	if len(pollIDs) == 0 {
		return out
	}

	var rows []model.PollModel
	if err := l.db.Select("poll_id", "subject").Where("poll_id IN ?", lo.Uniq(pollIDs)).Find(&rows).Error; err != nil {
		logger.Warn("Failed to load poll subjects: %v", err)
		return out
	}
	for i := range rows {
		out[rows[i].PollId] = rows[i].Subject
	}
	return out
}

package scheduler

import (
	"context"
	"time"

	"github.com/bpolls/bpolls-bapp/internal/config"
	"github.com/bpolls/bpolls-bapp/internal/gateway"
	"github.com/bpolls/bpolls-bapp/internal/logger"
	"github.com/bpolls/bpolls-bapp/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// PollSyncJob 投票快照同步任务
// 周期性把链上全部投票拉进本地缓存，列表接口只读缓存不打链
type PollSyncJob struct {
	pollLogic *logic.PollLogic
	config    *config.Config
}

// NewPollSyncJob 创建快照同步任务
func NewPollSyncJob(db *gorm.DB, gw gateway.PollGateway, cfg *config.Config) *PollSyncJob {
	return &PollSyncJob{
		pollLogic: logic.NewPollLogic(db, gw),
		config:    cfg,
	}
}

// GetName 获取任务名称
func (j *PollSyncJob) GetName() string {
	return "poll_snapshot_sync"
}

// GetSchedule 获取调度配置
func (j *PollSyncJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *PollSyncJob) Execute() {
	interval := time.Duration(j.config.Task.Interval) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), interval)
	defer cancel()

	start := time.Now()
	synced, err := j.pollLogic.RefreshAll(ctx)
	if err != nil {
		logger.Error("Poll snapshot sync failed: %v", err)
		return
	}

	logger.Info("Poll snapshot sync completed: %d polls in %v", synced, time.Since(start))
}

package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/bpolls/bpolls-bapp/internal/chain"
	"github.com/bpolls/bpolls-bapp/internal/gateway"
	"github.com/bpolls/bpolls-bapp/internal/logger"
	"github.com/bpolls/bpolls-bapp/internal/logic"
	"github.com/bpolls/bpolls-bapp/internal/model"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	scanInterval  = time.Second * 60
	batchSize     = int64(500)
	batchPause    = time.Millisecond * 500
	maxBackoff    = time.Minute * 5
	eventPoolSize = 4
)

// EventMonitor 区块链事件监控器
// 扫描 polls 合约日志入库，并在投票相关事件到达时刷新本地快照缓存
type EventMonitor struct {
	chainManager  *chain.Manager
	contract      *chain.Contract
	db            *gorm.DB
	pollLogic     *logic.PollLogic
	pool          *ants.Pool
	startBlockNum int64
	ctx           context.Context
	cancel        context.CancelFunc
	retryCount    int
	mu            sync.RWMutex // 保护 startBlockNum 的并发访问
}

// NewEventMonitor 创建事件监控器
func NewEventMonitor(chainManager *chain.Manager, db *gorm.DB, gw gateway.PollGateway) (*EventMonitor, error) {
	contract, err := chainManager.GetContract(gateway.PollsContractName)
	if err != nil {
		return nil, fmt.Errorf("polls contract not available for monitoring: %w", err)
	}

	pool, err := ants.NewPool(eventPoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create event worker pool: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &EventMonitor{
		chainManager: chainManager,
		contract:     contract,
		db:           db,
		pollLogic:    logic.NewPollLogic(db, gw),
		pool:         pool,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

// Start 启动监控
func (m *EventMonitor) Start() error {
	logger.Info("Starting blockchain event monitor")

	currentBlock, err := m.contract.GetCurrentBlockNumber(m.ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to blockchain: %w", err)
	}
	logger.Info("Connected to blockchain, current block: %d", currentBlock)

	startBlock := m.resolveStartBlock()
	m.mu.Lock()
	m.startBlockNum = startBlock
	m.mu.Unlock()

	logger.Info("Starting monitor from block %d", startBlock)

	go m.loop()
	return nil
}

// Stop 停止监控
func (m *EventMonitor) Stop() {
	logger.Info("Stopping blockchain event monitor")
	m.cancel()
	m.pool.Release()
}

// loop 监控循环
func (m *EventMonitor) loop() {
	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			logger.Info("Monitor stopped")
			return
		case <-ticker.C:
			currentBlock, err := m.contract.GetCurrentBlockNumber(m.ctx)
			if err != nil {
				logger.Error("Failed to get current block number: %v", err)
				m.backoff(err)
				continue
			}

			from := m.getStartBlockNum()
			if from > currentBlock {
				continue
			}

			if err := m.processBlocksInBatches(from, currentBlock); err != nil {
				logger.Error("Error processing blocks: %v", err)
				m.backoff(err)
				continue
			}
			m.retryCount = 0
		}
	}
}

// processBlocksInBatches 分批处理区块，每批成功后推进起始区块号
func (m *EventMonitor) processBlocksInBatches(fromBlock, toBlock int64) error {
	for currentFrom := fromBlock; currentFrom <= toBlock; currentFrom += batchSize {
		currentTo := currentFrom + batchSize - 1
		if currentTo > toBlock {
			currentTo = toBlock
		}

		if err := m.processBatch(currentFrom, currentTo); err != nil {
			if isRateLimitError(err) {
				return err
			}
			logger.Error("Error processing blocks %d-%d: %v", currentFrom, currentTo, err)
			continue
		}

		m.updateStartBlockNum(currentTo + 1)

		// RPC节点有速率限制，批次之间稍作停顿
		time.Sleep(batchPause)
	}
	return nil
}

// processBatch 处理单个区块批次
func (m *EventMonitor) processBatch(fromBlock, toBlock int64) error {
	logs, err := m.contract.GetBlockLogs(m.ctx, fromBlock, toBlock)
	if err != nil {
		return fmt.Errorf("error getting logs for blocks %d-%d: %w", fromBlock, toBlock, err)
	}
	if len(logs) == 0 {
		return nil
	}

	logger.Debug("Found %d logs for blocks %d-%d", len(logs), fromBlock, toBlock)

	var wg sync.WaitGroup
	for i := range logs {
		log := logs[i]
		wg.Add(1)
		err := m.pool.Submit(func() {
			defer wg.Done()
			m.processLog(log)
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit log task to pool: %v", err)
		}
	}
	wg.Wait()

	return nil
}

// processLog 解析并处理单条日志
func (m *EventMonitor) processLog(log types.Log) {
	eventData, err := m.contract.ParseEvent(log)
	if err != nil {
		logger.Error("Error parsing event at block %d: %v", log.BlockNumber, err)
		return
	}

	event, err := newEventRecord(m.contract, log, eventData)
	if err != nil {
		logger.Error("Failed to build event record at block %d: %v", log.BlockNumber, err)
		return
	}

	// 重放同一区块范围时靠唯一索引去重
	res := m.db.Clauses(clause.OnConflict{DoNothing: true}).Create(event)
	if res.Error != nil {
		logger.Error("Failed to save event %s: %v", event.EventType, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		return
	}

	m.refreshCacheFor(event.EventType, event.PollId)
	logger.Info("Processed %s event for poll %d at block %d", event.EventType, event.PollId, log.BlockNumber)
}

// newEventRecord 把解析出的事件数据转成事件记录行
// 解析器把事件名放在 eventType 键下
func newEventRecord(contract *chain.Contract, log types.Log, eventData map[string]interface{}) (*model.EventModel, error) {
	dataJSON, err := json.Marshal(eventData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	eventType, _ := eventData["eventType"].(string)
	return &model.EventModel{
		ContractAddress: contract.GetAddress().Hex(),
		ContractName:    contract.GetName(),
		EventType:       eventType,
		PollId:          eventPollID(eventData),
		TxHash:          log.TxHash.Hex(),
		BlockNum:        int64(log.BlockNumber),
		LogIndex:        int64(log.Index),
		Data:            string(dataJSON),
		Processed:       true,
	}, nil
}

// refreshScope 事件触发的缓存刷新范围
type refreshScope struct {
	poll      bool
	responses bool
}

// refreshScopeFor 事件类型到刷新范围的映射，未知事件不刷新
func refreshScopeFor(eventType string) refreshScope {
	switch eventType {
	case "PollCreated", "PollStatusChanged":
		return refreshScope{poll: true}
	case "ResponseSubmitted":
		return refreshScope{poll: true, responses: true}
	default:
		return refreshScope{}
	}
}

// refreshCacheFor 按事件类型刷新缓存
func (m *EventMonitor) refreshCacheFor(eventType string, pollID int64) {
	scope := refreshScopeFor(eventType)
	if pollID < 0 || scope == (refreshScope{}) {
		return
	}

	ctx, cancel := context.WithTimeout(m.ctx, time.Second*30)
	defer cancel()

	if scope.poll {
		if _, err := m.pollLogic.RefreshPoll(ctx, pollID); err != nil {
			logger.Warn("Failed to refresh poll %d after %s: %v", pollID, eventType, err)
		}
	}
	if scope.responses {
		if _, err := m.pollLogic.RefreshResponses(ctx, pollID); err != nil {
			logger.Warn("Failed to refresh responses for poll %d after %s: %v", pollID, eventType, err)
		}
	}
}

// resolveStartBlock 起始区块取合约部署区块和已处理最大区块中的较大者
func (m *EventMonitor) resolveStartBlock() int64 {
	deployBlock := m.contract.GetBlockNum()

	var maxProcessed int64
	err := m.db.Model(&model.EventModel{}).
		Select("COALESCE(MAX(block_num), 0)").
		Scan(&maxProcessed).Error
	if err != nil {
		logger.Error("Failed to get max processed block number: %v", err)
		return deployBlock
	}

	if maxProcessed > deployBlock {
		return maxProcessed + 1
	}
	return deployBlock
}

// getStartBlockNum 读当前起始区块号
func (m *EventMonitor) getStartBlockNum() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startBlockNum
}

// updateStartBlockNum 更新起始区块号
func (m *EventMonitor) updateStartBlockNum(blockNum int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startBlockNum = blockNum
}

// backoff 出错后指数退避，避免反复打挂掉的节点
func (m *EventMonitor) backoff(err error) {
	m.retryCount++
	d := time.Duration(m.retryCount) * time.Second * 10
	if d > maxBackoff {
		d = maxBackoff
	}
	logger.Error("Monitor encountered error (retry %d, backing off %v): %v", m.retryCount, d, err)

	select {
	case <-m.ctx.Done():
	case <-time.After(d):
	}
}

// GetStatus 获取监控状态
func (m *EventMonitor) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"start_block": m.getStartBlockNum(),
		"contract":    m.contract.GetAddress().Hex(),
		"pool": map[string]interface{}{
			"running": m.pool.Running(),
			"free":    m.pool.Free(),
			"cap":     m.pool.Cap(),
		},
		"chain_info": m.chainManager.GetHealthStatus(),
	}
}

// eventPollID 从事件数据里取 pollId，取不到返回 -1
func eventPollID(eventData map[string]interface{}) int64 {
	v, ok := eventData["pollId"]
	if !ok {
		return -1
	}
	switch n := v.(type) {
	case *big.Int:
		return n.Int64()
	case int64:
		return n
	case uint64:
		return int64(n)
	default:
		return -1
	}
}

// isRateLimitError 检查是否为节点限流错误
func isRateLimitError(err error) bool {
	return strings.Contains(err.Error(), "Too Many Requests")
}

package main

import (
	"log"

	"github.com/bpolls/bpolls-bapp/internal/chain"
	"github.com/bpolls/bpolls-bapp/internal/config"
	"github.com/bpolls/bpolls-bapp/internal/database"
	"github.com/bpolls/bpolls-bapp/internal/gateway"
	"github.com/bpolls/bpolls-bapp/internal/logger"
	"github.com/bpolls/bpolls-bapp/internal/monitor"
	"github.com/bpolls/bpolls-bapp/internal/router"
	"github.com/bpolls/bpolls-bapp/internal/scheduler"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if err := setupLogger(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化链管理器
	chainManager, err := chain.NewManager(cfg.Chain)
	if err != nil {
		logger.Fatal("Failed to initialize chain manager: %v", err)
	}
	defer chainManager.Close()

	// 初始化投票网关，合约未配置时降级为只读缓存模式
	var pollGateway gateway.PollGateway
	_, configured := cfg.Chain.PollsContract()
	if configured {
		gw, err := gateway.NewEthGateway(chainManager)
		if err != nil {
			logger.Fatal("Failed to initialize poll gateway: %v", err)
		}
		pollGateway = gw
	} else {
		logger.Warn("Polls contract not configured, running in degraded read-only mode")
		pollGateway = gateway.Unconfigured()
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, chainManager, pollGateway)

	// 合约配置齐全时才启动同步任务和事件监控
	if configured {
		taskManager, err := scheduler.Start(db, pollGateway, cfg)
		if err != nil {
			logger.Fatal("Failed to start task manager: %v", err)
		}
		defer taskManager.Stop()

		eventMonitor, err := monitor.NewEventMonitor(chainManager, db, pollGateway)
		if err != nil {
			logger.Fatal("Failed to create event monitor: %v", err)
		}
		if err := eventMonitor.Start(); err != nil {
			logger.Fatal("Failed to start event monitor: %v", err)
		}
		defer eventMonitor.Stop()
	}

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

// setupLogger 按配置初始化全局日志器
func setupLogger(cfg config.LogConfig) error {
	level := logger.ParseLogLevel(cfg.Level)

	var l *logger.Logger
	var err error
	if cfg.Output == "file" {
		l, err = logger.NewWithFileRotation(level, cfg.File)
	} else {
		l, err = logger.New(level)
	}
	if err != nil {
		return err
	}

	logger.SetDefaultLogger(l)
	return nil
}

package router

import (
	"github.com/bpolls/bpolls-bapp/internal/chain"
	"github.com/bpolls/bpolls-bapp/internal/gateway"
	"github.com/bpolls/bpolls-bapp/internal/handler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, chainManager *chain.Manager, gw gateway.PollGateway) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{
			"status":  "ok",
			"service": "bpolls-service",
			"chain":   chainManager.GetHealthStatus(),
		}
		// 合约未配置时服务降级为只读缓存模式
		if _, err := chainManager.GetContract(gateway.PollsContractName); err != nil {
			status["status"] = "degraded"
		}
		c.JSON(200, status)
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 投票相关路由
		pollHandler := handler.NewPollHandler(db, gw)
		voteHandler := handler.NewVoteHandler(db, gw)
		polls := v1.Group("/polls")
		{
			polls.POST("", pollHandler.CreatePoll)
			polls.GET("", pollHandler.GetPolls)
			polls.GET("/:id", pollHandler.GetPoll)
			polls.GET("/:id/responses", pollHandler.GetPollResponses)
			polls.GET("/:id/results", pollHandler.GetPollResults)
			polls.PUT("/:id/status", pollHandler.ChangeStatus)
			polls.POST("/:id/vote", voteHandler.SubmitVote)
			polls.GET("/:id/vote-status", voteHandler.GetVoteStatus)
		}

		// 统计相关路由
		statsHandler := handler.NewStatsHandler(db)
		stats := v1.Group("/stats")
		{
			stats.GET("/creator/:address", statsHandler.GetCreatorStats)
			stats.GET("/responder/:address", statsHandler.GetResponderStats)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

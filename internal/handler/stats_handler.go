package handler

import (
	"net/http"

	"github.com/bpolls/bpolls-bapp/internal/logic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StatsHandler struct {
	statsLogic *logic.StatsLogic
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{
		statsLogic: logic.NewStatsLogic(db),
	}
}

// GetCreatorStats 获取创建者仪表盘统计
func (h *StatsHandler) GetCreatorStats(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		ErrorResponse(c, http.StatusBadRequest, "无效的钱包地址")
		return
	}

	stats, err := h.statsLogic.GetCreatorStats(common.HexToAddress(address))
	if err != nil {
		FailByError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取创建者统计成功", stats)
}

// GetResponderStats 获取响应者仪表盘统计
func (h *StatsHandler) GetResponderStats(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		ErrorResponse(c, http.StatusBadRequest, "无效的钱包地址")
		return
	}

	stats, err := h.statsLogic.GetResponderStats(common.HexToAddress(address))
	if err != nil {
		FailByError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取响应者统计成功", stats)
}

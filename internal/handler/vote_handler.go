package handler

import (
	"net/http"

	"github.com/bpolls/bpolls-bapp/internal/gateway"
	"github.com/bpolls/bpolls-bapp/internal/logic"
	"github.com/bpolls/bpolls-bapp/internal/poll"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VoteHandler struct {
	voteLogic *logic.VoteLogic
}

func NewVoteHandler(db *gorm.DB, gw gateway.PollGateway) *VoteHandler {
	return &VoteHandler{
		voteLogic: logic.NewVoteLogic(db, gw),
	}
}

// SubmitVote 提交投票
func (h *VoteHandler) SubmitVote(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !common.IsHexAddress(req.Address) {
		ErrorResponse(c, http.StatusBadRequest, "无效的钱包地址")
		return
	}

	conn := poll.ConnectionContext{
		Address: common.HexToAddress(req.Address),
		ChainID: req.ChainId,
	}

	txHash, err := h.voteLogic.SubmitVote(c.Request.Context(), pollID, conn, req.Option)
	if err != nil {
		FailByError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "投票交易已提交", TxResponse{TxHash: txHash.Hex()})
}

// GetVoteStatus 查询某地址在某投票上是否已投票
func (h *VoteHandler) GetVoteStatus(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	address := c.Query("address")
	if !common.IsHexAddress(address) {
		ErrorResponse(c, http.StatusBadRequest, "无效的钱包地址")
		return
	}

	status, err := h.voteLogic.GetVoteStatus(c.Request.Context(), pollID, common.HexToAddress(address))
	if err != nil {
		FailByError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取投票状态成功", status)
}

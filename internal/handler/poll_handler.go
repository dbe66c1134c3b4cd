package handler

import (
	"net/http"
	"strconv"

	"github.com/bpolls/bpolls-bapp/internal/gateway"
	"github.com/bpolls/bpolls-bapp/internal/logic"
	"github.com/bpolls/bpolls-bapp/internal/poll"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PollHandler struct {
	pollLogic *logic.PollLogic
}

func NewPollHandler(db *gorm.DB, gw gateway.PollGateway) *PollHandler {
	return &PollHandler{
		pollLogic: logic.NewPollLogic(db, gw),
	}
}

// GetPolls 获取投票列表
func (h *PollHandler) GetPolls(c *gin.Context) {
	// 状态过滤按计算出的有效状态，不按合约声明的标签
	status := c.Query("status")
	category := c.Query("category")

	views, err := h.pollLogic.ListPolls(status, category)
	if err != nil {
		FailByError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取投票列表成功", GetPollsResponse{
		Polls: ToPollResponseList(views),
		Total: len(views),
	})
}

// GetPoll 获取单个投票详情
func (h *PollHandler) GetPoll(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	view, err := h.pollLogic.GetPoll(c.Request.Context(), pollID)
	if err != nil {
		FailByError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取投票详情成功", ToPollResponse(view))
}

// GetPollResponses 获取投票的响应记录
func (h *PollHandler) GetPollResponses(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	responses, err := h.pollLogic.GetResponses(c.Request.Context(), pollID)
	if err != nil {
		FailByError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取响应记录成功", GetResponsesResponse{
		PollId:    pollID,
		Responses: ToPollResponseItemList(responses),
		Total:     len(responses),
	})
}

// GetPollResults 获取投票聚合结果
func (h *PollHandler) GetPollResults(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	results, err := h.pollLogic.GetResults(c.Request.Context(), pollID)
	if err != nil {
		FailByError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取投票结果成功", results)
}

// CreatePoll 创建投票
func (h *PollHandler) CreatePoll(c *gin.Context) {
	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	params, err := toCreatePollParams(&req)
	if err != nil {
		FailByError(c, err)
		return
	}

	txHash, err := h.pollLogic.CreatePoll(c.Request.Context(), params)
	if err != nil {
		FailByError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "投票创建交易已提交", TxResponse{TxHash: txHash.Hex()})
}

// ChangeStatus 变更投票状态，仅限创建者
func (h *PollHandler) ChangeStatus(c *gin.Context) {
	pollID, ok := parsePollID(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !common.IsHexAddress(req.Address) {
		ErrorResponse(c, http.StatusBadRequest, "无效的钱包地址")
		return
	}

	txHash, err := h.pollLogic.ChangeStatus(c.Request.Context(), pollID, common.HexToAddress(req.Address), req.Target)
	if err != nil {
		FailByError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "状态变更交易已提交", TxResponse{TxHash: txHash.Hex()})
}

// parsePollID 解析路径里的投票ID
func parsePollID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		ErrorResponse(c, http.StatusBadRequest, "无效的投票ID")
		return 0, false
	}
	return id, true
}

// toCreatePollParams 把请求转换为创建参数，金额按展示单位解析
func toCreatePollParams(req *CreatePollRequest) (*poll.CreatePollParams, error) {
	if !common.IsHexAddress(req.Creator) {
		return nil, poll.ErrWalletNotConnected
	}

	reward, err := poll.ParseAmount(req.RewardPerResponse, poll.NativeDecimals)
	if err != nil {
		return nil, err
	}
	minContribution, err := poll.ParseAmount(req.MinContribution, poll.NativeDecimals)
	if err != nil {
		return nil, err
	}

	rewardToken := common.Address{}
	if req.RewardToken != "" {
		if !common.IsHexAddress(req.RewardToken) {
			return nil, poll.ErrInvalidParams
		}
		rewardToken = common.HexToAddress(req.RewardToken)
	}

	viewType := req.ViewType
	if viewType == "" {
		viewType = poll.ViewTypePublic
	}
	distribution := req.RewardDistribution
	if distribution == "" {
		distribution = poll.RewardDistributionEqual
	}

	return &poll.CreatePollParams{
		Creator:            common.HexToAddress(req.Creator),
		Subject:            req.Subject,
		Description:        req.Description,
		Category:           req.Category,
		ViewType:           viewType,
		Options:            req.Options,
		RewardPerResponse:  reward,
		DurationDays:       req.DurationDays,
		MaxResponses:       req.MaxResponses,
		MinContribution:    minContribution,
		FundingType:        req.FundingType,
		IsOpenImmediately:  req.IsOpenImmediately,
		TargetFund:         poll.TargetFund(reward, req.MaxResponses),
		RewardToken:        rewardToken,
		RewardDistribution: distribution,
	}, nil
}

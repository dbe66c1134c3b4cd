package handler

import (
	"errors"
	"math/big"
	"net/http"

	"github.com/bpolls/bpolls-bapp/internal/poll"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// FailByError 按业务错误选择HTTP状态码返回
func FailByError(c *gin.Context, err error) {
	ErrorResponse(c, statusCodeFor(err), err.Error())
}

// statusCodeFor 业务错误到HTTP状态码的映射
func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, poll.ErrPollNotFound):
		return http.StatusNotFound
	case errors.Is(err, poll.ErrWalletNotConnected):
		return http.StatusUnauthorized
	case errors.Is(err, poll.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, poll.ErrPollNotAccepting),
		errors.Is(err, poll.ErrAlreadyVoted):
		return http.StatusConflict
	case errors.Is(err, poll.ErrInvalidOption),
		errors.Is(err, poll.ErrInvalidParams),
		errors.Is(err, poll.ErrInvalidAmount),
		errors.Is(err, poll.ErrInsufficientValue),
		errors.Is(err, poll.ErrMalformedPoll):
		return http.StatusBadRequest
	case errors.Is(err, poll.ErrTransactionReverted):
		return http.StatusBadGateway
	case errors.Is(err, poll.ErrGatewayUnavailable),
		errors.Is(err, poll.ErrContractNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// bigText 大整数转十进制字符串，nil按0处理
func bigText(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

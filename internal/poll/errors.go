package poll

import "errors"

// 核心错误定义，外层统一用 errors.Is 判断
var (
	// ErrInvalidAmount 金额字符串格式非法
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrMalformedPoll 链上返回的投票数据缺字段或选项不足
	ErrMalformedPoll = errors.New("malformed poll")
	// ErrPollNotFound 投票不存在
	ErrPollNotFound = errors.New("poll not found")
	// ErrWalletNotConnected 未连接钱包
	ErrWalletNotConnected = errors.New("wallet not connected")
	// ErrPollNotAccepting 投票当前不接受响应
	ErrPollNotAccepting = errors.New("poll not accepting responses")
	// ErrInvalidOption 所选选项不在投票选项列表中
	ErrInvalidOption = errors.New("invalid option")
	// ErrAlreadyVoted 该地址已经投过票
	ErrAlreadyVoted = errors.New("already voted")
	// ErrInsufficientValue 携带金额低于最小贡献
	ErrInsufficientValue = errors.New("insufficient contribution value")
	// ErrUnauthorized 非创建者或管理员发起状态变更
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTransactionReverted 交易被合约回滚
	ErrTransactionReverted = errors.New("transaction reverted")
	// ErrGatewayUnavailable RPC 不可用或超时
	ErrGatewayUnavailable = errors.New("gateway unavailable")
	// ErrContractNotConfigured 合约地址未配置
	ErrContractNotConfigured = errors.New("contract not configured")
	// ErrInvalidParams 创建投票参数非法
	ErrInvalidParams = errors.New("invalid poll params")
)

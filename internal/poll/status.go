package poll

import "time"

// Status 结合当前时间计算出的有效状态，永远不落库
type Status string

const (
	StatusClosed  Status = "closed"  // 管理员关闭，isOpen=false
	StatusEnded   Status = "ended"   // 到达截止时间
	StatusFull    Status = "full"    // 响应数达到上限
	StatusFunding Status = "funding" // 募资阶段，可看不可投
	StatusActive  Status = "active"  // 接受投票
)

// 合约声明的状态标签
const (
	DeclaredStatusOpen     = "open"
	DeclaredStatusFunding  = "funding"
	DeclaredStatusClaiming = "claiming"
	DeclaredStatusClosed   = "closed"
)

// EffectiveStatus 从快照和当前时间推导有效状态
// 判定自上而下，先命中先生效：isOpen=false 永远压过时间和响应数，
// 其次是时间过期，再是响应数满额，最后才看合约声明的子状态
func EffectiveStatus(p *Poll, now time.Time) Status {
	if !p.Content.IsOpen {
		return StatusClosed
	}
	if now.Unix() >= p.Settings.EndTime {
		return StatusEnded
	}
	if p.Settings.MaxResponses > 0 && p.Settings.TotalResponses >= p.Settings.MaxResponses {
		return StatusFull
	}
	if p.Content.Status == DeclaredStatusFunding {
		return StatusFunding
	}
	return StatusActive
}

// AcceptsVotes 只有 active 状态接受投票
func (s Status) AcceptsVotes() bool {
	return s == StatusActive
}

// Terminal closed/ended/full 对投票而言是终态，除非重新抓取到管理员交易后的新快照
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusEnded || s == StatusFull
}

// TimeRemaining 距截止时间的剩余时长，已结束返回0
func TimeRemaining(p *Poll, now time.Time) time.Duration {
	end := time.Unix(p.Settings.EndTime, 0)
	if !now.Before(end) {
		return 0
	}
	return end.Sub(now)
}

// CreatedAt 由截止时间和持续天数反推创建时间，仅用于展示
func CreatedAt(p *Poll) time.Time {
	return time.Unix(p.Settings.EndTime, 0).AddDate(0, 0, -int(p.Settings.DurationDays))
}

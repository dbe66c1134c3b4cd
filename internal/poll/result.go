package poll

// OptionResult 单个选项的统计结果
type OptionResult struct {
	Option     string  `json:"option"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// ResultSet 一次投票的聚合结果
// Options 保持投票声明的选项顺序，不按票数排序
// Leading 是并列最高票的完整集合，平票时不静默取第一个
type ResultSet struct {
	PollID            int64          `json:"pollId"`
	Options           []OptionResult `json:"options"`
	TotalVotes        int            `json:"totalVotes"`
	Leading           []string       `json:"leading"`
	ParticipationRate float64        `json:"participationRate"`
}

// Aggregate 按选项聚合响应
// 响应和选项做精确字符串匹配，与合约侧的比较语义一致；
// 不属于任何选项的响应不计入任何桶，但计入总响应数
func Aggregate(p *Poll, responses []PollResponse) *ResultSet {
	counts := make(map[string]int, len(p.Content.Options))
	for _, r := range responses {
		counts[r.Response]++
	}

	total := len(responses)
	denom := total
	if denom < 1 {
		denom = 1
	}

	rs := &ResultSet{
		PollID:     p.ID,
		Options:    make([]OptionResult, 0, len(p.Content.Options)),
		TotalVotes: total,
	}

	maxVotes := 0
	for _, opt := range p.Content.Options {
		votes := counts[opt]
		rs.Options = append(rs.Options, OptionResult{
			Option:     opt,
			Votes:      votes,
			Percentage: float64(votes) / float64(denom) * 100,
		})
		if votes > maxVotes {
			maxVotes = votes
		}
	}

	// 没有任何票时不存在领先选项
	if maxVotes > 0 {
		for _, opt := range rs.Options {
			if opt.Votes == maxVotes {
				rs.Leading = append(rs.Leading, opt.Option)
			}
		}
	}

	maxResponses := p.Settings.MaxResponses
	if maxResponses < 1 {
		maxResponses = 1
	}
	rs.ParticipationRate = float64(total) / float64(maxResponses) * 100

	return rs
}

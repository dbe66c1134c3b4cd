package poll

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func addr(s string) common.Address {
	return common.HexToAddress(s)
}

func connected() ConnectionContext {
	return ConnectionContext{
		Address: addr("0x2222222222222222222222222222222222222222"),
		ChainID: 5115,
	}
}

func TestCanVote(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		mutate   func(*Poll)
		conn     ConnectionContext
		option   string
		hasVoted bool
		wantErr  error
	}{
		{"valid vote", func(p *Poll) {}, connected(), "B", false, nil},
		{"no wallet", func(p *Poll) {}, ConnectionContext{}, "B", false, ErrWalletNotConnected},
		{"closed poll", func(p *Poll) { p.Content.IsOpen = false }, connected(), "B", false, ErrPollNotAccepting},
		{"ended poll", func(p *Poll) { p.Settings.EndTime = now.Add(-time.Hour).Unix() }, connected(), "B", false, ErrPollNotAccepting},
		{"full poll", func(p *Poll) { p.Settings.TotalResponses = p.Settings.MaxResponses }, connected(), "B", false, ErrPollNotAccepting},
		{"funding phase excludes voting", func(p *Poll) { p.Content.Status = DeclaredStatusFunding }, connected(), "B", false, ErrPollNotAccepting},
		{"unknown option", func(p *Poll) {}, connected(), "not-an-option", false, ErrInvalidOption},
		{"case mismatch is unknown option", func(p *Poll) {}, connected(), "b", false, ErrInvalidOption},
		{"already voted", func(p *Poll) {}, connected(), "B", true, ErrAlreadyVoted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPoll()
			tt.mutate(p)
			intent, err := CanVote(p, tt.conn, tt.option, tt.hasVoted, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CanVote error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CanVote unexpected error: %v", err)
			}
			if intent.PollID != p.ID || intent.Option != tt.option {
				t.Errorf("intent = %+v, want poll %d option %q", intent, p.ID, tt.option)
			}
			if intent.Value.Cmp(p.Settings.MinContribution) != 0 {
				t.Errorf("intent value = %s, want minContribution %s", intent.Value, p.Settings.MinContribution)
			}
		})
	}
}

// 检查顺序：钱包 -> 状态 -> 选项 -> 重复投票
func TestCanVoteCheckOrder(t *testing.T) {
	now := time.Now()
	p := testPoll()
	p.Content.IsOpen = false

	// 钱包未连接时，即使状态也不对，报的必须是钱包错误
	if _, err := CanVote(p, ConnectionContext{}, "nope", true, now); !errors.Is(err, ErrWalletNotConnected) {
		t.Errorf("got %v, want ErrWalletNotConnected first", err)
	}

	// 状态不对时，选项错误还轮不到报告
	if _, err := CanVote(p, connected(), "nope", true, now); !errors.Is(err, ErrPollNotAccepting) {
		t.Errorf("got %v, want ErrPollNotAccepting before option check", err)
	}
}

func TestCanVoteNilMinContribution(t *testing.T) {
	p := testPoll()
	p.Settings.MinContribution = nil

	intent, err := CanVote(p, connected(), "A", false, time.Now())
	if err != nil {
		t.Fatalf("CanVote: %v", err)
	}
	if intent.Value.Sign() != 0 {
		t.Errorf("intent value = %s, want 0", intent.Value)
	}
}

func TestHasResponded(t *testing.T) {
	voter := addr("0x3333333333333333333333333333333333333333")
	responses := []PollResponse{
		{Responder: addr("0x4444444444444444444444444444444444444444"), Response: "A"},
		{Responder: voter, Response: "B"},
	}

	if opt, ok := HasResponded(responses, voter); !ok || opt != "B" {
		t.Errorf("HasResponded = (%q, %v), want (B, true)", opt, ok)
	}
	if _, ok := HasResponded(responses, addr("0x5555555555555555555555555555555555555555")); ok {
		t.Error("HasResponded reported a vote for an address that never voted")
	}
	if _, ok := HasResponded(nil, voter); ok {
		t.Error("HasResponded on empty set must be false")
	}
}

func TestCreatePollParamsValidate(t *testing.T) {
	valid := func() *CreatePollParams {
		reward := big.NewInt(1000)
		return &CreatePollParams{
			Creator:            addr("0x1111111111111111111111111111111111111111"),
			Subject:            "Favorite L2",
			ViewType:           ViewTypePublic,
			Options:            []string{"A", "B"},
			RewardPerResponse:  reward,
			DurationDays:       7,
			MaxResponses:       10,
			MinContribution:    big.NewInt(1),
			FundingType:        FundingTypeCrowd,
			TargetFund:         TargetFund(reward, 10),
			RewardDistribution: RewardDistributionEqual,
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*CreatePollParams)
	}{
		{"empty subject", func(p *CreatePollParams) { p.Subject = "" }},
		{"single option", func(p *CreatePollParams) { p.Options = []string{"A"} }},
		{"blank options do not count", func(p *CreatePollParams) { p.Options = []string{"A", "", ""} }},
		{"zero max responses", func(p *CreatePollParams) { p.MaxResponses = 0 }},
		{"zero duration", func(p *CreatePollParams) { p.DurationDays = 0 }},
		{"zero min contribution", func(p *CreatePollParams) { p.MinContribution = big.NewInt(0) }},
		{"nil min contribution", func(p *CreatePollParams) { p.MinContribution = nil }},
		{"target fund mismatch", func(p *CreatePollParams) { p.TargetFund = big.NewInt(1) }},
		{"nil target fund", func(p *CreatePollParams) { p.TargetFund = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Validate() = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestCreatePollParamsTxValue(t *testing.T) {
	p := &CreatePollParams{TargetFund: big.NewInt(500), IsOpenImmediately: true}
	if got := p.TxValue(); got.Cmp(big.NewInt(500)) != 0 {
		t.Errorf("TxValue with immediate open = %s, want 500", got)
	}

	p.IsOpenImmediately = false
	if got := p.TxValue(); got.Sign() != 0 {
		t.Errorf("TxValue without immediate open = %s, want 0", got)
	}
}

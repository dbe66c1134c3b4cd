package gateway

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/bpolls/bpolls-bapp/internal/poll"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// rawPollTuple 模拟 ABI 解包 getPoll 得到的匿名结构体
type rawPollTuple struct {
	Creator            common.Address
	Subject            string
	Description        string
	Category           string
	Status             string
	ViewType           string
	Options            []string
	RewardPerResponse  *big.Int
	MaxResponses       *big.Int
	DurationDays       *big.Int
	MinContribution    *big.Int
	FundingType        string
	TargetFund         *big.Int
	EndTime            *big.Int
	IsOpen             bool
	TotalResponses     *big.Int
	Funds              *big.Int
	RewardToken        common.Address
	RewardDistribution string
}

type rawResponseTuple struct {
	Responder common.Address
	Response  string
	Weight    *big.Int
	Timestamp *big.Int
	IsClaimed bool
	Reward    *big.Int
}

func validTuple() rawPollTuple {
	return rawPollTuple{
		Creator:            common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Subject:            "Favorite L2",
		Description:        "pick one",
		Category:           "Technology",
		Status:             "open",
		ViewType:           "public",
		Options:            []string{"A", "B"},
		RewardPerResponse:  big.NewInt(1000),
		MaxResponses:       big.NewInt(10),
		DurationDays:       big.NewInt(7),
		MinContribution:    big.NewInt(100),
		FundingType:        "crowdfunded",
		TargetFund:         big.NewInt(10000),
		EndTime:            big.NewInt(1790000000),
		IsOpen:             true,
		TotalResponses:     big.NewInt(0),
		Funds:              big.NewInt(0),
		RewardToken:        common.Address{},
		RewardDistribution: "equal",
	}
}

// fakeContract 可编程的合约桩
type fakeContract struct {
	callResult  []interface{}
	callErr     error
	lastMethod  string
	lastArgs    []interface{}
	txErr       error
	receiptFail bool
}

func (f *fakeContract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	f.lastMethod = method
	f.lastArgs = args
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.callResult, nil
}

func (f *fakeContract) Transact(opts *bind.TransactOpts, method string, args ...interface{}) (*types.Transaction, error) {
	f.lastMethod = method
	f.lastArgs = args
	if f.txErr != nil {
		return nil, f.txErr
	}
	return types.NewTx(&types.LegacyTx{Nonce: 1}), nil
}

func (f *fakeContract) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	status := types.ReceiptStatusSuccessful
	if f.receiptFail {
		status = types.ReceiptStatusFailed
	}
	return &types.Receipt{Status: status}, nil
}

func (f *fakeContract) GetAddress() common.Address {
	return common.HexToAddress("0x9999999999999999999999999999999999999999")
}

func fakeOpts(ctx context.Context, value *big.Int) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{Context: ctx, Value: value, NoSend: true}, nil
}

func TestGetAllPollIds(t *testing.T) {
	fc := &fakeContract{callResult: []interface{}{[]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(5)}}}
	g := newWithDeps(fc, fakeOpts)

	ids, err := g.GetAllPollIds(context.Background())
	if err != nil {
		t.Fatalf("GetAllPollIds: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 5 {
		t.Errorf("ids = %v, want [1 2 5]", ids)
	}
}

// RPC 失败必须报网关不可用，不能当成空列表
func TestGetAllPollIdsRPCFailure(t *testing.T) {
	fc := &fakeContract{callErr: errors.New("connection refused")}
	g := newWithDeps(fc, fakeOpts)

	_, err := g.GetAllPollIds(context.Background())
	if !errors.Is(err, poll.ErrGatewayUnavailable) {
		t.Errorf("error = %v, want ErrGatewayUnavailable", err)
	}
}

func TestGetPoll(t *testing.T) {
	fc := &fakeContract{callResult: []interface{}{validTuple()}}
	g := newWithDeps(fc, fakeOpts)

	p, err := g.GetPoll(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetPoll: %v", err)
	}
	if p.ID != 7 || p.Content.Subject != "Favorite L2" {
		t.Errorf("poll = %+v", p)
	}
	if p.Settings.MaxResponses != 10 || p.Settings.EndTime != 1790000000 {
		t.Errorf("settings = %+v", p.Settings)
	}
	if fc.lastMethod != "getPoll" {
		t.Errorf("called %q, want getPoll", fc.lastMethod)
	}
}

func TestGetPollRevertMeansNotFound(t *testing.T) {
	fc := &fakeContract{callErr: errors.New("execution reverted: poll does not exist")}
	g := newWithDeps(fc, fakeOpts)

	_, err := g.GetPoll(context.Background(), 404)
	if !errors.Is(err, poll.ErrPollNotFound) {
		t.Errorf("error = %v, want ErrPollNotFound", err)
	}
}

func TestGetPollMalformedTuple(t *testing.T) {
	bad := validTuple()
	bad.Options = []string{"only-one"}
	fc := &fakeContract{callResult: []interface{}{bad}}
	g := newWithDeps(fc, fakeOpts)

	_, err := g.GetPoll(context.Background(), 1)
	if !errors.Is(err, poll.ErrMalformedPoll) {
		t.Errorf("error = %v, want ErrMalformedPoll", err)
	}
}

func TestGetPollResponses(t *testing.T) {
	fc := &fakeContract{callResult: []interface{}{[]rawResponseTuple{
		{
			Responder: common.HexToAddress("0x2222222222222222222222222222222222222222"),
			Response:  "A",
			Weight:    big.NewInt(1),
			Timestamp: big.NewInt(1700000000),
			Reward:    big.NewInt(0),
		},
		{
			Responder: common.HexToAddress("0x3333333333333333333333333333333333333333"),
			Response:  "B",
			Weight:    big.NewInt(1),
			Timestamp: big.NewInt(1700000100),
			Reward:    big.NewInt(0),
		},
	}}}
	g := newWithDeps(fc, fakeOpts)

	responses, err := g.GetPollResponses(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetPollResponses: %v", err)
	}
	if len(responses) != 2 || responses[0].Response != "A" || responses[1].Response != "B" {
		t.Errorf("responses = %+v", responses)
	}
}

func TestSubmitResponse(t *testing.T) {
	fc := &fakeContract{}
	g := newWithDeps(fc, fakeOpts)

	_, err := g.SubmitResponse(context.Background(), 1, "A", big.NewInt(100))
	if err != nil {
		t.Fatalf("SubmitResponse: %v", err)
	}
	if fc.lastMethod != "submitResponse" {
		t.Errorf("called %q, want submitResponse", fc.lastMethod)
	}
}

func TestSubmitResponseRevert(t *testing.T) {
	fc := &fakeContract{txErr: errors.New("execution reverted: already responded")}
	g := newWithDeps(fc, fakeOpts)

	_, err := g.SubmitResponse(context.Background(), 1, "A", big.NewInt(100))
	if !errors.Is(err, poll.ErrTransactionReverted) {
		t.Fatalf("error = %v, want ErrTransactionReverted", err)
	}
	// 回滚原因必须保留给上层
	if want := "already responded"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not keep revert reason %q", err.Error(), want)
	}
}

func TestSubmitResponseFailedReceipt(t *testing.T) {
	fc := &fakeContract{receiptFail: true}
	g := newWithDeps(fc, fakeOpts)

	_, err := g.SubmitResponse(context.Background(), 1, "A", big.NewInt(100))
	if !errors.Is(err, poll.ErrTransactionReverted) {
		t.Errorf("error = %v, want ErrTransactionReverted", err)
	}
}

func TestChangeStatusMethodMapping(t *testing.T) {
	tests := []struct {
		target string
		method string
	}{
		{"open", "openPoll"},
		{"funding", "forFunding"},
		{"claiming", "forClaiming"},
		{"closed", "closePoll"},
	}

	for _, tt := range tests {
		fc := &fakeContract{}
		g := newWithDeps(fc, fakeOpts)
		if _, err := g.ChangeStatus(context.Background(), 1, tt.target); err != nil {
			t.Fatalf("ChangeStatus(%s): %v", tt.target, err)
		}
		if fc.lastMethod != tt.method {
			t.Errorf("target %s called %q, want %q", tt.target, fc.lastMethod, tt.method)
		}
	}

	g := newWithDeps(&fakeContract{}, fakeOpts)
	if _, err := g.ChangeStatus(context.Background(), 1, "archived"); !errors.Is(err, poll.ErrInvalidParams) {
		t.Errorf("unknown target = %v, want ErrInvalidParams", err)
	}
}

func TestCreatePollValidatesFirst(t *testing.T) {
	fc := &fakeContract{}
	g := newWithDeps(fc, fakeOpts)

	bad := &poll.CreatePollParams{Subject: "x", Options: []string{"A"}}
	if _, err := g.CreatePoll(context.Background(), bad); !errors.Is(err, poll.ErrInvalidParams) {
		t.Fatalf("error = %v, want ErrInvalidParams", err)
	}
	if fc.lastMethod != "" {
		t.Errorf("invalid params must not reach the contract, but %q was called", fc.lastMethod)
	}
}

func TestStructToMap(t *testing.T) {
	m, err := structToMap(validTuple())
	if err != nil {
		t.Fatalf("structToMap: %v", err)
	}
	if m["subject"] != "Favorite L2" {
		t.Errorf("subject = %v", m["subject"])
	}
	if _, ok := m["rewardPerResponse"]; !ok {
		t.Error("missing rewardPerResponse key")
	}

	if _, err := structToMap("not a struct"); err == nil {
		t.Error("structToMap on string must fail")
	}
}

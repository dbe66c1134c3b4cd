package poll

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func rawPoll() map[string]interface{} {
	return map[string]interface{}{
		"creator":            common.HexToAddress("0x1111111111111111111111111111111111111111"),
		"subject":            "Favorite L2",
		"description":        "pick one",
		"category":           "Technology",
		"status":             "open",
		"viewType":           "public",
		"options":            []string{"A", "B", "C"},
		"isOpen":             true,
		"rewardPerResponse":  big.NewInt(1000),
		"maxResponses":       big.NewInt(10),
		"durationDays":       big.NewInt(7),
		"minContribution":    big.NewInt(100),
		"fundingType":        "crowdfunded",
		"targetFund":         big.NewInt(10000),
		"endTime":            big.NewInt(1790000000),
		"funds":              big.NewInt(0),
		"rewardToken":        common.Address{},
		"rewardDistribution": "equal",
		"totalResponses":     big.NewInt(3),
	}
}

func TestNormalize(t *testing.T) {
	p, err := Normalize(7, rawPoll())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if p.ID != 7 {
		t.Errorf("ID = %d, want 7", p.ID)
	}
	if p.Content.Subject != "Favorite L2" || !p.Content.IsOpen {
		t.Errorf("content mismatch: %+v", p.Content)
	}
	if len(p.Content.Options) != 3 {
		t.Errorf("options = %v, want 3 entries", p.Content.Options)
	}
	if p.Settings.MaxResponses != 10 || p.Settings.EndTime != 1790000000 {
		t.Errorf("settings mismatch: %+v", p.Settings)
	}
	if p.Settings.MinContribution.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("minContribution = %s, want 100", p.Settings.MinContribution)
	}
	if !p.UsesNativeReward() {
		t.Error("zero reward token must mean native reward")
	}
}

func TestNormalizeRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing creator", func(r map[string]interface{}) { delete(r, "creator") }},
		{"missing subject", func(r map[string]interface{}) { delete(r, "subject") }},
		{"missing endTime", func(r map[string]interface{}) { delete(r, "endTime") }},
		{"single option", func(r map[string]interface{}) { r["options"] = []string{"A"} }},
		{"no options", func(r map[string]interface{}) { r["options"] = []string{} }},
		{"wrong option type", func(r map[string]interface{}) { r["options"] = "A,B" }},
		{"wrong bool type", func(r map[string]interface{}) { r["isOpen"] = "true" }},
		{"non-numeric amount", func(r map[string]interface{}) { r["minContribution"] = "lots" }},
		{"bad address string", func(r map[string]interface{}) { r["creator"] = "not-an-address" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rawPoll()
			tt.mutate(r)
			if _, err := Normalize(1, r); !errors.Is(err, ErrMalformedPoll) {
				t.Errorf("Normalize = %v, want ErrMalformedPoll", err)
			}
		})
	}

	if _, err := Normalize(1, nil); !errors.Is(err, ErrMalformedPoll) {
		t.Errorf("Normalize(nil) = %v, want ErrMalformedPoll", err)
	}
}

func TestNormalizeAcceptsLooserTypes(t *testing.T) {
	r := rawPoll()
	// ABI 层有时给出字符串地址和 interface 切片
	r["creator"] = "0x1111111111111111111111111111111111111111"
	r["options"] = []interface{}{"A", "B"}
	r["maxResponses"] = int64(5)
	r["endTime"] = uint64(1790000000)

	p, err := Normalize(2, r)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Settings.MaxResponses != 5 {
		t.Errorf("maxResponses = %d, want 5", p.Settings.MaxResponses)
	}
	if len(p.Content.Options) != 2 {
		t.Errorf("options = %v, want 2 entries", p.Content.Options)
	}
}

func TestNormalizeResponse(t *testing.T) {
	raw := map[string]interface{}{
		"responder": common.HexToAddress("0x2222222222222222222222222222222222222222"),
		"response":  "A",
		"weight":    big.NewInt(1),
		"timestamp": big.NewInt(1700000000),
		"isClaimed": false,
		"reward":    big.NewInt(0),
	}

	r, err := NormalizeResponse(raw)
	if err != nil {
		t.Fatalf("NormalizeResponse: %v", err)
	}
	if r.Response != "A" || r.Timestamp != 1700000000 {
		t.Errorf("response mismatch: %+v", r)
	}

	delete(raw, "weight")
	if _, err := NormalizeResponse(raw); !errors.Is(err, ErrMalformedPoll) {
		t.Errorf("NormalizeResponse without weight = %v, want ErrMalformedPoll", err)
	}
}

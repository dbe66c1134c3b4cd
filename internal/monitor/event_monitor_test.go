package monitor

import (
	"math/big"
	"testing"

	"github.com/bpolls/bpolls-bapp/internal/chain"
	"github.com/bpolls/bpolls-bapp/internal/config"
	"github.com/bpolls/bpolls-bapp/internal/gateway"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func testContract(t *testing.T) *chain.Contract {
	t.Helper()
	// ABIPath 为空走内置ABI，解析日志不需要RPC客户端
	c, err := chain.NewContract(nil, gateway.PollsContractName, config.ContractConfig{
		Address: "0x3333333333333333333333333333333333333333",
	})
	if err != nil {
		t.Fatalf("NewContract: %v", err)
	}
	return c
}

// eventLog 按内置ABI组装一条事件日志
func eventLog(t *testing.T, c *chain.Contract, eventName string, pollID int64, indexed []common.Hash, nonIndexed ...interface{}) types.Log {
	t.Helper()
	ev, ok := c.GetABI().Events[eventName]
	if !ok {
		t.Fatalf("event %s not in ABI", eventName)
	}

	topics := append([]common.Hash{ev.ID, common.BigToHash(big.NewInt(pollID))}, indexed...)

	data, err := ev.Inputs.NonIndexed().Pack(nonIndexed...)
	if err != nil {
		t.Fatalf("pack %s data: %v", eventName, err)
	}

	return types.Log{
		Address:     c.GetAddress(),
		Topics:      topics,
		Data:        data,
		BlockNumber: 4200,
		TxHash:      common.HexToHash("0xabc0000000000000000000000000000000000000000000000000000000000001"),
		Index:       3,
	}
}

// 从日志解析到事件记录行的完整链路：事件类型和pollId都要落到记录上
func TestNewEventRecordFromParsedLog(t *testing.T) {
	c := testContract(t)
	responder := common.HexToAddress("0x4444444444444444444444444444444444444444")

	tests := []struct {
		name string
		log  types.Log
	}{
		{
			name: "PollCreated",
			log:  eventLog(t, c, "PollCreated", 7, []common.Hash{common.BytesToHash(responder.Bytes())}, "Best rollup"),
		},
		{
			name: "ResponseSubmitted",
			log:  eventLog(t, c, "ResponseSubmitted", 7, []common.Hash{common.BytesToHash(responder.Bytes())}, "Citrea"),
		},
		{
			name: "PollStatusChanged",
			log:  eventLog(t, c, "PollStatusChanged", 7, nil, "funding"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventData, err := c.ParseEvent(tt.log)
			if err != nil {
				t.Fatalf("ParseEvent: %v", err)
			}

			record, err := newEventRecord(c, tt.log, eventData)
			if err != nil {
				t.Fatalf("newEventRecord: %v", err)
			}

			if record.EventType != tt.name {
				t.Errorf("EventType = %q, want %q", record.EventType, tt.name)
			}
			if record.PollId != 7 {
				t.Errorf("PollId = %d, want 7", record.PollId)
			}
			if record.TxHash != tt.log.TxHash.Hex() {
				t.Errorf("TxHash = %s, want %s", record.TxHash, tt.log.TxHash.Hex())
			}
			if record.BlockNum != 4200 || record.LogIndex != 3 {
				t.Errorf("BlockNum/LogIndex = %d/%d, want 4200/3", record.BlockNum, record.LogIndex)
			}
			if record.ContractName != gateway.PollsContractName {
				t.Errorf("ContractName = %q, want %q", record.ContractName, gateway.PollsContractName)
			}
		})
	}
}

func TestRefreshScopeFor(t *testing.T) {
	tests := []struct {
		eventType string
		want      refreshScope
	}{
		{"PollCreated", refreshScope{poll: true}},
		{"PollStatusChanged", refreshScope{poll: true}},
		{"ResponseSubmitted", refreshScope{poll: true, responses: true}},
		{"Unknown", refreshScope{}},
		{"", refreshScope{}},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			if got := refreshScopeFor(tt.eventType); got != tt.want {
				t.Errorf("refreshScopeFor(%q) = %+v, want %+v", tt.eventType, got, tt.want)
			}
		})
	}
}

func TestEventPollIDMissing(t *testing.T) {
	if got := eventPollID(map[string]interface{}{"eventType": "PollCreated"}); got != -1 {
		t.Errorf("eventPollID without pollId = %d, want -1", got)
	}
	if got := eventPollID(map[string]interface{}{"pollId": big.NewInt(9)}); got != 9 {
		t.Errorf("eventPollID = %d, want 9", got)
	}
}

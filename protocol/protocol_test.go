package protocol

import "testing"

func TestSideString(t *testing.T) {
	tests := []struct {
		side     Side
		expected string
	}{
		{Bid, "BID"},
		{Ask, "ASK"},
		{Side(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.side.String(); got != tt.expected {
			t.Errorf("Side(%d).String() = %s, want %s", tt.side, got, tt.expected)
		}
	}
}

func TestSideValid(t *testing.T) {
	if !Bid.Valid() || !Ask.Valid() {
		t.Errorf("expected Bid and Ask to be valid")
	}
	if Side(2).Valid() {
		t.Errorf("expected Side(2) to be invalid")
	}
}

func TestMessageTypeString(t *testing.T) {
	tests := []struct {
		mt       MessageType
		expected string
	}{
		{AddOrder, "ADD_ORDER"},
		{ModifyOrder, "MODIFY_ORDER"},
		{DeleteOrder, "DELETE_ORDER"},
		{Trade, "TRADE"},
		{Snapshot, "SNAPSHOT"},
		{MessageType(0), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.mt.String(); got != tt.expected {
			t.Errorf("MessageType(%d).String() = %s, want %s", tt.mt, got, tt.expected)
		}
	}
}

func TestMessageTypeValid(t *testing.T) {
	for _, mt := range []MessageType{AddOrder, ModifyOrder, DeleteOrder, Trade, Snapshot} {
		if !mt.Valid() {
			t.Errorf("expected MessageType %d to be valid", mt)
		}
	}
	if MessageType(0).Valid() || MessageType(6).Valid() {
		t.Errorf("expected MessageType 0 and 6 to be invalid")
	}
}

package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBroadcastsDropOlderSnapshots(t *testing.T) {
	gc := NewGameConnections()

	// goroutines may reach send in any order
	arrivals := []uint64{2, 1, 3, 5, 4, 5, 6}
	var sent []uint64
	for _, seq := range arrivals {
		gc.sendMu.Lock()
		if gc.advance(seq) {
			sent = append(sent, seq)
		}
		gc.sendMu.Unlock()
	}

	if diff := cmp.Diff([]uint64{2, 3, 5, 6}, sent); diff != "" {
		t.Errorf("sent snapshots mismatch (-want +got):\n%s", diff)
	}
}

func TestSendSkipsStaleSnapshot(t *testing.T) {
	gc := NewGameConnections()
	gc.send("g", 3, newGameState())
	gc.send("g", 2, newGameState())
	if gc.lastSent != 3 {
		t.Errorf("lastSent = %d, want 3", gc.lastSent)
	}
}

package ruleeval

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestWorkflowIDIsDeterministic(t *testing.T) {
	clientID := uuid.MustParse("7f9c24e5-2f86-4a5f-9bdb-6a2f0b7c3d11")
	stamp := time.Date(2026, time.August, 23, 23, 59, 59, 999999000, time.UTC)

	id := WorkflowID(KindTimeBased, clientID, stamp)
	want := "rule-eval:time-based:7f9c24e5-2f86-4a5f-9bdb-6a2f0b7c3d11:1787529599999999"
	if id != want {
		t.Fatalf("WorkflowID = %q, want %q", id, want)
	}

	// The same logical request always maps to the same ID; that is what
	// deduplicates retries and re-deliveries.
	if again := WorkflowID(KindTimeBased, clientID, stamp); again != id {
		t.Fatalf("id must be stable: %q vs %q", again, id)
	}
	if other := WorkflowID(KindEventBased, clientID, stamp); other == id {
		t.Fatalf("different kinds must not collide")
	}
	if other := WorkflowID(KindTimeBased, clientID, stamp.Add(time.Microsecond)); other == id {
		t.Fatalf("different stamps must not collide")
	}
}

package lra

import "testing"

type testNode struct{ k string }

func (n testNode) Key() string { return n.k }

// Two entries inserted in order with no intervening writes on the first
// must evict the first one, regardless of read activity in between.
func TestLRA_AccessDoesNotReorder(t *testing.T) {
	t.Parallel()

	p := New().New()
	p.OnAdmit(testNode{"a"})
	p.OnAdmit(testNode{"b"})

	// Read "a" repeatedly; under LRU this would promote it, but LRA must
	// ignore reads entirely.
	p.OnAccess(testNode{"a"})
	p.OnAccess(testNode{"a"})

	if v := p.Victim(); v == nil || v.Key() != "a" {
		t.Fatalf("want victim a (write order unaffected by reads), got %v", v)
	}
}

// OnModify is a write event and must reorder, unlike OnAccess.
func TestLRA_ModifyReorders(t *testing.T) {
	t.Parallel()

	p := New().New()
	p.OnAdmit(testNode{"a"})
	p.OnAdmit(testNode{"b"})
	p.OnModify(testNode{"a"})

	if v := p.Victim(); v == nil || v.Key() != "b" {
		t.Fatalf("want victim b after modifying a, got %v", v)
	}
}

func TestLRA_Remove(t *testing.T) {
	t.Parallel()

	p := New().New()
	p.OnAdmit(testNode{"a"})
	p.OnRemove(testNode{"a"})

	if v := p.Victim(); v != nil {
		t.Fatalf("want nil victim after removing sole entry, got %v", v)
	}
}

// Package lru implements the Least-Recently-Used eviction policy: every
// admission and every read promotes an entry to the most-recent end, and the
// victim is always the least-recent end.
package lru

import (
	"container/list"

	"github.com/archcache/boundedcache/policy"
)

type factory struct{}

// New returns a policy.Factory that constructs per-instance LRU trackers.
func New() policy.Factory { return factory{} }

func (factory) New() policy.Policy {
	return &lru{
		order: list.New(),
		elems: make(map[string]*list.Element),
	}
}

// lru is a classic move-to-front recency list. elems lets OnAccess/OnModify/
// OnRemove locate a key's list.Element in O(1); order's tail is always the
// eviction victim.
type lru struct {
	order *list.List
	elems map[string]*list.Element
}

func (p *lru) OnAdmit(n policy.Node) {
	p.elems[n.Key()] = p.order.PushFront(n)
}

// OnAccess promotes the entry to MRU; this is what makes the policy LRU
// rather than LRA.
func (p *lru) OnAccess(n policy.Node) { p.promote(n) }

func (p *lru) OnModify(n policy.Node) { p.promote(n) }

func (p *lru) promote(n policy.Node) {
	if e, ok := p.elems[n.Key()]; ok {
		p.order.MoveToFront(e)
	}
}

func (p *lru) OnRemove(n policy.Node) {
	if e, ok := p.elems[n.Key()]; ok {
		p.order.Remove(e)
		delete(p.elems, n.Key())
	}
}

func (p *lru) Victim() policy.Node {
	back := p.order.Back()
	if back == nil {
		return nil
	}
	return back.Value.(policy.Node)
}

// Package lra implements the Least-Recently-Added eviction policy: only
// writes (admission and update) reposition an entry; reads never reorder.
// The victim is always the least-recently-written end.
package lra

import (
	"container/list"

	"github.com/archcache/boundedcache/policy"
)

type factory struct{}

// New returns a policy.Factory that constructs per-instance LRA trackers.
func New() policy.Factory { return factory{} }

func (factory) New() policy.Policy {
	return &lra{
		order: list.New(),
		elems: make(map[string]*list.Element),
	}
}

// lra shares the LRU policy's list shape but differs in which operations
// are allowed to reposition an entry.
type lra struct {
	order *list.List
	elems map[string]*list.Element
}

func (p *lra) OnAdmit(n policy.Node) {
	p.elems[n.Key()] = p.order.PushFront(n)
}

// OnAccess is a deliberate no-op: a Get must never change eviction order
// under LRA, regardless of how many times a key is read.
func (p *lra) OnAccess(policy.Node) {}

// OnModify promotes, since an Update is a write event just like admission.
func (p *lra) OnModify(n policy.Node) {
	if e, ok := p.elems[n.Key()]; ok {
		p.order.MoveToFront(e)
	}
}

func (p *lra) OnRemove(n policy.Node) {
	if e, ok := p.elems[n.Key()]; ok {
		p.order.Remove(e)
		delete(p.elems, n.Key())
	}
}

func (p *lra) Victim() policy.Node {
	back := p.order.Back()
	if back == nil {
		return nil
	}
	return back.Value.(policy.Node)
}

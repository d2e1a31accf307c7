// Package lfu implements the Least-Frequently-Used eviction policy: every
// entry carries a frequency counter, and the victim is the entry with the
// lowest (frequency, recency-within-that-frequency) pair.
//
// Bookkeeping is a bucketed frequency list rather than a lazily-invalidated
// heap (see the §4.1.3 "acceptable designs" note): one doubly linked list
// per observed frequency, keyed by a map[int]*list.List, with a running
// minFreq pointer. Admission and every access/modify move a node into its
// new frequency's bucket at that bucket's front (most-recently-touched end);
// the tail of the lowest populated bucket is always the correct tie-break
// victim, because ties within a bucket are broken by how long ago an entry
// was pushed into it. Admission and access are O(1); removal and victim
// selection are O(1) unless the lowest bucket has just emptied, in which
// case they scan the bucket map for the next populated frequency. There
// are no stale entries to filter, unlike the heap alternative.
package lfu

import (
	"container/list"

	"github.com/archcache/boundedcache/policy"
)

type factory struct{}

// New returns a policy.Factory that constructs per-instance LFU trackers.
func New() policy.Factory { return factory{} }

func (factory) New() policy.Policy {
	return &lfu{
		buckets: make(map[int]*list.List),
		index:   make(map[string]*ref),
	}
}

// ref locates a tracked key within its current frequency bucket.
type ref struct {
	freq int
	elem *list.Element
}

type lfu struct {
	buckets map[int]*list.List
	index   map[string]*ref
	minFreq int
}

func (p *lfu) OnAdmit(n policy.Node) {
	// A fresh insertion or a replacement both start (or restart) at
	// frequency 1, per §4.1.3.
	if r, ok := p.index[n.Key()]; ok {
		p.detach(n.Key(), r)
	}
	p.insert(n, 1)
	p.minFreq = 1
}

func (p *lfu) OnAccess(n policy.Node) { p.bump(n) }

func (p *lfu) OnModify(n policy.Node) { p.bump(n) }

// bump increments the key's frequency and moves it to the front of its new
// bucket, which is the most-recently-touched position within that bucket.
func (p *lfu) bump(n policy.Node) {
	r, ok := p.index[n.Key()]
	if !ok {
		return
	}
	oldFreq := r.freq
	p.detach(n.Key(), r)
	newFreq := oldFreq + 1
	p.insert(n, newFreq)
	if oldFreq == p.minFreq && p.bucketEmpty(oldFreq) {
		p.minFreq = newFreq
	}
}

func (p *lfu) OnRemove(n policy.Node) {
	r, ok := p.index[n.Key()]
	if !ok {
		return
	}
	freq := r.freq
	p.detach(n.Key(), r)
	if freq == p.minFreq && p.bucketEmpty(freq) {
		p.advanceMinFreq()
	}
}

// Victim returns the tail (oldest-touched) of the lowest populated bucket.
func (p *lfu) Victim() policy.Node {
	p.advanceMinFreq()
	b, ok := p.buckets[p.minFreq]
	if !ok || b.Len() == 0 {
		return nil
	}
	return b.Back().Value.(policy.Node)
}

func (p *lfu) insert(n policy.Node, freq int) {
	b, ok := p.buckets[freq]
	if !ok {
		b = list.New()
		p.buckets[freq] = b
	}
	p.index[n.Key()] = &ref{freq: freq, elem: b.PushFront(n)}
}

func (p *lfu) detach(key string, r *ref) {
	if b, ok := p.buckets[r.freq]; ok {
		b.Remove(r.elem)
	}
	delete(p.index, key)
}

func (p *lfu) bucketEmpty(freq int) bool {
	b, ok := p.buckets[freq]
	return !ok || b.Len() == 0
}

// advanceMinFreq walks minFreq forward past any empty buckets. Called
// lazily from Victim/OnRemove rather than eagerly scanning on every
// mutation.
func (p *lfu) advanceMinFreq() {
	if !p.bucketEmpty(p.minFreq) {
		return
	}
	if len(p.index) == 0 {
		return
	}
	lowest := 0
	for freq, b := range p.buckets {
		if b.Len() == 0 {
			continue
		}
		if lowest == 0 || freq < lowest {
			lowest = freq
		}
	}
	if lowest > 0 {
		p.minFreq = lowest
	}
}

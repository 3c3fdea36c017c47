package opt

import (
	"context"

	"nikand.dev/go/heap"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"

	"github.com/slowlang/miropt/compiler/mir"
	"github.com/slowlang/miropt/compiler/tp"
)

type (
	// InlineCache counts calls per (method, receiver type).
	// It only advises; nothing is rewritten.
	InlineCache struct {
		Threshold int

		hits map[callKey]int
	}

	callKey struct {
		Method   string
		Receiver string
	}

	CallSite struct {
		Method   string
		Receiver string
		Count    int
	}
)

func NewInlineCache(threshold int) *InlineCache {
	if threshold <= 0 {
		threshold = DefaultHotThreshold
	}

	return &InlineCache{
		Threshold: threshold,
		hits:      map[callKey]int{},
	}
}

// Optimize is a profiling hook and returns m as is.
func (c *InlineCache) Optimize(ctx context.Context, m *mir.TypedMIR) (_ *mir.TypedMIR, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "icache", "source", m.Source)
	defer tr.Finish("err", &err)

	if tr.If("dump_hot") {
		for _, s := range c.Hottest(-1) {
			if s.Count > c.Threshold {
				tr.Printw("hot call", "site", s)
			}
		}
	}

	return m, nil
}

func (c *InlineCache) RecordCall(method string, recv tp.Type) {
	c.RecordCalls(method, recv, 1)
}

// RecordCalls adds n calls at once, as read from a profile.
func (c *InlineCache) RecordCalls(method string, recv tp.Type, n int) {
	if n <= 0 {
		return
	}

	c.hits[key(method, recv)] += n
}

// IsHot is true once the count exceeds the threshold.
func (c *InlineCache) IsHot(method string, recv tp.Type) bool {
	return c.hits[key(method, recv)] > c.Threshold
}

func (c *InlineCache) Hits(method string, recv tp.Type) int {
	return c.hits[key(method, recv)]
}

// Hottest returns up to n sites ordered by count, most called first.
// n < 0 returns all of them.
func (c *InlineCache) Hottest(n int) []CallSite {
	h := heap.Heap[CallSite]{Less: hotterSite}

	for k, cnt := range c.hits {
		h.Push(CallSite{Method: k.Method, Receiver: k.Receiver, Count: cnt})
	}

	if n < 0 || n > h.Len() {
		n = h.Len()
	}

	r := make([]CallSite, 0, n)

	for len(r) < n {
		r = append(r, h.Pop())
	}

	return r
}

func (c *InlineCache) Reset() {
	clear(c.hits)
}

func hotterSite(d []CallSite, i, j int) bool {
	if d[i].Count != d[j].Count {
		return d[i].Count > d[j].Count
	}

	if d[i].Method != d[j].Method {
		return d[i].Method < d[j].Method
	}

	return d[i].Receiver < d[j].Receiver
}

func key(method string, recv tp.Type) callKey {
	k := callKey{Method: method, Receiver: "any"}

	if recv != nil {
		k.Receiver = recv.String()
	}

	return k
}

func (s CallSite) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 3)

	b = e.AppendKey(b, "method")
	b = e.AppendString(b, s.Method)
	b = e.AppendKey(b, "recv")
	b = e.AppendString(b, s.Receiver)
	b = e.AppendKeyInt(b, "count", s.Count)

	return b
}

package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slowlang/miropt/compiler/tp"
)

func TestInlineCacheHot(t *testing.T) {
	c := NewInlineCache(0)

	for i := 0; i < 100; i++ {
		c.RecordCall("add", tp.I32)
	}

	assert.False(t, c.IsHot("add", tp.I32))
	assert.Equal(t, 100, c.Hits("add", tp.I32))

	c.RecordCall("add", tp.I32)

	assert.True(t, c.IsHot("add", tp.I32))
	assert.False(t, c.IsHot("add", tp.F64))
	assert.False(t, c.IsHot("sub", tp.I32))
}

func TestInlineCacheHottest(t *testing.T) {
	c := NewInlineCache(10)

	c.RecordCalls("a", tp.I32, 5)
	c.RecordCalls("b", tp.I32, 50)
	c.RecordCalls("c", nil, 20)
	c.RecordCalls("a", tp.F64, 20)
	c.RecordCalls("z", tp.F64, -3)

	assert.Equal(t, []CallSite{
		{Method: "b", Receiver: "i32", Count: 50},
		{Method: "a", Receiver: "f64", Count: 20},
	}, c.Hottest(2))

	all := c.Hottest(-1)
	assert.Len(t, all, 4)
	assert.Equal(t, CallSite{Method: "c", Receiver: "any", Count: 20}, all[2])
	assert.Equal(t, "a", all[3].Method)

	assert.True(t, c.IsHot("c", tp.Any{}))

	c.Reset()
	assert.Empty(t, c.Hottest(5))
}

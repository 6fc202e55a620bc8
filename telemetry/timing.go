package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/shorthand/output"
)

// TimingCollector builds a tree of timed operations. The first operation
// started becomes the root; later ones nest under the innermost running
// operation. It is safe for concurrent use, but nesting only reflects call
// structure when operations are started from one goroutine.
type TimingCollector struct {
	mu      sync.Mutex
	root    *timerNode
	current *timerNode
	now     func() time.Time
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	children []*timerNode
	parent   *timerNode
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return 0
	}
	return n.end.Sub(n.start)
}

// NewTimingCollector creates an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{now: time.Now}
}

// Start begins timing an operation.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now()}

	switch {
	case c.root == nil:
		c.root = node
	case c.current == nil:
		// The root already ended; keep later operations under it.
		node.parent = c.root
		c.root.children = append(c.root.children, node)
	default:
		node.parent = c.current
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node}
}

// Timings returns every finished operation in depth-first order.
func (c *TimingCollector) Timings() []Timing {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Timing
	var walk func(n *timerNode, depth int)
	walk = func(n *timerNode, depth int) {
		if !n.end.IsZero() {
			out = append(out, Timing{Name: n.name, Depth: depth, Duration: n.duration()})
		}
		for _, child := range n.children {
			walk(child, depth+1)
		}
	}
	if c.root != nil {
		walk(c.root, 0)
	}
	return out
}

// Report writes the timing tree to w.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}

	formatTimingTree(w, c.root, styles)
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if !t.node.end.IsZero() {
		return
	}
	t.node.end = t.collector.now()

	if t.collector.current == t.node {
		t.collector.current = t.node.parent
	}
}

func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{
		name:   name,
		start:  t.collector.now(),
		parent: t.node,
	}
	t.node.children = append(t.node.children, node)

	return &timingTimer{collector: t.collector, node: node}
}

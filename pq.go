package metro

import (
	"container/heap"
	"sort"
)

type frontierItem struct {
	node         *SearchNode
	sequence     uint64
	indexInQueue int
}

// priorityQueue orders by cost, then by insertion order.
type priorityQueue []*frontierItem

func (queue priorityQueue) Len() int { return len(queue) }
func (queue priorityQueue) Less(i, j int) bool {
	return lessItem(queue[i], queue[j])
}
func (queue priorityQueue) Swap(i, j int) {
	queue[i], queue[j] = queue[j], queue[i]
	queue[i].indexInQueue = i
	queue[j].indexInQueue = j
}

func (queue *priorityQueue) Push(x any) {
	item := x.(*frontierItem)
	item.indexInQueue = len(*queue)
	*queue = append(*queue, item)
}

func (queue *priorityQueue) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	oldQueue[n-1] = nil
	*queue = oldQueue[:n-1]
	return item
}

func lessItem(a, b *frontierItem) bool {
	if a.node.cost != b.node.cost {
		return a.node.cost < b.node.cost
	}
	return a.sequence < b.sequence
}

// frontier is the open set. With dedupe on, a node equal to one already
// queued is dropped; a node leaves the set for good once popped.
type frontier struct {
	queue        priorityQueue
	members      map[string]struct{}
	dedupe       bool
	nextSequence uint64
}

func newFrontier(dedupe bool) *frontier {
	f := &frontier{dedupe: dedupe}
	if dedupe {
		f.members = make(map[string]struct{})
	}
	heap.Init(&f.queue)
	return f
}

func (f *frontier) len() int { return f.queue.Len() }

// push reports whether node was added.
func (f *frontier) push(node *SearchNode) bool {
	if f.dedupe {
		key := node.key()
		if _, dup := f.members[key]; dup {
			return false
		}
		f.members[key] = struct{}{}
	}
	heap.Push(&f.queue, &frontierItem{node: node, sequence: f.nextSequence})
	f.nextSequence++
	return true
}

// pop removes the lowest-cost node, or returns nil when empty.
func (f *frontier) pop() *SearchNode {
	if f.queue.Len() == 0 {
		return nil
	}
	item := heap.Pop(&f.queue).(*frontierItem)
	if f.dedupe {
		delete(f.members, item.node.key())
	}
	return item.node
}

// snapshot returns the queued nodes in the order they would be popped.
func (f *frontier) snapshot() []SearchNode {
	items := make([]*frontierItem, len(f.queue))
	copy(items, f.queue)
	sort.Slice(items, func(i, j int) bool { return lessItem(items[i], items[j]) })

	nodes := make([]SearchNode, len(items))
	for i, item := range items {
		nodes[i] = *item.node
	}
	return nodes
}

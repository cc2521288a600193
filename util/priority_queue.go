package util

import (
	"golang.org/x/exp/constraints"
)

//*******************************************
// priority queue
//*******************************************

type _PQItem[T any, P constraints.Ordered] struct {
	value    T
	priority P
	seq      uint64
}

// Min-heap keyed by priority.
//
// Items with equal priority are dequeued in the order they were enqueued.
type PriorityQueue[T any, P constraints.Ordered] struct {
	items []_PQItem[T, P]
	seq   uint64
}

func NewPriorityQueue[T any, P constraints.Ordered](cap int) PriorityQueue[T, P] {
	return PriorityQueue[T, P]{
		items: make([]_PQItem[T, P], 0, cap),
	}
}

func (self *PriorityQueue[T, P]) Length() int {
	return len(self.items)
}

func (self *PriorityQueue[T, P]) Enqueue(value T, priority P) {
	self.items = append(self.items, _PQItem[T, P]{value, priority, self.seq})
	self.seq += 1
	self._Up(len(self.items) - 1)
}

func (self *PriorityQueue[T, P]) Dequeue() (T, bool) {
	if len(self.items) == 0 {
		var t T
		return t, false
	}
	top := self.items[0]
	last := len(self.items) - 1
	self.items[0] = self.items[last]
	self.items = self.items[:last]
	if last > 0 {
		self._Down(0)
	}
	return top.value, true
}

// Returns the next item and its priority without removing it.
func (self *PriorityQueue[T, P]) Peek() (T, P, bool) {
	if len(self.items) == 0 {
		var t T
		var p P
		return t, p, false
	}
	return self.items[0].value, self.items[0].priority, true
}

func (self *PriorityQueue[T, P]) Clear() {
	self.items = self.items[:0]
	self.seq = 0
}

func (self *PriorityQueue[T, P]) _Less(i, j int) bool {
	a := self.items[i]
	b := self.items[j]
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

func (self *PriorityQueue[T, P]) _Up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !self._Less(i, parent) {
			break
		}
		self.items[i], self.items[parent] = self.items[parent], self.items[i]
		i = parent
	}
}

func (self *PriorityQueue[T, P]) _Down(i int) {
	n := len(self.items)
	for {
		smallest := i
		left := 2*i + 1
		right := left + 1
		if left < n && self._Less(left, smallest) {
			smallest = left
		}
		if right < n && self._Less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			break
		}
		self.items[i], self.items[smallest] = self.items[smallest], self.items[i]
		i = smallest
	}
}

// Package dlist implements an intrusive doubly linked list.
//
// The entry payload lives inside the Node next to its links, so a policy keeps
// a single allocation per key and its key->node map points straight at it.
// Front is the newest position, Back is the oldest.
package dlist

// Node is a list element carrying its payload inline.
type Node[T any] struct {
	Value T

	prev *Node[T]
	next *Node[T]
	list *List[T] // owning list, nil when detached
}

// NewNode returns a detached node holding v.
func NewNode[T any](v T) *Node[T] { return &Node[T]{Value: v} }

// Next returns the next (older) node or nil.
func (n *Node[T]) Next() *Node[T] { return n.next }

// Prev returns the previous (newer) node or nil.
func (n *Node[T]) Prev() *Node[T] { return n.prev }

// List is a doubly linked list of nodes. The zero value is an empty list.
type List[T any] struct {
	head *Node[T] // newest
	tail *Node[T] // oldest
	len  int
}

// New returns an empty list.
func New[T any]() *List[T] { return &List[T]{} }

// Len returns the number of linked nodes in O(1).
func (l *List[T]) Len() int { return l.len }

// Front returns the newest node or nil.
func (l *List[T]) Front() *Node[T] { return l.head }

// Back returns the oldest node or nil.
func (l *List[T]) Back() *Node[T] { return l.tail }

// PushFront links a detached node at the newest position in O(1).
// It panics if n already belongs to a list.
func (l *List[T]) PushFront(n *Node[T]) {
	if n.list != nil {
		panic("dlist: PushFront of a linked node")
	}
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	n.list = l
	l.len++
}

// MoveToFront relinks n at the newest position in O(1).
func (l *List[T]) MoveToFront(n *Node[T]) {
	if n.list != l || n == l.head {
		return
	}
	l.unlink(n)
	n.prev = nil
	n.next = l.head
	l.head.prev = n
	l.head = n
}

// Remove detaches n from l in O(1). It is a no-op if n is not in l.
func (l *List[T]) Remove(n *Node[T]) bool {
	if n.list != l {
		return false
	}
	l.unlink(n)
	n.prev, n.next, n.list = nil, nil, nil
	l.len--
	return true
}

// PopBack detaches and returns the oldest node, or nil if l is empty.
func (l *List[T]) PopBack() *Node[T] {
	n := l.tail
	if n == nil {
		return nil
	}
	l.Remove(n)
	return n
}

// Init detaches every node and leaves l empty.
func (l *List[T]) Init() {
	for n := l.head; n != nil; {
		next := n.next
		n.prev, n.next, n.list = nil, nil, nil
		n = next
	}
	l.head, l.tail, l.len = nil, nil, 0
}

// unlink fixes the neighbours of n and the list ends; n's own links are left
// for the caller.
func (l *List[T]) unlink(n *Node[T]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
}

package display

const nilNode int32 = -1

type node struct {
	obj  Drawable
	z    uint32
	prev int32
	next int32
}

// objectList keeps the shown drawables sorted by ascending Z. Entries live
// in an arena and link to each other by slot index; an Object remembers its
// slot, which makes removal O(1). Freed slots are reused.
type objectList struct {
	nodes []node
	free  []int32
	head  int32
	tail  int32
	n     int
}

func newObjectList() objectList {
	return objectList{head: nilNode, tail: nilNode}
}

func (l *objectList) len() int { return l.n }

func (l *objectList) alloc(d Drawable, z uint32) int32 {
	n := node{obj: d, z: z, prev: nilNode, next: nilNode}
	if k := len(l.free); k > 0 {
		idx := l.free[k-1]
		l.free = l.free[:k-1]
		l.nodes[idx] = n
		return idx
	}
	l.nodes = append(l.nodes, n)
	return int32(len(l.nodes) - 1)
}

// insert links d with priority z after every entry of lower or equal Z.
func (l *objectList) insert(d Drawable, z uint32) error {
	if d == nil {
		return ErrNullReference
	}
	o := d.base()
	if o.node.Load() != 0 {
		return ErrAlreadyPresent
	}

	idx := l.alloc(d, z)
	switch {
	case l.head == nilNode:
		l.head, l.tail = idx, idx
	case l.nodes[l.head].z > z:
		l.nodes[idx].next = l.head
		l.nodes[l.head].prev = idx
		l.head = idx
	case l.nodes[l.tail].z <= z:
		l.nodes[idx].prev = l.tail
		l.nodes[l.tail].next = idx
		l.tail = idx
	default:
		// The tail has a higher Z, so the walk stops before running off the end.
		p := l.head
		for l.nodes[l.nodes[p].next].z <= z {
			p = l.nodes[p].next
		}
		nx := l.nodes[p].next
		l.nodes[idx].prev = p
		l.nodes[idx].next = nx
		l.nodes[p].next = idx
		l.nodes[nx].prev = idx
	}
	l.n++
	o.z = z
	o.node.Store(idx + 1)
	return nil
}

// remove unlinks d in constant time.
func (l *objectList) remove(d Drawable) error {
	if d == nil {
		return ErrNullReference
	}
	o := d.base()
	idx := o.node.Load() - 1
	if idx < 0 {
		return ErrNotPresent
	}
	if int(idx) >= len(l.nodes) || l.nodes[idx].obj != d {
		return ErrInvalidItem
	}

	n := l.nodes[idx]
	if n.prev != nilNode {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nilNode {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	l.nodes[idx] = node{prev: nilNode, next: nilNode}
	l.free = append(l.free, idx)
	l.n--
	o.node.Store(0)
	return nil
}

// order returns the shown drawables from lowest to highest Z.
func (l *objectList) order() []Drawable {
	out := make([]Drawable, 0, l.n)
	for i := l.head; i != nilNode; i = l.nodes[i].next {
		out = append(out, l.nodes[i].obj)
	}
	return out
}

package nbt

// List is the payload of a List tag: an ordered sequence of child tags that
// all share one element kind. The kind is bound lazily — an empty list
// accepts any kind on its first insert and rejects mismatches afterwards.
type List struct {
	elem  Kind
	items []*Tag
}

// Elem returns the bound element kind, or KindEnd while the list is empty
// and unbound.
func (l *List) Elem() Kind { return l.elem }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.items) }

// Get returns the element at index i, or nil when out of range.
func (l *List) Get(i int) *Tag {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Insert places t at index i, shifting later elements right. The first
// insert into an unbound list fixes the element kind; subsequent inserts of
// a different kind fail with ErrKindMismatch.
func (l *List) Insert(i int, t *Tag) error {
	if i < 0 || i > len(l.items) {
		return ErrIndexOutOfRange
	}
	if l.elem == KindEnd {
		l.elem = t.kind
	} else if t.kind != l.elem {
		return ErrKindMismatch
	}
	l.items = append(l.items, nil)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = t
	return nil
}

// Append places t at the end of the list, binding the element kind if needed.
func (l *List) Append(t *Tag) error {
	return l.Insert(len(l.items), t)
}

// Remove deletes and returns the element at index i, or nil when out of
// range. Removing the last element does not unbind the element kind; the
// list stays typed once it has ever held an element.
func (l *List) Remove(i int) *Tag {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	t := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	return t
}

func (l *List) copy() *List {
	c := &List{elem: l.elem, items: make([]*Tag, len(l.items))}
	for i, t := range l.items {
		c.items[i] = t.Copy()
	}
	return c
}

func (l *List) equal(o *List) bool {
	if len(l.items) != len(o.items) {
		return false
	}
	// Two empty lists are equal regardless of bound kind; a decoded empty
	// list carries KindEnd even if the source was built typed.
	for i, t := range l.items {
		if !t.Equal(o.items[i]) {
			return false
		}
	}
	return true
}

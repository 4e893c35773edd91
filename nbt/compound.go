package nbt

// Entry is one name→tag pair inside a Compound.
type Entry struct {
	Name string
	Tag  *Tag
}

// Compound is the payload of a Compound tag: an insertion-ordered mapping of
// unique names to child tags. Lookup is O(1) through a side index; iteration
// follows insertion order.
type Compound struct {
	entries []Entry
	byName  map[string]int
}

func newCompound() *Compound {
	return &Compound{byName: make(map[string]int)}
}

// Len returns the number of entries.
func (c *Compound) Len() int { return len(c.entries) }

// Entry returns the entry at position i. Callers must keep i in range.
func (c *Compound) Entry(i int) Entry { return c.entries[i] }

// Has reports whether a child with the given name exists.
func (c *Compound) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Get returns the child with the given name, or nil.
func (c *Compound) Get(name string) *Tag {
	if i, ok := c.byName[name]; ok {
		return c.entries[i].Tag
	}
	return nil
}

// IndexOf returns the position of the named child, or -1.
func (c *Compound) IndexOf(name string) int {
	if i, ok := c.byName[name]; ok {
		return i
	}
	return -1
}

// InsertAt places a new entry at position i, shifting later entries right.
// Fails with ErrKeyCollision when the name is already present; the compound
// is left unchanged. Collisions are never resolved by overwriting — the
// caller must rename first.
func (c *Compound) InsertAt(i int, name string, t *Tag) error {
	if i < 0 || i > len(c.entries) {
		return ErrIndexOutOfRange
	}
	if _, ok := c.byName[name]; ok {
		return ErrKeyCollision
	}
	c.entries = append(c.entries, Entry{})
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = Entry{Name: name, Tag: t}
	c.reindexFrom(i)
	return nil
}

// Append places a new entry at the end of the compound.
func (c *Compound) Append(name string, t *Tag) error {
	return c.InsertAt(len(c.entries), name, t)
}

// RemoveAt deletes and returns the entry at position i.
func (c *Compound) RemoveAt(i int) (Entry, bool) {
	if i < 0 || i >= len(c.entries) {
		return Entry{}, false
	}
	e := c.entries[i]
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	delete(c.byName, e.Name)
	c.reindexFrom(i)
	return e, true
}

// Rename changes the name of the entry at position i in place, keeping its
// position. Fails with ErrKeyCollision when another entry already uses the
// new name.
func (c *Compound) Rename(i int, newName string) error {
	if i < 0 || i >= len(c.entries) {
		return ErrIndexOutOfRange
	}
	old := c.entries[i].Name
	if old == newName {
		return nil
	}
	if _, ok := c.byName[newName]; ok {
		return ErrKeyCollision
	}
	delete(c.byName, old)
	c.byName[newName] = i
	c.entries[i].Name = newName
	return nil
}

func (c *Compound) reindexFrom(i int) {
	for ; i < len(c.entries); i++ {
		c.byName[c.entries[i].Name] = i
	}
}

func (c *Compound) copy() *Compound {
	n := newCompound()
	n.entries = make([]Entry, len(c.entries))
	for i, e := range c.entries {
		n.entries[i] = Entry{Name: e.Name, Tag: e.Tag.Copy()}
		n.byName[e.Name] = i
	}
	return n
}

func (c *Compound) equal(o *Compound) bool {
	if len(c.entries) != len(o.entries) {
		return false
	}
	for i, e := range c.entries {
		oe := o.entries[i]
		if e.Name != oe.Name || !e.Tag.Equal(oe.Tag) {
			return false
		}
	}
	return true
}

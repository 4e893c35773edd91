package region

import "sort"

// run is a contiguous range of free sectors.
type run struct {
	start uint32
	count uint32
}

// freeList tracks free sector runs, kept sorted by start and coalesced so
// first-fit allocation sees the widest possible gaps. The two header sectors
// are never part of the list.
type freeList struct {
	runs []run
}

// alloc removes and returns the start of the first run holding count
// sectors, splitting the run when it is larger. Returns false when no run
// fits; the caller appends to the file instead.
func (f *freeList) alloc(count uint32) (uint32, bool) {
	for i, r := range f.runs {
		if r.count < count {
			continue
		}
		start := r.start
		if r.count == count {
			f.runs = append(f.runs[:i], f.runs[i+1:]...)
		} else {
			f.runs[i] = run{start: r.start + count, count: r.count - count}
		}
		return start, true
	}
	return 0, false
}

// free returns a sector run to the list, merging with adjacent runs.
func (f *freeList) free(start, count uint32) {
	if count == 0 {
		return
	}
	i := sort.Search(len(f.runs), func(i int) bool { return f.runs[i].start >= start })
	f.runs = append(f.runs, run{})
	copy(f.runs[i+1:], f.runs[i:])
	f.runs[i] = run{start: start, count: count}

	// merge with successor, then predecessor
	if i+1 < len(f.runs) && f.runs[i].start+f.runs[i].count == f.runs[i+1].start {
		f.runs[i].count += f.runs[i+1].count
		f.runs = append(f.runs[:i+1], f.runs[i+2:]...)
	}
	if i > 0 && f.runs[i-1].start+f.runs[i-1].count == f.runs[i].start {
		f.runs[i-1].count += f.runs[i].count
		f.runs = append(f.runs[:i], f.runs[i+1:]...)
	}
}

// dropTrailing removes the run ending exactly at end, if any, and returns
// its start. Append-path writes use it to absorb the file's free tail
// instead of growing past it.
func (f *freeList) dropTrailing(end uint32) (uint32, bool) {
	if n := len(f.runs); n > 0 && f.runs[n-1].start+f.runs[n-1].count == end {
		start := f.runs[n-1].start
		f.runs = f.runs[:n-1]
		return start, true
	}
	return 0, false
}

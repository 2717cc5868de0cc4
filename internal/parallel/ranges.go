package parallel

// Range is a half-open index interval [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of indices in r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Split partitions [0, n) into at most parts contiguous ranges whose lengths
// differ by at most one. Empty ranges are never returned.
func Split(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	out := make([]Range, parts)
	base, extra := n/parts, n%parts
	start := 0
	for i := range out {
		size := base
		if i < extra {
			size++
		}
		out[i] = Range{Start: start, End: start + size}
		start += size
	}
	return out
}

// ForEach runs fn once per range on the pool and waits for all of them.
// fn must only write state owned by its range.
func (p *WorkerPool) ForEach(ranges []Range, fn func(Range)) error {
	work := make([]func(), len(ranges))
	for i, r := range ranges {
		work[i] = func() { fn(r) }
	}
	return p.ExecuteAll(work)
}

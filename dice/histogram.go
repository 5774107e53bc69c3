package dice

// Histogram counts rolls by their value. The zero value is ready to use and
// is safe to copy.
type Histogram struct {
	counts [13]int
	total  int
}

// Record counts one roll of value. Values outside 2..12 are ignored.
func (h *Histogram) Record(value int) {
	h.Add(value, 1)
}

// Add counts n rolls of value at once.
func (h *Histogram) Add(value, n int) {
	if value < 2 || value > 12 || n <= 0 {
		return
	}
	h.counts[value] += n
	h.total += n
}

func (h Histogram) Count(value int) int {
	if value < 2 || value > 12 {
		return 0
	}
	return h.counts[value]
}

func (h Histogram) Total() int {
	return h.total
}

// Percent returns the share of rolls that came up value, in percent.
func (h Histogram) Percent(value int) float64 {
	if h.total == 0 {
		return 0
	}
	return float64(h.Count(value)) * 100 / float64(h.total)
}

// Merge returns the sum of h and other.
func (h Histogram) Merge(other Histogram) Histogram {
	for v := range h.counts {
		h.counts[v] += other.counts[v]
	}
	h.total += other.total
	return h
}

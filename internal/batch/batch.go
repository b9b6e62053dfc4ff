package batch

// Outcome records the result of one message mutation within a batch round trip.
type Outcome struct {
	ID  string
	Err error
}

// Succeeded reports whether the mutation for this message completed without error.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Summary aggregates per-message outcomes across one or more batch round trips.
// Failed messages are counted but never abort the remainder of the batch.
type Summary struct {
	Total      int
	Successful int
	Failed     int
}

// Add folds a set of outcomes into the summary.
func (s *Summary) Add(outcomes []Outcome) {
	for _, o := range outcomes {
		s.Total++
		if o.Succeeded() {
			s.Successful++
		} else {
			s.Failed++
		}
	}
}

// Chunk splits ids into consecutive slices of at most size elements.
// The returned slices alias the input; size must be positive.
func Chunk(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// Succeeded returns the ids of all successful outcomes, preserving order.
func Succeeded(outcomes []Outcome) []string {
	var ids []string
	for _, o := range outcomes {
		if o.Succeeded() {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

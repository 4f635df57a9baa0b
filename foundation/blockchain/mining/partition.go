package mining

import "math"

// MaxNonce is the largest nonce a worker will ever try.
const MaxNonce uint64 = math.MaxUint64

// Range represents an inclusive set of nonces assigned to a single worker.
type Range struct {
	Start uint64
	End   uint64
}

// Size returns the number of nonces in the range.
func (r Range) Size() uint64 {
	return r.End - r.Start + 1
}

// Contains reports whether the nonce falls inside the range.
func (r Range) Contains(nonce uint64) bool {
	return nonce >= r.Start && nonce <= r.End
}

// Partition splits [0, MaxNonce] into the specified number of contiguous
// ranges of equal size. The last range absorbs whatever is left over so
// every nonce belongs to exactly one range.
func Partition(workers int) []Range {
	if workers <= 0 {
		return nil
	}

	size := MaxNonce / uint64(workers)

	ranges := make([]Range, workers)
	for i := range ranges {
		start := uint64(i) * size
		end := start + size - 1
		if i == workers-1 {
			end = MaxNonce
		}
		ranges[i] = Range{Start: start, End: end}
	}

	return ranges
}

package restore

import (
	"slices"

	"github.com/nspcc-dev/fsp/pkg/partstore"
)

// Sequence summarizes sequence numbers of the parts of a single key.
type Sequence struct {
	// First and Last are the smallest and the largest sequence numbers.
	First, Last int64
	// Missing lists numbers absent in [1, Last].
	Missing []int64
	// Duplicate lists numbers present more than once.
	Duplicate []int64
}

// Complete reports whether the parts form the 1..N sequence without gaps and
// repeats. Restore does not require it.
func (x Sequence) Complete() bool {
	return x.First == 1 && len(x.Missing) == 0 && len(x.Duplicate) == 0
}

// CheckSequence inspects sequence numbers of the parts.
func CheckSequence(parts []partstore.Part) Sequence {
	var res Sequence
	if len(parts) == 0 {
		return res
	}

	seqs := make([]int64, len(parts))
	for i := range parts {
		seqs[i] = parts[i].Seq
	}

	slices.Sort(seqs)

	res.First, res.Last = seqs[0], seqs[len(seqs)-1]

	next := int64(1)
	for i, s := range seqs {
		if i > 0 && s == seqs[i-1] {
			if len(res.Duplicate) == 0 || res.Duplicate[len(res.Duplicate)-1] != s {
				res.Duplicate = append(res.Duplicate, s)
			}
			continue
		}

		for ; next < s; next++ {
			res.Missing = append(res.Missing, next)
		}

		if s >= next {
			next = s + 1
		}
	}

	return res
}

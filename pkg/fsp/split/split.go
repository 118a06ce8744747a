package split

// Plan describes how a file of Length bytes is cut into parts: Count parts of
// Size bytes each, the last one possibly shorter. Count is never zero, so an
// empty file still produces a single zero-length part.
type Plan struct {
	Length uint64
	Count  uint64
	Size   uint64
}

// NewPlan computes a Plan for length bytes. The part count is derived from
// the number of started units of unit bytes, at most maxUnits per part, and
// the bytes are then spread evenly across the parts. Zero unit or maxUnits is
// treated as 1.
func NewPlan(length, unit, maxUnits uint64) Plan {
	unit = max(unit, 1)
	maxUnits = max(maxUnits, 1)

	units := ceilDiv(length, unit)
	count := max(ceilDiv(units, maxUnits), 1)

	return Plan{
		Length: length,
		Count:  count,
		Size:   ceilDiv(length, count),
	}
}

// PartLen returns the payload length of the i-th (0-based) part. It is zero
// for indices past the end of the data.
func (p Plan) PartLen(i uint64) uint64 {
	off := i * p.Size
	if i >= p.Count || off >= p.Length {
		return 0
	}

	return min(p.Size, p.Length-off)
}

func ceilDiv(a, b uint64) uint64 {
	if a == 0 {
		return 0
	}

	return (a-1)/b + 1
}

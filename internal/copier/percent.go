package copier

// Percent converts current/max into an integer percentage clamped to
// [0, 100]. A zero max yields 0 rather than dividing by zero.
func Percent(current, max uint64) int {
	if max == 0 {
		return 0
	}
	pct := int(float64(current) / float64(max) * 100)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// SyncPercent estimates completion of a flush from the kernel's dirty byte
// counter. before is the counter sampled before the copy, span is how many
// bytes the copy itself dirtied, and current is the latest sample. The value
// is flipped because fewer dirty bytes means the flush is closer to done.
//
// The counters are best-effort and not monotonic, so all subtraction
// saturates at zero.
func SyncPercent(before, span, current uint64) int {
	return 100 - Percent(saturatingSub(current, before), span)
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

package resumes

// Bounded most-recent-first history maintenance. The cap and the
// one-entry-per-cache-key rule live here so no call site slices by hand.

// pushFront prepends rec, removes any prior entry with the same key, and
// truncates to limit. The returned slice is a fresh copy.
func pushFront[T any](list []T, rec T, limit int, key func(T) string) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, rec)
	k := key(rec)
	for _, existing := range list {
		if key(existing) == k {
			continue
		}
		out = append(out, existing)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func findFirst[T any](list []T, match func(T) bool) (T, bool) {
	for _, item := range list {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func appendAnalysis(list []AnalysisRecord, rec AnalysisRecord) []AnalysisRecord {
	return pushFront(list, rec, HistoryLimit, func(a AnalysisRecord) string { return a.JobDescriptionHash })
}

func appendOptimization(list []OptimizationRecord, rec OptimizationRecord) []OptimizationRecord {
	return pushFront(list, rec, HistoryLimit, func(o OptimizationRecord) string { return o.JobDescriptionHash })
}

package roadmap

// Module completion and roadmap progress are derived values: callers
// recompute them through these functions after every resource write so the
// stored projections can never drift from their source.

// ModuleCompletion is the arithmetic mean of the resources' progress.
func ModuleCompletion(resourceProgress []int) float64 {
	if len(resourceProgress) == 0 {
		return 0
	}
	sum := 0
	for _, p := range resourceProgress {
		sum += p
	}
	return float64(sum) / float64(len(resourceProgress))
}

// DeriveStatus maps a module's completion percentage onto its status.
func DeriveStatus(completion float64) ModuleStatus {
	switch {
	case completion >= 100:
		return StatusCompleted
	case completion > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// RoadmapProgress is the arithmetic mean of the modules' completion.
func RoadmapProgress(moduleCompletion []float64) float64 {
	if len(moduleCompletion) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range moduleCompletion {
		sum += c
	}
	return sum / float64(len(moduleCompletion))
}

func ValidProgress(v int) bool {
	return v >= 0 && v <= 100
}

// BoostedMastery applies the completion boost to a mastery value, capped at
// the mastery ceiling.
func BoostedMastery(current, boost int) int {
	next := current + boost
	if next > 100 {
		return 100
	}
	if next < 0 {
		return 0
	}
	return next
}

package wiktextract

// mergingMaxDepth bounds the plain merge to the word's own POS entries.
const mergingMaxDepth = 0

// mergingMaxDepthWithFormOf bounds the form-of-aware merge: base POS (depth
// 0, weight 1), direct form_of (depth 1, weight 2), next level (depth 2,
// weight 3).
const mergingMaxDepthWithFormOf = 2

// wordEvaluator accumulates sense-level evidence for one (word, pos) pair.
type wordEvaluator struct {
	formOfs        []string
	exclusionCount int
	offensiveCount int
	normalCount    int
}

func (e *wordEvaluator) isExcluded() bool {
	return e.exclusionCount >= e.offensiveCount && e.exclusionCount >= e.normalCount
}

func (e *wordEvaluator) isOffensive() bool {
	return e.offensiveCount >= e.normalCount
}

// mergeEvaluatorCounts folds posEvaluator's counts into target at the given
// depth's weight (depth+1), then recurses into its form_ofs up to maxDepth,
// looking up each referenced base word's evaluator for the same pos.
func mergeEvaluatorCounts(target *wordEvaluator, posEvaluator *wordEvaluator, pos string, maxDepth, depth int, parsedData map[string]map[string]*wordEvaluator) {
	weight := depth + 1
	target.exclusionCount += weight * posEvaluator.exclusionCount
	target.offensiveCount += weight * posEvaluator.offensiveCount
	target.normalCount += weight * posEvaluator.normalCount

	if depth >= maxDepth {
		return
	}
	for _, formOf := range posEvaluator.formOfs {
		posMap, ok := parsedData[formOf]
		if !ok {
			continue
		}
		baseEvaluator, ok := posMap[pos]
		if !ok {
			continue
		}
		mergeEvaluatorCounts(target, baseEvaluator, pos, maxDepth, depth+1, parsedData)
	}
}

package metrics

// Offline retrieval evaluation against ground-truth relevance sets.

// PrecisionAtK returns the fraction of the top k retrieved items that are
// relevant. Returns 0 when k is 0.
func PrecisionAtK(retrieved []int64, relevant map[int64]struct{}, k int) float64 {
	if k <= 0 {
		return 0
	}
	if k > len(retrieved) {
		k = len(retrieved)
	}

	hits := 0
	for _, item := range retrieved[:k] {
		if _, ok := relevant[item]; ok {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// RecallAtK returns the fraction of relevant items found in the top k.
// Returns 0 when the relevant set is empty.
func RecallAtK(retrieved []int64, relevant map[int64]struct{}, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	if k > len(retrieved) {
		k = len(retrieved)
	}

	hits := 0
	for _, item := range retrieved[:k] {
		if _, ok := relevant[item]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(relevant))
}

// AveragePrecision returns the average of precision values at each rank
// where a relevant item appears, normalized by the relevant set size.
func AveragePrecision(retrieved []int64, relevant map[int64]struct{}) float64 {
	if len(relevant) == 0 {
		return 0
	}

	var sum float64
	hits := 0
	for i, item := range retrieved {
		if _, ok := relevant[item]; ok {
			hits++
			sum += float64(hits) / float64(i+1)
		}
	}
	if hits == 0 {
		return 0
	}
	return sum / float64(len(relevant))
}

// MeanAveragePrecision returns the mean of per-query average precision.
// The two slices are paired by position; extra entries in either are
// ignored. Returns 0 when there are no queries.
func MeanAveragePrecision(allRetrieved [][]int64, allRelevant []map[int64]struct{}) float64 {
	n := len(allRetrieved)
	if len(allRelevant) < n {
		n = len(allRelevant)
	}
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += AveragePrecision(allRetrieved[i], allRelevant[i])
	}
	return sum / float64(n)
}

// Package selection holds the pure board-assembly algorithms: joining the
// two problem feeds into a catalog and drawing a difficulty-stratified
// board from it. Nothing here touches the network or the database.
package selection

import (
	"math/rand"
	"sort"

	"atcoder_bingo/internal/domain/model"
)

// Bucket is a half-open difficulty interval [Lower, Upper).
type Bucket struct {
	Lower int
	Upper int
}

// QuotaPerBucket is the number of problems drawn per bucket: one 3x3 bingo
// card per difficulty level.
const QuotaPerBucket = 9

// DefaultBuckets returns the five reference difficulty levels. Adjacent
// intervals overlap on purpose so problems near a border stay eligible for
// both neighboring levels.
func DefaultBuckets() []Bucket {
	return []Bucket{
		{-10000, 600},
		{400, 1400},
		{1200, 2200},
		{2000, 2800},
		{2600, 10000},
	}
}

// BoardSize is the total number of entries of a complete board.
func BoardSize() int {
	return len(DefaultBuckets()) * QuotaPerBucket
}

// BuildCatalog inner-joins the difficulty feed with the metadata feed on
// problem id. Entries without a usable difficulty estimate (missing fields
// or experimental) are excluded, and difficulty entries with no matching
// metadata are dropped silently. Output order is unspecified.
func BuildCatalog(difficulties map[string]model.DifficultyEstimate, infos []model.ProblemInfo) []model.CatalogProblem {
	infoByID := make(map[string]model.ProblemInfo, len(infos))
	for _, info := range infos {
		infoByID[info.ID] = info
	}

	catalog := make([]model.CatalogProblem, 0, len(difficulties))
	for problemID, estimate := range difficulties {
		if estimate.Difficulty == nil || estimate.IsExperimental == nil || *estimate.IsExperimental {
			continue
		}
		info, ok := infoByID[problemID]
		if !ok {
			continue
		}
		catalog = append(catalog, model.CatalogProblem{
			ProblemID:  problemID,
			ContestID:  info.ContestID,
			Title:      info.Title,
			Difficulty: *estimate.Difficulty,
		})
	}
	return catalog
}

// BucketRange locates, in a difficulty-sorted sequence, the index range of
// entries with lower <= difficulty < upper. Ties at either bound land on
// the correct side: an entry equal to lower is inside, equal to upper is
// outside.
func BucketRange(sortedDiffs []int, lower, upper int) (int, int) {
	lo := sort.SearchInts(sortedDiffs, lower)
	hi := sort.SearchInts(sortedDiffs, upper)
	return lo, hi
}

// SelectBoard draws QuotaPerBucket-sized samples (quota, here) from each
// bucket without replacement and concatenates them in bucket order; the
// index in the result defines the persisted board position. A bucket with
// fewer than quota eligible problems contributes all of them. Selection is
// independent per bucket, so a problem inside two overlapping buckets can
// appear once in each; that duplication is accepted.
//
// The caller owns the random source, so a fixed seed gives a fixed board.
func SelectBoard(catalog []model.CatalogProblem, buckets []Bucket, quota int, rng *rand.Rand) []model.CatalogProblem {
	sorted := make([]model.CatalogProblem, len(catalog))
	copy(sorted, catalog)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Difficulty < sorted[j].Difficulty })

	diffs := make([]int, len(sorted))
	for i, p := range sorted {
		diffs[i] = p.Difficulty
	}

	board := make([]model.CatalogProblem, 0, len(buckets)*quota)
	for _, bucket := range buckets {
		lo, hi := BucketRange(diffs, bucket.Lower, bucket.Upper)
		for _, idx := range sampleIndices(lo, hi, quota, rng) {
			board = append(board, sorted[idx])
		}
	}
	return board
}

// sampleIndices draws min(k, hi-lo) distinct indices from [lo, hi) by
// partially shuffling the range.
func sampleIndices(lo, hi, k int, rng *rand.Rand) []int {
	n := hi - lo
	if n <= 0 {
		return nil
	}
	if k > n {
		k = n
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = lo + i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		indices[i], indices[j] = indices[j], indices[i]
	}
	return indices[:k]
}

// Package folds partitions a sample index set into cross-validation folds.
package folds

import "fmt"

// #region partition

// Partition pairs disjoint train and validation index sets for one fold.
type Partition struct {
	Train []int
	Val   []int
}

// #endregion

// #region split

// Split divides [0,n) into k contiguous folds. The first n mod k folds get one
// extra validation row. Deterministic given the same n and k; every index
// appears in exactly one validation set.
func Split(n, k int) ([]Partition, error) {
	if k < 2 {
		return nil, fmt.Errorf("fold count must be at least 2, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("fold count %d exceeds sample count %d", k, n)
	}

	parts := make([]Partition, 0, k)
	base := n / k
	extra := n % k
	start := 0
	for i := 0; i < k; i++ {
		size := base
		if i < extra {
			size++
		}
		end := start + size

		val := make([]int, 0, size)
		train := make([]int, 0, n-size)
		for j := 0; j < n; j++ {
			if j >= start && j < end {
				val = append(val, j)
			} else {
				train = append(train, j)
			}
		}
		parts = append(parts, Partition{Train: train, Val: val})
		start = end
	}
	return parts, nil
}

// #endregion

package gridsearch

// #region imports
import (
	"fmt"
	"sort"

	"github.com/474benchen/bias-aware-gridsearch/internal/estimator"
)

// #endregion

// #region grid

// Grid maps each hyperparameter name to the list of values to try.
type Grid map[string][]float64

// Size returns the number of configurations in the Cartesian product.
func (g Grid) Size() int {
	if len(g) == 0 {
		return 0
	}
	n := 1
	for _, vals := range g {
		n *= len(vals)
	}
	return n
}

// Validate rejects empty grids and empty value lists.
func (g Grid) Validate() error {
	if len(g) == 0 {
		return fmt.Errorf("grid has no parameters")
	}
	for name, vals := range g {
		if len(vals) == 0 {
			return fmt.Errorf("grid parameter %q has no values", name)
		}
	}
	return nil
}

// #endregion

// #region enumerate

// Enumerate produces every configuration in deterministic order: parameter
// names sorted lexicographically, value lists in declared order, with the
// last-sorted name varying fastest.
func (g Grid) Enumerate() []estimator.Params {
	if g.Size() == 0 {
		return nil
	}
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]estimator.Params, 0, g.Size())
	cursor := make([]int, len(names))
	for {
		p := make(estimator.Params, len(names))
		for i, name := range names {
			p[name] = g[name][cursor[i]]
		}
		out = append(out, p)

		// Odometer increment, last name fastest.
		i := len(names) - 1
		for i >= 0 {
			cursor[i]++
			if cursor[i] < len(g[names[i]]) {
				break
			}
			cursor[i] = 0
			i--
		}
		if i < 0 {
			return out
		}
	}
}

// #endregion

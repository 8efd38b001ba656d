package estimator

// #region imports
import (
	"errors"
	"math"
	"sort"
)

// #endregion

// #region knn

// KNN is a lazy k-nearest-neighbors classifier over 0/1 labels using
// Euclidean distance. Distance ties resolve to the lower row index and vote
// ties to label 0, keeping predictions deterministic.
type KNN struct {
	k int

	x [][]float64
	y []float64
}

// NewKNN returns a KNN classifier with k=5.
func NewKNN() *KNN {
	return &KNN{k: 5}
}

// Name implements Estimator.
func (m *KNN) Name() string { return "knn" }

// Clone copies k only; stored training data is not shared.
func (m *KNN) Clone() Estimator {
	return &KNN{k: m.k}
}

// SetParams recognizes k (positive integer).
func (m *KNN) SetParams(p Params) error {
	for name, v := range p {
		switch name {
		case "k":
			if v < 1 || v != math.Trunc(v) {
				return &ConfigurationError{Param: name, Reason: "must be a positive integer"}
			}
			m.k = int(v)
		default:
			return &ConfigurationError{Param: name, Reason: "is not a hyperparameter of knn"}
		}
	}
	return nil
}

// #endregion

// #region fit-predict

// Fit stores copies of the training data.
func (m *KNN) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("knn: empty training set")
	}
	if len(X) != len(y) {
		return errors.New("knn: feature and label counts differ")
	}
	if m.k > len(X) {
		return errors.New("knn: k exceeds training set size")
	}
	m.x = make([][]float64, len(X))
	for i, row := range X {
		m.x[i] = append([]float64(nil), row...)
	}
	m.y = append([]float64(nil), y...)
	return nil
}

// Predict majority-votes among the k nearest stored rows.
func (m *KNN) Predict(X [][]float64) ([]float64, error) {
	if m.x == nil {
		return nil, errors.New("knn: predict before fit")
	}
	out := make([]float64, len(X))
	for i, row := range X {
		label, err := m.predictRow(row)
		if err != nil {
			return nil, err
		}
		out[i] = label
	}
	return out, nil
}

func (m *KNN) predictRow(row []float64) (float64, error) {
	type neighbor struct {
		dist float64
		idx  int
	}
	neighbors := make([]neighbor, len(m.x))
	for i, tr := range m.x {
		if len(tr) != len(row) {
			return 0, errors.New("knn: feature count mismatch")
		}
		s := 0.0
		for j := range tr {
			d := tr[j] - row[j]
			s += d * d
		}
		neighbors[i] = neighbor{dist: s, idx: i}
	}
	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].dist != neighbors[b].dist {
			return neighbors[a].dist < neighbors[b].dist
		}
		return neighbors[a].idx < neighbors[b].idx
	})

	ones := 0
	for _, nb := range neighbors[:m.k] {
		if m.y[nb.idx] == 1 {
			ones++
		}
	}
	if ones*2 > m.k {
		return 1, nil
	}
	return 0, nil
}

// #endregion

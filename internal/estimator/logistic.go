package estimator

// #region imports
import (
	"errors"
	"math"
)

// #endregion

// #region logistic

// Logistic is binary logistic regression trained by full-batch gradient
// descent. Weights start at zero, so training is deterministic for a given
// dataset and configuration.
type Logistic struct {
	lr     float64
	epochs int
	l2     float64

	w      []float64
	b      float64
	fitted bool
}

// NewLogistic returns a logistic regression with default hyperparameters.
func NewLogistic() *Logistic {
	return &Logistic{lr: 0.1, epochs: 100, l2: 0}
}

// Name implements Estimator.
func (m *Logistic) Name() string { return "logistic" }

// Clone copies hyperparameters only; fitted weights are not shared.
func (m *Logistic) Clone() Estimator {
	return &Logistic{lr: m.lr, epochs: m.epochs, l2: m.l2}
}

// #endregion

// #region set-params

// SetParams recognizes lr (>0), epochs (positive integer), and l2 (>=0).
func (m *Logistic) SetParams(p Params) error {
	for name, v := range p {
		switch name {
		case "lr":
			if v <= 0 {
				return &ConfigurationError{Param: name, Reason: "must be positive"}
			}
			m.lr = v
		case "epochs":
			if v < 1 || v != math.Trunc(v) {
				return &ConfigurationError{Param: name, Reason: "must be a positive integer"}
			}
			m.epochs = int(v)
		case "l2":
			if v < 0 {
				return &ConfigurationError{Param: name, Reason: "must be non-negative"}
			}
			m.l2 = v
		default:
			return &ConfigurationError{Param: name, Reason: "is not a hyperparameter of logistic"}
		}
	}
	return nil
}

// #endregion

// #region fit

// Fit trains with full-batch gradient descent on the binary cross-entropy
// loss, plus optional L2 weight decay.
func (m *Logistic) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("logistic: empty training set")
	}
	if len(X) != len(y) {
		return errors.New("logistic: feature and label counts differ")
	}

	nFeat := len(X[0])
	m.w = make([]float64, nFeat)
	m.b = 0

	n := float64(len(X))
	for ep := 0; ep < m.epochs; ep++ {
		gw := make([]float64, nFeat)
		gb := 0.0
		for i, row := range X {
			if len(row) != nFeat {
				return errors.New("logistic: ragged feature matrix")
			}
			d := sigmoid(m.dot(row)) - y[i]
			for j, xij := range row {
				gw[j] += d * xij
			}
			gb += d
		}
		for j := range m.w {
			m.w[j] -= m.lr * (gw[j]/n + m.l2*m.w[j])
		}
		m.b -= m.lr * gb / n
	}
	m.fitted = true
	return nil
}

// #endregion

// #region predict

// Predict thresholds the sigmoid output at 0.5.
func (m *Logistic) Predict(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("logistic: predict before fit")
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.w) {
			return nil, errors.New("logistic: feature count mismatch")
		}
		if sigmoid(m.dot(row)) >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

func (m *Logistic) dot(row []float64) float64 {
	s := m.b
	for j, v := range row {
		s += m.w[j] * v
	}
	return s
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// #endregion

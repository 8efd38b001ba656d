package dataset

// #region imports
import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// #endregion

// #region from-csv

// FromCSV loads a frame from a headered CSV file. Every cell must parse as a
// float64; a malformed row fails the load rather than being skipped.
func FromCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV parses headered CSV from r into a frame.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	names := append([]string(nil), header...)
	cols := make(map[string][]float64, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, dataErrorf("duplicate column %q in csv header", name)
		}
		seen[name] = true
		cols[name] = nil
	}

	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		line++
		if len(rec) != len(names) {
			return nil, dataErrorf("row %d has %d fields, want %d", line, len(rec), len(names))
		}
		for i, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, dataErrorf("row %d column %q: %q is not numeric", line, names[i], s)
			}
			cols[names[i]] = append(cols[names[i]], v)
		}
	}
	return New(names, cols)
}

// #endregion

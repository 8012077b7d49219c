// Package dataset loads recorded trajectory datasets: plain text files
// with one numeric value per line and no header, one file per column.
package dataset

import (
	"bufio"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/courtvision/balltrack/track"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Column file names inside a dataset directory.
const (
	TruthXFile = "x_true.txt"
	TruthYFile = "y_true.txt"
	MeasXFile  = "na.txt"
	MeasYFile  = "nb.txt"
)

// Dataset is one recorded trajectory: ground truth positions and the
// corresponding noisy measurements.
type Dataset struct {
	Name  string
	Truth track.Trajectory
	Meas  track.Trajectory
}

// ReadColumn reads a single numeric column: one value per line.
// Blank lines are skipped.
// It returns error if any line fails to parse.
func ReadColumn(r io.Reader) ([]float64, error) {
	var vals []float64

	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		txt := strings.TrimSpace(s.Text())
		if txt == "" {
			continue
		}

		v, err := strconv.ParseFloat(txt, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing line %d", line)
		}
		vals = append(vals, v)
	}

	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "reading column")
	}

	return vals, nil
}

// ReadTrajectory builds a trajectory from x and y column readers.
// It returns error if the columns differ in length or are empty.
func ReadTrajectory(xr, yr io.Reader) (track.Trajectory, error) {
	xs, err := ReadColumn(xr)
	if err != nil {
		return nil, errors.Wrap(err, "x column")
	}

	ys, err := ReadColumn(yr)
	if err != nil {
		return nil, errors.Wrap(err, "y column")
	}

	if len(xs) != len(ys) {
		return nil, errors.Errorf("column length mismatch: %d != %d", len(xs), len(ys))
	}

	if len(xs) == 0 {
		return nil, errors.New("empty columns")
	}

	t := make(track.Trajectory, len(xs))
	for i := range xs {
		t[i] = track.Point{X: xs[i], Y: ys[i]}
	}

	return t, nil
}

func readColumnFile(fsys fs.FS, name string) ([]float64, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", name)
	}
	defer f.Close()

	vals, err := ReadColumn(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}

	return vals, nil
}

// Load reads the four column files of one dataset directory off fsys.
// It returns error if any file is unreadable or malformed, or if the
// ground truth and measurement sequences differ in length.
func Load(fsys fs.FS, name string) (*Dataset, error) {
	cols := make(map[string][]float64, 4)
	for _, file := range []string{TruthXFile, TruthYFile, MeasXFile, MeasYFile} {
		vals, err := readColumnFile(fsys, path.Join(name, file))
		if err != nil {
			return nil, err
		}
		cols[file] = vals
	}

	n := len(cols[TruthXFile])
	for file, vals := range cols {
		if len(vals) != n {
			return nil, errors.Errorf("column length mismatch in %s: %s has %d values, want %d",
				name, file, len(vals), n)
		}
	}

	if n == 0 {
		return nil, errors.Errorf("dataset %s is empty", name)
	}

	d := &Dataset{
		Name:  name,
		Truth: make(track.Trajectory, n),
		Meas:  make(track.Trajectory, n),
	}
	for i := 0; i < n; i++ {
		d.Truth[i] = track.Point{X: cols[TruthXFile][i], Y: cols[TruthYFile][i]}
		d.Meas[i] = track.Point{X: cols[MeasXFile][i], Y: cols[MeasYFile][i]}
	}

	return d, nil
}

// LoadAll loads the named datasets off fsys. Unreadable or malformed
// datasets are logged and skipped; the rest are returned in input order.
func LoadAll(fsys fs.FS, names []string, log *logrus.Logger) []*Dataset {
	if log == nil {
		log = logrus.StandardLogger()
	}

	datasets := make([]*Dataset, 0, len(names))
	for _, name := range names {
		d, err := Load(fsys, name)
		if err != nil {
			log.WithError(err).WithField("dataset", name).Warn("skipping dataset")
			continue
		}
		datasets = append(datasets, d)
	}

	return datasets
}

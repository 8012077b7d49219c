package dataset

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestReadColumn(t *testing.T) {
	assert := assert.New(t)

	vals, err := ReadColumn(strings.NewReader("1.5\n-2.25\n0\n"))
	assert.NoError(err)
	assert.Equal([]float64{1.5, -2.25, 0}, vals)

	// blank lines are skipped
	vals, err = ReadColumn(strings.NewReader("1\n\n2\n\n"))
	assert.NoError(err)
	assert.Equal([]float64{1, 2}, vals)

	// malformed value reports the line
	vals, err = ReadColumn(strings.NewReader("1\nnope\n3\n"))
	assert.Nil(vals)
	assert.Error(err)
	assert.Contains(err.Error(), "line 2")
}

func TestReadTrajectory(t *testing.T) {
	assert := assert.New(t)

	tr, err := ReadTrajectory(strings.NewReader("0\n1\n2\n"), strings.NewReader("0\n1\n2\n"))
	assert.NoError(err)
	assert.Equal(3, len(tr))
	assert.Equal(1.0, tr[1].X)
	assert.Equal(2.0, tr[2].Y)

	// length mismatch is fatal
	tr, err = ReadTrajectory(strings.NewReader("0\n1\n"), strings.NewReader("0\n"))
	assert.Nil(tr)
	assert.Error(err)

	// empty columns
	tr, err = ReadTrajectory(strings.NewReader(""), strings.NewReader(""))
	assert.Nil(tr)
	assert.Error(err)
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"run1/x_true.txt": &fstest.MapFile{Data: []byte("0\n1\n2\n")},
		"run1/y_true.txt": &fstest.MapFile{Data: []byte("0\n1\n2\n")},
		"run1/na.txt":     &fstest.MapFile{Data: []byte("0.1\n1.1\n2.1\n")},
		"run1/nb.txt":     &fstest.MapFile{Data: []byte("-0.1\n0.9\n1.9\n")},
		"run2/x_true.txt": &fstest.MapFile{Data: []byte("0\n1\n")},
		"run2/y_true.txt": &fstest.MapFile{Data: []byte("0\n1\n2\n")},
		"run2/na.txt":     &fstest.MapFile{Data: []byte("0\n1\n")},
		"run2/nb.txt":     &fstest.MapFile{Data: []byte("0\n1\n")},
	}
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	d, err := Load(testFS(), "run1")
	assert.NotNil(d)
	assert.NoError(err)
	assert.Equal("run1", d.Name)
	assert.Equal(3, len(d.Truth))
	assert.Equal(3, len(d.Meas))
	assert.Equal(0.1, d.Meas[0].X)
	assert.Equal(-0.1, d.Meas[0].Y)

	// column length mismatch is fatal for the dataset
	d, err = Load(testFS(), "run2")
	assert.Nil(d)
	assert.Error(err)

	// missing dataset
	d, err = Load(testFS(), "run3")
	assert.Nil(d)
	assert.Error(err)
}

func TestLoadAllSkipsBroken(t *testing.T) {
	assert := assert.New(t)

	log := logrus.New()
	log.SetOutput(io.Discard)

	datasets := LoadAll(testFS(), []string{"run1", "run2", "run3"}, log)
	assert.Equal(1, len(datasets))
	assert.Equal("run1", datasets[0].Name)
}

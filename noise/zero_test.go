package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewZero(t *testing.T) {
	assert := assert.New(t)

	z, err := NewZero(4)
	assert.NotNil(z)
	assert.NoError(err)

	z, err = NewZero(-1)
	assert.Nil(z)
	assert.Error(err)
}

func TestZeroSampleMeanCov(t *testing.T) {
	assert := assert.New(t)

	z, err := NewZero(4)
	assert.NotNil(z)
	assert.NoError(err)

	sample := z.Sample()
	assert.Equal(4, sample.Len())
	for i := 0; i < sample.Len(); i++ {
		assert.Equal(0.0, sample.AtVec(i))
	}

	assert.EqualValues(make([]float64, 4), z.Mean())

	cov := z.Cov()
	assert.Equal(4, cov.Symmetric())
	assert.Equal(0.0, mat.Sum(cov))

	z.Reset()
}

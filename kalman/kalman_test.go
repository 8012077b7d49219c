package kalman

import (
	"os"
	"testing"

	"github.com/courtvision/balltrack"
	"github.com/courtvision/balltrack/model"
	"github.com/courtvision/balltrack/noise"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

type invalidModel struct {
	balltrack.DiscreteModel
	nx int
	ny int
}

func (m *invalidModel) Dims() (nx, ny int) {
	return m.nx, m.ny
}

var (
	okModel  *model.ConstantVelocity
	badModel *invalidModel
	ic       *model.InitCond
	q        balltrack.Noise
	r        balltrack.Noise
	z        *mat.VecDense
)

func setup() {
	z = mat.NewVecDense(2, []float64{0.1, -0.1})

	okModel, _ = model.NewConstantVelocity(0.5)
	badModel = &invalidModel{DiscreteModel: okModel, nx: 10, ny: 10}

	initState := mat.NewVecDense(4, []float64{0.1, -0.1, 0.0, 0.0})
	initCov, _ := model.Cov(4, 100.0)
	ic = model.NewInitCond(initState, initCov)

	qCov, _ := model.Cov(4, 0.01)
	rCov, _ := model.Cov(2, 0.1)
	q, _ = noise.NewGaussian(make([]float64, 4), qCov)
	r, _ = noise.NewGaussian(make([]float64, 2), rCov)
}

func TestMain(m *testing.M) {
	// set up tests
	setup()
	// run the tests
	retCode := m.Run()
	// call with result of m.Run()
	os.Exit(retCode)
}

func TestNew(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NotNil(f)
	assert.NoError(err)

	// invalid model: negative dimensions
	badModel.nx, badModel.ny = -10, 20
	f, err = New(badModel, ic, q, r)
	assert.Nil(f)
	assert.Error(err)

	// invalid state noise dimension
	_q := q
	q, _ = noise.NewZero(20)
	f, err = New(okModel, ic, q, r)
	assert.Nil(f)
	assert.Error(err)
	q = _q

	// invalid output noise dimension
	_r := r
	r, _ = noise.NewZero(20)
	f, err = New(okModel, ic, q, r)
	assert.Nil(f)
	assert.Error(err)
	r = _r

	// zero [state and output] noise
	f, err = New(okModel, ic, nil, nil)
	assert.NotNil(f)
	assert.NoError(err)
}

func TestPredict(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NotNil(f)
	assert.NoError(err)

	x := mat.VecDenseCopyOf(ic.State())
	est, err := f.Predict(x)
	assert.NotNil(est)
	assert.NoError(err)

	// zero initial velocity: predicted position equals initial position
	assert.InDelta(0.1, est.Val().AtVec(0), 1e-12)
	assert.InDelta(-0.1, est.Val().AtVec(1), 1e-12)

	// predicted covariance grows: F*P*F' + Q has positive trace increment
	var tr float64
	for i := 0; i < 4; i++ {
		tr += est.Cov().At(i, i)
	}
	assert.True(tr > 400.0)

	// invalid state vector
	est, err = f.Predict(mat.NewVecDense(2, nil))
	assert.Nil(est)
	assert.Error(err)
}

func TestUpdate(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NotNil(f)
	assert.NoError(err)

	x := mat.VecDenseCopyOf(ic.State())
	pred, err := f.Predict(x)
	assert.NoError(err)

	est, err := f.Update(pred.Val(), z)
	assert.NotNil(est)
	assert.NoError(err)

	// measurement equals prediction: zero innovation leaves the state put
	assert.InDelta(0.1, est.Val().AtVec(0), 1e-12)
	assert.InDelta(-0.1, est.Val().AtVec(1), 1e-12)

	// fusing a measurement shrinks positional uncertainty
	assert.True(est.Cov().At(0, 0) < 100.0)
	assert.True(est.Cov().At(1, 1) < 100.0)

	// invalid measurement vector
	est, err = f.Update(pred.Val(), mat.NewVecDense(3, nil))
	assert.Nil(est)
	assert.Error(err)
}

func TestUpdateSingularInnovation(t *testing.T) {
	assert := assert.New(t)

	// zero measurement noise and zero predicted covariance make S singular
	zeroQ, _ := noise.NewZero(4)
	zeroR, _ := noise.NewZero(2)
	zeroIC := model.NewInitCond(mat.NewVecDense(4, nil), mat.NewSymDense(4, nil))

	f, err := New(okModel, zeroIC, zeroQ, zeroR)
	assert.NotNil(f)
	assert.NoError(err)

	x := mat.NewVecDense(4, nil)
	pred, err := f.Predict(x)
	assert.NoError(err)

	est, err := f.Update(pred.Val(), z)
	assert.Nil(est)
	assert.Error(err)
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NotNil(f)
	assert.NoError(err)

	x := mat.VecDenseCopyOf(ic.State())
	est, err := f.Run(x, z)
	assert.NotNil(est)
	assert.NoError(err)

	// invalid measurement vector
	est, err = f.Run(x, mat.NewVecDense(3, nil))
	assert.Nil(est)
	assert.Error(err)
}

func TestCov(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NotNil(f)
	assert.NoError(err)

	cov := f.Cov()
	assert.NotNil(cov)

	err = f.SetCov(nil)
	assert.Error(err)

	err = f.SetCov(mat.NewSymDense(30, nil))
	assert.Error(err)

	err = f.SetCov(mat.NewSymDense(f.p.Symmetric(), nil))
	assert.NoError(err)
}

func TestGainModelNoise(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NotNil(f)
	assert.NoError(err)

	assert.NotNil(f.Gain())
	assert.NotNil(f.Model())
	assert.NotNil(f.StateNoise())
	assert.NotNil(f.OutputNoise())
}

// Package track runs batch constant velocity Kalman filtering over
// recorded 2D position measurements and scores filtered trajectories
// against ground truth.
package track

import (
	"fmt"
	"math"

	"github.com/courtvision/balltrack/kalman"
	"github.com/courtvision/balltrack/model"
	"github.com/courtvision/balltrack/noise"
	"gonum.org/v1/gonum/mat"
)

// Default tracker configuration values.
const (
	DefaultTimeStep         = 1.0
	DefaultProcessNoise     = 0.01
	DefaultMeasurementNoise = 0.1
	DefaultInitCovScale     = 100.0
)

// Point is a 2D position.
type Point struct {
	X float64
	Y float64
}

// Trajectory is an ordered sequence of 2D positions.
type Trajectory []Point

// Dense returns the trajectory as an Nx2 matrix.
func (t Trajectory) Dense() *mat.Dense {
	d := mat.NewDense(len(t), 2, nil)
	for i, p := range t {
		d.Set(i, 0, p.X)
		d.Set(i, 1, p.Y)
	}

	return d
}

// Config configures a Tracker.
// Zero value fields are replaced with package defaults.
type Config struct {
	// TimeStep is the sampling time step of the motion model
	TimeStep float64
	// ProcessNoise scales the process noise covariance Q = ProcessNoise * I
	ProcessNoise float64
	// MeasurementNoise scales the measurement noise covariance R = MeasurementNoise * I
	MeasurementNoise float64
	// InitCovScale scales the initial state covariance P0 = InitCovScale * I
	InitCovScale float64
}

func (c Config) withDefaults() Config {
	if c.TimeStep == 0 {
		c.TimeStep = DefaultTimeStep
	}
	if c.ProcessNoise == 0 {
		c.ProcessNoise = DefaultProcessNoise
	}
	if c.MeasurementNoise == 0 {
		c.MeasurementNoise = DefaultMeasurementNoise
	}
	if c.InitCovScale == 0 {
		c.InitCovScale = DefaultInitCovScale
	}
	return c
}

// Tracker filters noisy 2D position measurements with a constant
// velocity Kalman filter.
type Tracker struct {
	cfg Config
}

// New creates new Tracker with the given configuration and returns it.
// It returns error if any configuration value is negative.
func New(cfg Config) (*Tracker, error) {
	cfg = cfg.withDefaults()

	if cfg.TimeStep < 0 || cfg.ProcessNoise < 0 || cfg.MeasurementNoise < 0 || cfg.InitCovScale < 0 {
		return nil, fmt.Errorf("invalid tracker configuration: %+v", cfg)
	}

	return &Tracker{cfg: cfg}, nil
}

// Config returns the tracker configuration with defaults applied.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Result holds the output of one filtering pass.
type Result struct {
	// Filtered holds the position estimates, one per measurement
	Filtered Trajectory
	// CovTrace holds the covariance matrix trace after each step
	CovTrace []float64
}

// Track runs one full filtering pass over meas and returns the filtered
// trajectory. The filter state is initialized to the first measurement
// with zero velocity and covariance InitCovScale * I. The pass is strictly
// sequential: the estimate at step i depends on all steps before it.
// It returns error if meas is empty or the filter fails at any step.
func (t *Tracker) Track(meas Trajectory) (*Result, error) {
	if len(meas) == 0 {
		return nil, fmt.Errorf("no measurements supplied")
	}

	cv, err := model.NewConstantVelocity(t.cfg.TimeStep)
	if err != nil {
		return nil, err
	}

	initCov, err := model.Cov(4, t.cfg.InitCovScale)
	if err != nil {
		return nil, err
	}

	qCov, err := model.Cov(4, t.cfg.ProcessNoise)
	if err != nil {
		return nil, err
	}

	rCov, err := model.Cov(2, t.cfg.MeasurementNoise)
	if err != nil {
		return nil, err
	}

	q, err := noise.NewGaussian(make([]float64, 4), qCov)
	if err != nil {
		return nil, fmt.Errorf("failed to create process noise: %v", err)
	}

	r, err := noise.NewGaussian(make([]float64, 2), rCov)
	if err != nil {
		return nil, fmt.Errorf("failed to create measurement noise: %v", err)
	}

	x := mat.NewVecDense(4, []float64{meas[0].X, meas[0].Y, 0, 0})
	ic := model.NewInitCond(x, initCov)

	f, err := kalman.New(cv, ic, q, r)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Filtered: make(Trajectory, 0, len(meas)),
		CovTrace: make([]float64, 0, len(meas)),
	}

	for i, z := range meas {
		est, err := f.Run(x, mat.NewVecDense(2, []float64{z.X, z.Y}))
		if err != nil {
			return nil, fmt.Errorf("filter failed at step %d: %v", i, err)
		}

		x = mat.VecDenseCopyOf(est.Val())
		res.Filtered = append(res.Filtered, Point{X: x.AtVec(0), Y: x.AtVec(1)})

		cov := est.Cov()
		var tr float64
		for d := 0; d < cov.Symmetric(); d++ {
			tr += cov.At(d, d)
		}
		res.CovTrace = append(res.CovTrace, tr)
	}

	return res, nil
}

// RMSE returns the root mean square Euclidean error between two
// trajectories of equal length.
// It returns error if the trajectories differ in length or are empty.
func RMSE(a, b Trajectory) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("trajectory length mismatch: %d != %d", len(a), len(b))
	}

	if len(a) == 0 {
		return 0, fmt.Errorf("empty trajectories")
	}

	var sum float64
	for i := range a {
		dx := a[i].X - b[i].X
		dy := a[i].Y - b[i].Y
		sum += dx*dx + dy*dy
	}

	return math.Sqrt(sum / float64(len(a))), nil
}

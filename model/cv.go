// Package model provides the constant velocity motion model used by the
// ball tracker: a discrete LTI system over the state [x y vx vy] whose
// output is the observed [x y] position.
package model

import (
	"fmt"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// ConstantVelocity is a discrete-time constant velocity model of planar motion.
// Its state propagation and observation matrices are
//
//	A = [1 0 dt 0]      C = [1 0 0 0]
//	    [0 1 0 dt]          [0 1 0 0]
//	    [0 0 1  0]
//	    [0 0 0  1]
//
// where dt is the sampling time step.
type ConstantVelocity struct {
	// a is state propagation matrix
	a *mat.Dense
	// c is observation matrix
	c *mat.Dense
}

// NewConstantVelocity creates a constant velocity model with time step dt.
// It returns error if dt is not positive.
func NewConstantVelocity(dt float64) (*ConstantVelocity, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("invalid time step: %f", dt)
	}

	a := mat.NewDense(4, 4, []float64{
		1, 0, dt, 0,
		0, 1, 0, dt,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	c := mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
	})

	return &ConstantVelocity{a: a, c: c}, nil
}

// Propagate propagates state x to the next step.
// wd is an optional additive disturbance vector.
func (cv *ConstantVelocity) Propagate(x, wd mat.Vector) (mat.Vector, error) {
	nx, _ := cv.Dims()
	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := new(mat.Dense)
	out.Mul(cv.a, x)

	if wd != nil && wd.Len() == nx {
		out.Add(out, wd)
	}

	return out.ColView(0), nil
}

// Observe observes external state (position) given internal state x.
// wn is an optional additive noise vector.
func (cv *ConstantVelocity) Observe(x, wn mat.Vector) (mat.Vector, error) {
	nx, ny := cv.Dims()
	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := new(mat.Dense)
	out.Mul(cv.c, x)

	if wn != nil && wn.Len() == ny {
		out.Add(out, wn)
	}

	return out.ColView(0), nil
}

// Dims returns state and output dimensions of the model
func (cv *ConstantVelocity) Dims() (nx, ny int) {
	return 4, 2
}

// StateMatrix returns state propagation matrix
func (cv *ConstantVelocity) StateMatrix() mat.Matrix {
	m := &mat.Dense{}
	m.CloneFrom(cv.a)

	return m
}

// OutputMatrix returns observation matrix
func (cv *ConstantVelocity) OutputMatrix() mat.Matrix {
	m := &mat.Dense{}
	m.CloneFrom(cv.c)

	return m
}

// Cov returns a scaled identity covariance matrix v*I of size n.
// It returns error if n is not positive or v is negative.
func Cov(n int, v float64) (*mat.SymDense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid covariance dimension: %d", n)
	}

	if v < 0 {
		return nil, fmt.Errorf("invalid covariance scale: %f", v)
	}

	eye, err := matrix.NewDenseValIdentity(n, v)
	if err != nil {
		return nil, err
	}

	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		cov.SetSym(i, i, eye.At(i, i))
	}

	return cov, nil
}

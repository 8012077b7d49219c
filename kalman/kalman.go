// Package kalman implements a linear Kalman filter over a discrete
// dynamical system model.
package kalman

import (
	"fmt"

	"github.com/courtvision/balltrack"
	"github.com/courtvision/balltrack/estimate"
	"github.com/courtvision/balltrack/noise"
	"gonum.org/v1/gonum/mat"
)

// KF is a linear Kalman Filter
type KF struct {
	// m is KF system model
	m balltrack.DiscreteModel
	// q is state noise a.k.a. process noise
	q balltrack.Noise
	// r is output noise a.k.a. measurement noise
	r balltrack.Noise
	// p is the KF covariance matrix
	p *mat.SymDense
	// pNext is the KF predicted covariance matrix
	pNext *mat.SymDense
	// inn is innovation vector
	inn *mat.VecDense
	// k is Kalman gain
	k *mat.Dense
}

// New creates new KF and returns it.
// It accepts the following parameters:
//   - m:    dynamical system model
//   - init: initial condition of the filter
//   - q:    state a.k.a. process noise
//   - r:    output a.k.a. measurement noise
//
// It returns error if either of the following conditions is met:
//   - invalid model is given: model dimensions must be positive integers
//   - invalid state or output noise is given: noise covariance must either be nil or match the model dimensions
func New(m balltrack.DiscreteModel, init balltrack.InitCond, q, r balltrack.Noise) (*KF, error) {
	// size of the state and output vectors
	nx, ny := m.Dims()
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("invalid model dimensions: [%d x %d]", nx, ny)
	}

	if q != nil {
		if q.Cov().Symmetric() != nx {
			return nil, fmt.Errorf("invalid state noise dimension: %d != %d", q.Cov().Symmetric(), nx)
		}
	} else {
		q, _ = noise.NewNone()
	}

	if r != nil {
		if r.Cov().Symmetric() != ny {
			return nil, fmt.Errorf("invalid output noise dimension: %d != %d", r.Cov().Symmetric(), ny)
		}
	} else {
		r, _ = noise.NewNone()
	}

	rows, cols := m.StateMatrix().Dims()
	if rows != nx || cols != nx {
		return nil, fmt.Errorf("invalid propagation matrix dimensions: [%d x %d]", rows, cols)
	}

	rows, cols = m.OutputMatrix().Dims()
	if rows != ny || cols != nx {
		return nil, fmt.Errorf("invalid observation matrix dimensions: [%d x %d]", rows, cols)
	}

	if init.Cov().Symmetric() != nx {
		return nil, fmt.Errorf("invalid initial covariance dimension: %d", init.Cov().Symmetric())
	}

	// initialize covariance matrix to initial condition covariance
	p := mat.NewSymDense(init.Cov().Symmetric(), nil)
	p.CopySym(init.Cov())

	// predicted state covariance
	pNext := mat.NewSymDense(init.Cov().Symmetric(), nil)

	// innovation vector
	inn := mat.NewVecDense(ny, nil)

	// kalman gain
	k := mat.NewDense(nx, ny, nil)

	return &KF{
		m:     m,
		q:     q,
		r:     r,
		p:     p,
		pNext: pNext,
		inn:   inn,
		k:     k,
	}, nil
}

// Predict propagates state x to the next step and returns its estimate
// together with the predicted covariance F*P*F' + Q.
// It returns error if the system state propagation fails.
func (k *KF) Predict(x mat.Vector) (balltrack.Estimate, error) {
	// propagate input state to the next step
	xNext, err := k.m.Propagate(x, nil)
	if err != nil {
		return nil, fmt.Errorf("system state propagation failed: %v", err)
	}

	cov := &mat.Dense{}
	cov.Mul(k.m.StateMatrix(), k.p)
	cov.Mul(cov, k.m.StateMatrix().T())

	if _, ok := k.q.(*noise.None); !ok {
		cov.Add(cov, k.q.Cov())
	}

	// update KF predicted covariance matrix
	n := k.pNext.Symmetric()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			k.pNext.SetSym(i, j, cov.At(i, j))
		}
	}

	return estimate.NewBaseWithCov(xNext, k.pNext)
}

// Update corrects state x using the measurement z and returns the corrected estimate.
// It returns error if either an invalid measurement is supplied or the
// innovation covariance is singular.
func (k *KF) Update(x, z mat.Vector) (balltrack.Estimate, error) {
	nx, ny := k.m.Dims()

	if z.Len() != ny {
		return nil, fmt.Errorf("invalid measurement supplied: %v", z)
	}

	// observe system output
	y, err := k.m.Observe(x, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to observe system output: %v", err)
	}

	pxy := mat.NewDense(nx, ny, nil)
	pyy := mat.NewDense(ny, ny, nil)

	// P*H'
	pxy.Mul(k.pNext, k.m.OutputMatrix().T())

	// Note: pxy = P * H' so we reuse the result here
	// S = H*P*H' + R
	pyy.Mul(k.m.OutputMatrix(), pxy)
	if _, ok := k.r.(*noise.None); !ok {
		pyy.Add(pyy, k.r.Cov())
	}

	// calculate Kalman gain
	pyyInv := &mat.Dense{}
	if err := pyyInv.Inverse(pyy); err != nil {
		return nil, fmt.Errorf("innovation covariance is singular: %v", err)
	}
	gain := &mat.Dense{}
	gain.Mul(pxy, pyyInv)

	// innovation vector
	inn := &mat.VecDense{}
	inn.SubVec(z, y)

	// update state x
	corr := &mat.Dense{}
	corr.Mul(gain, inn)
	x.(*mat.VecDense).AddVec(x, corr.ColView(0))

	eye := mat.NewDiagDense(nx, nil)
	for i := 0; i < nx; i++ {
		eye.SetDiag(i, 1.0)
	}

	// P = (I - K*H) * P
	kh := &mat.Dense{}
	kh.Mul(gain, k.m.OutputMatrix())
	a := &mat.Dense{}
	a.Sub(eye, kh)

	pCorr := &mat.Dense{}
	pCorr.Mul(a, k.pNext)

	// update KF innovation vector
	k.inn.CopyVec(inn)
	k.k.Copy(gain)
	// update KF covariance matrix
	for i := 0; i < nx; i++ {
		for j := i; j < nx; j++ {
			k.p.SetSym(i, j, pCorr.At(i, j))
		}
	}

	return estimate.NewBaseWithCov(x, k.p)
}

// Run runs one step of KF for given state x and measurement z.
// It predicts the next state from x, corrects it using z and returns the
// new system estimate.
// It returns error if it either fails to propagate or correct state x.
func (k *KF) Run(x, z mat.Vector) (balltrack.Estimate, error) {
	pred, err := k.Predict(x)
	if err != nil {
		return nil, err
	}

	est, err := k.Update(pred.Val(), z)
	if err != nil {
		return nil, err
	}

	return est, nil
}

// Model returns KF model
func (k *KF) Model() balltrack.DiscreteModel {
	return k.m
}

// StateNoise returns state noise
func (k *KF) StateNoise() balltrack.Noise {
	return k.q
}

// OutputNoise returns output noise
func (k *KF) OutputNoise() balltrack.Noise {
	return k.r
}

// Cov returns KF covariance
func (k *KF) Cov() mat.Symmetric {
	cov := mat.NewSymDense(k.p.Symmetric(), nil)
	cov.CopySym(k.p)

	return cov
}

// SetCov sets KF covariance matrix to cov.
// It returns error if either cov is nil or its dimensions are not the same as KF covariance dimensions.
func (k *KF) SetCov(cov mat.Symmetric) error {
	if cov == nil {
		return fmt.Errorf("invalid covariance matrix: %v", cov)
	}

	if cov.Symmetric() != k.p.Symmetric() {
		return fmt.Errorf("invalid covariance matrix dims: [%d x %d]", cov.Symmetric(), cov.Symmetric())
	}

	k.p.CopySym(cov)

	return nil
}

// Gain returns Kalman gain
func (k *KF) Gain() mat.Matrix {
	gain := &mat.Dense{}
	gain.CloneFrom(k.k)

	return gain
}

package track

import (
	"fmt"
	"sync"
)

// SweepRun is the outcome of one filtering run in a noise factor sweep.
type SweepRun struct {
	// QFactor scales the base process noise
	QFactor float64
	// RFactor scales the base measurement noise
	RFactor float64
	// RMSE is the error of the filtered trajectory against ground truth
	RMSE float64
}

// Sweep runs the tracker once per (QFactor, RFactor) pair over meas and
// scores each filtered trajectory against truth. The base process and
// measurement noise from cfg are multiplied by the factors. Runs are
// independent and execute concurrently; results are reported in
// iteration order (qFactors outer, rFactors inner).
//
// It returns all runs together with the run minimizing RMSE. Ties are
// broken by the first pair encountered in iteration order. It returns
// error if meas and truth differ in length, either factor list is empty
// or contains a non-positive factor, or any filtering run fails.
func Sweep(cfg Config, meas, truth Trajectory, qFactors, rFactors []float64) ([]SweepRun, SweepRun, error) {
	var best SweepRun

	if len(meas) != len(truth) {
		return nil, best, fmt.Errorf("trajectory length mismatch: %d != %d", len(meas), len(truth))
	}

	if len(qFactors) == 0 || len(rFactors) == 0 {
		return nil, best, fmt.Errorf("empty noise factor list")
	}

	for _, f := range qFactors {
		if f <= 0 {
			return nil, best, fmt.Errorf("invalid process noise factor: %f", f)
		}
	}
	for _, f := range rFactors {
		if f <= 0 {
			return nil, best, fmt.Errorf("invalid measurement noise factor: %f", f)
		}
	}

	cfg = cfg.withDefaults()

	runs := make([]SweepRun, len(qFactors)*len(rFactors))
	errs := make([]error, len(runs))

	var wg sync.WaitGroup
	for i, qf := range qFactors {
		for j, rf := range rFactors {
			wg.Add(1)
			go func(idx int, qf, rf float64) {
				defer wg.Done()

				runCfg := cfg
				runCfg.ProcessNoise *= qf
				runCfg.MeasurementNoise *= rf

				tr, err := New(runCfg)
				if err != nil {
					errs[idx] = err
					return
				}

				res, err := tr.Track(meas)
				if err != nil {
					errs[idx] = err
					return
				}

				rmse, err := RMSE(res.Filtered, truth)
				if err != nil {
					errs[idx] = err
					return
				}

				runs[idx] = SweepRun{QFactor: qf, RFactor: rf, RMSE: rmse}
			}(i*len(rFactors)+j, qf, rf)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, best, fmt.Errorf("sweep run failed: %v", err)
		}
	}

	// deterministic pick: first strict minimum in iteration order
	best = runs[0]
	for _, run := range runs[1:] {
		if run.RMSE < best.RMSE {
			best = run
		}
	}

	return runs, best, nil
}

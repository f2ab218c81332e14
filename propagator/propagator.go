// Package propagator buffers inertial readings and integrates the filter's group element between
// two timestamps.
package propagator

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/eqf-vio/msceqf/config"
	"github.com/eqf-vio/msceqf/logging"
	"github.com/eqf-vio/msceqf/sensors"
	"github.com/eqf-vio/msceqf/state"
	"github.com/eqf-vio/msceqf/symmetry"
)

// ErrNotEnoughImu is returned when the buffer does not cover the requested interval.
var ErrNotEnoughImu = errors.New("not enough imu readings")

// minInterval is the shortest interval, in seconds, that is propagated.
const minInterval = 1e-6

// Propagator holds a bounded, time ordered buffer of IMU readings.
type Propagator struct {
	mu      sync.Mutex
	buffer  []sensors.Imu
	maxSize int
	logger  logging.Logger
}

// New returns a propagator with an empty buffer.
func New(opts config.PropagatorOptions, logger logging.Logger) *Propagator {
	maxSize := opts.ImuBufferMaxSize
	if maxSize <= 0 {
		maxSize = config.DefaultImuBufferMaxSize
	}
	return &Propagator{maxSize: maxSize, logger: logger.Sublogger("propagator")}
}

// InsertImu appends a reading to the buffer. Readings that are not strictly newer than the last
// one are dropped and false is returned. Once the buffer is full the oldest reading is evicted
// with a warning; callers keep up by propagating and calling DiscardBefore.
func (p *Propagator) InsertImu(u sensors.Imu) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.buffer); n > 0 && !(u.Timestamp > p.buffer[n-1].Timestamp) {
		p.logger.Warnw("dropping imu reading that is not newer than the last one",
			"timestamp", u.Timestamp, "last", p.buffer[n-1].Timestamp)
		return false
	}
	p.buffer = append(p.buffer, u)
	if extra := len(p.buffer) - p.maxSize; extra > 0 {
		p.logger.Warnw("imu buffer full, evicting oldest readings",
			"evicted", extra, "oldest", p.buffer[0].Timestamp, "max_size", p.maxSize)
		p.buffer = append(p.buffer[:0], p.buffer[extra:]...)
	}
	return true
}

// Len returns the number of buffered readings.
func (p *Propagator) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buffer)
}

// Propagate integrates X from t0 to t1 with the buffered readings and returns the new element.
// X is advanced by X <- X * exp(dt * Lift(Phi(X, xi0), u)) for every reading in the interval,
// holding each reading until the next one. X and xi0 are not modified.
func (p *Propagator) Propagate(
	X *state.MSCEqFState,
	xi0 *state.SystemState,
	t0, t1 float64,
) (*state.MSCEqFState, error) {
	readings, err := p.readings(t0, t1)
	if err != nil {
		return nil, err
	}

	out := X.Copy()
	for i := 0; i+1 < len(readings); i++ {
		u := readings[i]
		dt := readings[i+1].Timestamp - u.Timestamp
		if out, err = step(out, xi0, u, dt); err != nil {
			return nil, errors.Wrapf(err, "propagating at t = %f", u.Timestamp)
		}
	}
	p.logger.Debugw("propagated", "from", t0, "to", t1, "readings", len(readings))
	return out, nil
}

func step(X *state.MSCEqFState, xi0 *state.SystemState, u sensors.Imu, dt float64) (*state.MSCEqFState, error) {
	xi, err := symmetry.Phi(X, xi0)
	if err != nil {
		return nil, err
	}
	lambda, err := symmetry.Lift(xi, u)
	if err != nil {
		return nil, err
	}
	return X.MultiplyRight(lambda.Scale(dt))
}

// readings returns the buffered readings spanning [t0, t1], with the first and last reading
// interpolated at t0 and t1.
func (p *Propagator) readings(t0, t1 float64) ([]sensors.Imu, error) {
	if !(t1-t0 >= minInterval) {
		return nil, errors.Wrapf(ErrNotEnoughImu, "interval [%f, %f] is too short", t0, t1)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.buffer)
	// first reading after t0 and first reading at or after t1
	after := sort.Search(n, func(i int) bool { return p.buffer[i].Timestamp > t0 })
	end := sort.Search(n, func(i int) bool { return p.buffer[i].Timestamp >= t1 })
	if after == 0 || end == n {
		return nil, errors.Wrapf(ErrNotEnoughImu, "buffer does not cover [%f, %f]", t0, t1)
	}

	out := make([]sensors.Imu, 0, end-after+2)
	out = append(out, sensors.LerpAt(p.buffer[after-1], p.buffer[after], t0))
	for _, u := range p.buffer[after:end] {
		if u.Timestamp-out[len(out)-1].Timestamp >= minInterval {
			out = append(out, u)
		}
	}
	last := sensors.LerpAt(p.buffer[end-1], p.buffer[end], t1)
	if t1-out[len(out)-1].Timestamp < minInterval {
		out = out[:len(out)-1]
	}
	return append(out, last), nil
}

// DiscardBefore drops readings older than t, keeping the last one before t so that t can still
// be interpolated.
func (p *Propagator) DiscardBefore(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := sort.Search(len(p.buffer), func(i int) bool { return p.buffer[i].Timestamp >= t })
	if idx <= 1 {
		return
	}
	p.buffer = append(p.buffer[:0], p.buffer[idx-1:]...)
}

// Package sensors defines the raw samples fed to the filter.
package sensors

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/eqf-vio/msceqf/utils"
)

// Imu is one inertial measurement.
type Imu struct {
	// Timestamp is in seconds.
	Timestamp float64
	// Ang is the measured angular velocity in rad/s.
	Ang r3.Vector
	// Acc is the measured specific force in m/s^2.
	Acc r3.Vector
}

// IsFinite reports whether every component of the sample is finite.
func (u Imu) IsFinite() bool {
	return utils.IsFinite(u.Timestamp, u.Ang.X, u.Ang.Y, u.Ang.Z, u.Acc.X, u.Acc.Y, u.Acc.Z)
}

// String returns a readable form of the sample.
func (u Imu) String() string {
	return fmt.Sprintf("imu{t: %.6f, ang: %v, acc: %v}", u.Timestamp, u.Ang, u.Acc)
}

// Lerp linearly interpolates between two samples. alpha 0 yields pre and alpha 1 yields post.
func Lerp(pre, post Imu, alpha float64) Imu {
	return Imu{
		Timestamp: utils.Lerp(pre.Timestamp, post.Timestamp, alpha),
		Ang:       pre.Ang.Add(post.Ang.Sub(pre.Ang).Mul(alpha)),
		Acc:       pre.Acc.Add(post.Acc.Sub(pre.Acc).Mul(alpha)),
	}
}

// LerpAt interpolates between pre and post at time t.
func LerpAt(pre, post Imu, t float64) Imu {
	dt := post.Timestamp - pre.Timestamp
	if dt <= 0 {
		out := pre
		out.Timestamp = t
		return out
	}
	out := Lerp(pre, post, (t-pre.Timestamp)/dt)
	out.Timestamp = t
	return out
}

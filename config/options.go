// Package config defines the estimator options and how they are read.
package config

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/eqf-vio/msceqf/logging"
	"github.com/eqf-vio/msceqf/spatialmath"
	"github.com/eqf-vio/msceqf/utils"
)

const (
	// DefaultGravity is the local gravity magnitude in m/s^2.
	DefaultGravity = 9.81
	// DefaultImuBufferMaxSize is the number of IMU readings kept by the propagator.
	DefaultImuBufferMaxSize = 1000
)

// Options holds every option of the estimator.
type Options struct {
	State      StateOptions      `json:"state"`
	Propagator PropagatorOptions `json:"propagator"`
}

// ExtrinsicsOptions is the pose of the camera in the IMU frame.
type ExtrinsicsOptions struct {
	// Quaternion is ordered x, y, z, w and normalized on use.
	Quaternion  []float64 `json:"quaternion"`
	Translation []float64 `json:"translation"`
}

// OriginOptions is the state the filter starts from. Missing entries default to zero and identity.
type OriginOptions struct {
	Quaternion []float64 `json:"quaternion,omitempty"`
	Velocity   []float64 `json:"velocity,omitempty"`
	Position   []float64 `json:"position,omitempty"`
	// Bias is ordered gyro x, y, z then accelerometer x, y, z.
	Bias []float64 `json:"bias,omitempty"`
}

// StateOptions configures the initial system state.
type StateOptions struct {
	Gravity             float64            `json:"gravity,omitempty"`
	Extrinsics          *ExtrinsicsOptions `json:"extrinsics,omitempty"`
	Intrinsics          []float64          `json:"intrinsics"`
	CalibrateIntrinsics bool               `json:"calibrate_intrinsics,omitempty"`
	Origin              *OriginOptions     `json:"origin,omitempty"`
}

// PropagatorOptions configures the IMU propagator.
type PropagatorOptions struct {
	ImuBufferMaxSize int `json:"imu_buffer_max_size,omitempty"`
}

// Validate ensures all parts of the options are valid.
func (o *Options) Validate(path string) error {
	if err := o.State.Validate(path + ".state"); err != nil {
		return err
	}
	return o.Propagator.Validate(path + ".propagator")
}

// Validate ensures all parts of the state options are valid.
func (o *StateOptions) Validate(path string) error {
	if !(o.Gravity > 0) {
		return utils.NewConfigValidationError(path, "gravity", "must be positive")
	}
	if len(o.Intrinsics) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "intrinsics")
	}
	if len(o.Intrinsics) != 4 {
		return utils.NewConfigValidationError(path, "intrinsics", "must be [fx, fy, cx, cy]")
	}
	if !(o.Intrinsics[0] > 0) || !(o.Intrinsics[1] > 0) {
		return utils.NewConfigValidationError(path, "intrinsics", "focal lengths must be positive")
	}
	if o.Extrinsics != nil {
		if err := validateQuaternion(path+".extrinsics", o.Extrinsics.Quaternion); err != nil {
			return err
		}
		if len(o.Extrinsics.Translation) != 3 {
			return utils.NewConfigValidationError(path+".extrinsics", "translation", "must have 3 entries")
		}
	}
	if o.Origin != nil {
		if o.Origin.Quaternion != nil {
			if err := validateQuaternion(path+".origin", o.Origin.Quaternion); err != nil {
				return err
			}
		}
		for field, v := range map[string][]float64{"velocity": o.Origin.Velocity, "position": o.Origin.Position} {
			if v != nil && len(v) != 3 {
				return utils.NewConfigValidationError(path+".origin", field, "must have 3 entries")
			}
		}
		if o.Origin.Bias != nil && len(o.Origin.Bias) != 6 {
			return utils.NewConfigValidationError(path+".origin", "bias", "must have 6 entries")
		}
	}
	return nil
}

// Validate ensures all parts of the propagator options are valid.
func (o *PropagatorOptions) Validate(path string) error {
	if o.ImuBufferMaxSize <= 0 {
		return utils.NewConfigValidationError(path, "imu_buffer_max_size", "must be positive")
	}
	return nil
}

func validateQuaternion(path string, q []float64) error {
	if len(q) != 4 {
		return utils.NewConfigValidationError(path, "quaternion", "must be [x, y, z, w]")
	}
	if q[0] == 0 && q[1] == 0 && q[2] == 0 && q[3] == 0 {
		return utils.NewConfigValidationError(path, "quaternion", "must not be zero")
	}
	return nil
}

// applyDefaults fills every unset option and logs what was found and what was defaulted.
func (o *Options) applyDefaults(logger logging.Logger) {
	if o.State.Gravity == 0 {
		o.State.Gravity = DefaultGravity
		logger.Warnw("parameter not found, set to default value", "parameter", "gravity", "value", o.State.Gravity)
	} else {
		logger.Infow("parameter found", "parameter", "gravity", "value", o.State.Gravity)
	}
	if o.State.Extrinsics == nil {
		logger.Warnw("parameter not found, set to default value", "parameter", "extrinsics", "value", "identity")
	} else {
		logger.Infow("parameter found", "parameter", "extrinsics", "value", o.State.Extrinsics)
	}
	if o.State.Intrinsics == nil {
		logger.Warnw("required parameter not found", "parameter", "intrinsics")
	} else {
		logger.Infow("parameter found", "parameter", "intrinsics", "value", o.State.Intrinsics)
	}
	logger.Infow("parameter found", "parameter", "calibrate_intrinsics", "value", o.State.CalibrateIntrinsics)
	if o.Propagator.ImuBufferMaxSize == 0 {
		o.Propagator.ImuBufferMaxSize = DefaultImuBufferMaxSize
		logger.Warnw("parameter not found, set to default value",
			"parameter", "imu_buffer_max_size", "value", o.Propagator.ImuBufferMaxSize)
	} else {
		logger.Infow("parameter found", "parameter", "imu_buffer_max_size", "value", o.Propagator.ImuBufferMaxSize)
	}
}

// ExtrinsicsSE3 returns the camera pose in the IMU frame, identity when unset.
func (o *StateOptions) ExtrinsicsSE3() spatialmath.SE3 {
	if o.Extrinsics == nil {
		return spatialmath.IdentitySE3()
	}
	return spatialmath.NewSE3(quaternionFromXYZW(o.Extrinsics.Quaternion), vectorFromSlice(o.Extrinsics.Translation))
}

// IntrinsicsGroup returns the camera intrinsics as a group element.
func (o *StateOptions) IntrinsicsGroup() spatialmath.Intrinsics {
	if len(o.Intrinsics) != 4 {
		return spatialmath.IdentityIntrinsics()
	}
	return spatialmath.Intrinsics{Fx: o.Intrinsics[0], Fy: o.Intrinsics[1], Cx: o.Intrinsics[2], Cy: o.Intrinsics[3]}
}

// OriginSE23 returns the initial orientation, velocity and position.
func (o *StateOptions) OriginSE23() spatialmath.SE23 {
	if o.Origin == nil {
		return spatialmath.IdentitySE23()
	}
	return spatialmath.NewSE23(
		quaternionFromXYZW(o.Origin.Quaternion),
		vectorFromSlice(o.Origin.Velocity),
		vectorFromSlice(o.Origin.Position),
	)
}

// OriginBias returns the initial gyro and accelerometer bias.
func (o *StateOptions) OriginBias() spatialmath.Twist {
	if o.Origin == nil || len(o.Origin.Bias) != 6 {
		return spatialmath.Twist{}
	}
	return spatialmath.TwistFromSlice(o.Origin.Bias)
}

func quaternionFromXYZW(q []float64) quat.Number {
	if len(q) != 4 {
		return quat.Number{Real: 1}
	}
	return spatialmath.Normalize(quat.Number{Real: q[3], Imag: q[0], Jmag: q[1], Kmag: q[2]})
}

func vectorFromSlice(v []float64) r3.Vector {
	if len(v) != 3 {
		return r3.Vector{}
	}
	return spatialmath.VectorFromSlice(v)
}

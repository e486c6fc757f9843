package cycle

import "fmt"

// StallGuardReader samples a driver's stall-guard load measurement.
type StallGuardReader interface {
	StallGuard(motor int) uint16
}

// CalibrationDrive is the narrow motor-level surface the calibration
// cycle drives directly, bypassing the planner (original_source's
// calibrate.c feeds the stepper scheduler a raw per-segment velocity
// rather than going through a planned block).
type CalibrationDrive interface {
	DriveVelocity(motor int, mmPerMin float64) error
	EncoderSteps(motor int) int32
	SetEncoderSteps(motor int, steps int32)
	StepsPerUnit(motor int) float64
}

// CalibrateParams tunes stall detection and the velocity ramp.
type CalibrateParams struct {
	MinVelocity        float64 // mm/min, below this a stall reading is untrusted
	TargetStallGuard   uint16  // ramp keeps accelerating while under this load
	MaxStallGuardDelta int     // tick-to-tick jump past this, or a zero reading, means stalled
	Acceleration       float64 // mm/min^2
	SegmentTime        float64 // minutes, one ramp tick
	MaxIterations      int     // safety bound per pass
}

// DefaultCalibrateParams matches the firmware's fixed calibration
// constants (CAL_MIN_VELOCITY, CAL_TARGET_SG, CAL_MAX_DELTA_SG).
func DefaultCalibrateParams() CalibrateParams {
	return CalibrateParams{
		MinVelocity:        1000 * 60,
		TargetStallGuard:   100,
		MaxStallGuardDelta: 75,
		Acceleration:       200 * 60 * 60,
		SegmentTime:        0.01 / 60,
		MaxIterations:      100_000,
	}
}

// CalibrationResult is the distance, in steps and in axis units,
// between the stall points found by the forward and reverse passes.
type CalibrationResult struct {
	Steps    int32
	Distance float64
}

// ErrCalibrationDidNotConverge is returned when a forward or reverse
// pass exhausts MaxIterations without detecting a stall.
var ErrCalibrationDidNotConverge = fmt.Errorf("cycle: calibration did not converge")

// Calibrate runs the two-pass stall-detection calibration of
// spec.md section 4.7 for one motor: ramp up to a stall in one
// direction, zero the encoder, ramp up to a stall in the other
// direction, and report the distance between the two stall points.
func Calibrate(motor int, drive CalibrationDrive, sg StallGuardReader, params CalibrateParams) (CalibrationResult, error) {
	if err := runStallPass(motor, drive, sg, params, false); err != nil {
		return CalibrationResult{}, err
	}
	drive.SetEncoderSteps(motor, 0)

	if err := runStallPass(motor, drive, sg, params, true); err != nil {
		return CalibrationResult{}, err
	}

	steps := -drive.EncoderSteps(motor)
	distance := float64(steps) / drive.StepsPerUnit(motor)
	_ = drive.DriveVelocity(motor, 0)

	return CalibrationResult{Steps: steps, Distance: distance}, nil
}

func runStallPass(motor int, drive CalibrationDrive, sg StallGuardReader, params CalibrateParams, reverse bool) error {
	var (
		velocity    float64
		stallValid  bool
		lastReading uint16
		haveReading bool
	)

	for i := 0; i < params.MaxIterations; i++ {
		reading := sg.StallGuard(motor)

		if velocity > params.MinVelocity {
			stallValid = true
		}

		stalled := false
		if stallValid {
			if reading == 0 {
				stalled = true
			} else if haveReading {
				delta := int(reading) - int(lastReading)
				if delta < 0 {
					delta = -delta
				}
				if delta > params.MaxStallGuardDelta {
					stalled = true
				}
			}
		}
		lastReading, haveReading = reading, true

		if stalled {
			return nil
		}

		if velocity < params.MinVelocity || reading < params.TargetStallGuard {
			velocity += params.Acceleration * params.SegmentTime
		}

		signed := velocity
		if reverse {
			signed = -velocity
		}
		if err := drive.DriveVelocity(motor, signed); err != nil {
			return err
		}
	}

	return ErrCalibrationDidNotConverge
}

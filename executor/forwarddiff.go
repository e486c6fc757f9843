package executor

import "math"

// forwardDiffInit computes the initial fifth-order Bezier
// forward-difference accumulator for a section running from velocity
// vi to vt over the given number of segments, per spec.md section 4.5.
// Control points are P0=P1=P2=Vi, P3=P4=P5=Vt; step size h = 1/segments.
//
// The spec's coefficient formulas reference a term "s" alongside h
// without defining it; read in context (a quintic Bezier sampled at
// `segments` evenly spaced points) it is the segment count itself, and
// that is what this implementation uses - see DESIGN.md.
func forwardDiffInit(vi, vt float64, segments int) (v0 float64, fd [5]float64) {
	if segments <= 0 {
		return vi, fd
	}
	h := 1.0 / float64(segments)
	s := float64(segments)
	k := (vt - vi) * math.Pow(h, 5)

	v0 = (vt-vi)*math.Pow(h, 8)/2 + vi

	fd[0] = 720 * k
	fd[1] = (-360*s + 1800) * k
	fd[2] = (60*s*s - 720*s + 1530) * k
	fd[3] = (90*s*s - 435*s + 495) * k
	fd[4] = (32.5*s*s - 75*s + 45.375) * k

	return v0, fd
}

// forwardDiffNext returns the next segment's velocity delta (F5) and
// cascades the accumulator: F5+=F4; F4+=F3; F3+=F2; F2+=F1.
func forwardDiffNext(fd *[5]float64) float64 {
	out := fd[4]
	fd[4] += fd[3]
	fd[3] += fd[2]
	fd[2] += fd[1]
	fd[1] += fd[0]
	return out
}

package math

import "math"

// Lerp interpolates between a and b. t is clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp(t, 0, 1)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SmoothDamp moves current towards target with a critically damped spring.
// velocity is carried between calls. smoothTime is roughly the time to reach
// the target, dt the frame delta in seconds.
func SmoothDamp(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime

	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)
	change := current - target
	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * exp
	out := target + (change+temp)*exp

	// Prevent overshooting.
	if (target-current > 0) == (out > target) {
		out = target
		*velocity = (out - target) / dt
	}
	return out
}

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

package anim

import "math"

// Easing functions map normalized progress [0,1] to eased progress [0,1].
// Out-of-range input is clamped so callers can feed raw time ratios.

func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Interpolate maps t through an easing function and lerps between start and end.
func Interpolate(start, end, t float64, ease func(float64) float64) float64 {
	return Lerp(start, end, ease(Clamp01(t)))
}

func EaseOutCubic(t float64) float64 {
	t = Clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

func EaseInOutCubic(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func EaseOutQuad(t float64) float64 {
	t = Clamp01(t)
	return 1 - (1-t)*(1-t)
}

// EaseOutBounce gives a settling bounce, used for counter and kinetic text pops.
func EaseOutBounce(t float64) float64 {
	t = Clamp01(t)
	const n1 = 7.5625
	const d1 = 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// SmoothStep is the classic 3t^2-2t^3 hermite ramp.
func SmoothStep(t float64) float64 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}

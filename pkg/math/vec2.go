// Package math provides the small vector and scalar helpers the viewer needs.
package math

// Vec2 is a 2D vector, used for source media dimensions.
type Vec2 struct {
	X, Y float32
}

// Size returns a Vec2 from integer pixel dimensions.
func Size(w, h int) Vec2 {
	return Vec2{float32(w), float32(h)}
}

// Uniform returns a Vec2 with both components set to s.
func Uniform(s float32) Vec2 {
	return Vec2{s, s}
}

// Aspect returns X/Y, or 1 when Y is zero.
func (v Vec2) Aspect() float32 {
	if v.Y == 0 {
		return 1
	}
	return v.X / v.Y
}

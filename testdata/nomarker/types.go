package nomarker

// Plain has no marker.
type Plain struct {
	A int
}

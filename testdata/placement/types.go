package placement

//genbuilder:builder
type Point struct {
	X int
	Y int
}

//genbuilder:builder
type Celsius float64

//genbuilder:builder
func Helper() {}

//genbuilder:builder
type Pair[T any] struct {
	Left  T
	Right T
}

//genbuilder:builder
var Origin = Point{}

type Plain struct {
	A int
}

type (
	// Grouped is marked inside a group.
	//
	//genbuilder:builder
	Grouped struct {
		V string
	}

	Unmarked struct {
		V string
	}
)

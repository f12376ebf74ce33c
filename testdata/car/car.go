package car

// Car is the outer type of the builder scenario.
//
//genbuilder:builder
type Car struct {
	Name   string
	Brand  string
	Engine Engine
}

// Engine is referenced by Car and gets its own builder.
//
//genbuilder:builder
type Engine struct {
	Name string
	Fuel int
}

// Package car shows generated builders for two related types.
package car

//go:generate go run github.com/seitarof/gen-builder/cmd/gen-builder --output ../.. .

// Car is assembled with CarBuilder.
//
//genbuilder:builder
type Car struct {
	Name   string
	Brand  string
	Engine Engine
}

// Engine is assembled with EngineBuilder.
//
//genbuilder:builder
type Engine struct {
	Name string
	Fuel int
}

package car_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/gen-builder/buildkit"
	"github.com/seitarof/gen-builder/example/car"
)

func Example() {
	engine, err := car.NewEngineBuilder().
		Name("diesel").
		Fuel(123).
		Build()
	if err != nil {
		panic(err)
	}

	c, err := car.NewCarBuilder().
		Name("seosh817 car").
		Brand("hyundai").
		Engine(engine).
		Build()
	if err != nil {
		panic(err)
	}

	fmt.Printf("%+v\n", c)
	// Output: {Name:seosh817 car Brand:hyundai Engine:{Name:diesel Fuel:123}}
}

func ExampleCarBuilder_Build_missingField() {
	_, err := car.NewCarBuilder().Name("unfinished").Build()

	var missing *buildkit.MissingFieldError
	if errors.As(err, &missing) {
		fmt.Println(missing.Builder, missing.Field)
	}
	fmt.Println(errors.Is(err, buildkit.ErrMissingRequiredField))
	// Output:
	// CarBuilder Brand
	// true
}

func TestCarBuilder_SetterOrderDoesNotMatter(t *testing.T) {
	engine := car.Engine{Name: "diesel", Fuel: 123}

	a, err := car.NewCarBuilder().Name("n").Brand("b").Engine(engine).Build()
	require.NoError(t, err)
	b, err := car.NewCarBuilder().Engine(engine).Brand("b").Name("n").Build()
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestCarBuilder_LastSetWins(t *testing.T) {
	c, err := car.NewCarBuilder().
		Name("first").
		Name("second").
		Brand("b").
		Engine(car.Engine{}).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "second", c.Name)
}

func TestCarBuilder_ZeroValuesCountAsSet(t *testing.T) {
	c, err := car.NewCarBuilder().Name("").Brand("").Engine(car.Engine{}).Build()
	require.NoError(t, err)
	assert.Equal(t, car.Car{}, c)
}

func TestEngineBuilder_ReportsFirstMissingField(t *testing.T) {
	_, err := car.NewEngineBuilder().Build()
	require.Error(t, err)

	var missing *buildkit.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "EngineBuilder", missing.Builder)
	assert.Equal(t, "Name", missing.Field)

	_, err = car.NewEngineBuilder().Name("diesel").Build()
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Fuel", missing.Field)
}

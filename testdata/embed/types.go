package embed

import (
	"os"
	"time"
)

type Base struct {
	ID   int
	Name string
}

type Audit struct {
	CreatedAt time.Time
	Name      string
}

//genbuilder:builder
type Account struct {
	Base
	Audit
	Name   string
	Email  string
	Mode   os.FileMode
	Tags   []string
	hidden string
}

type InnerA struct {
	Code string
}

type InnerB struct {
	Code string
}

//genbuilder:builder
type Tagged struct {
	InnerA
	InnerB
	Label string
	Ref   *Base
}

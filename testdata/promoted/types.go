package promoted

import "time"

type base struct {
	ID int
}

// User promotes ID through an unexported embed.
//
//genbuilder:builder
type User struct {
	base
	Name string
}

// Event embeds a struct without exported fields; Time is set as a whole.
//
//genbuilder:builder
type Event struct {
	time.Time
	Title string
}

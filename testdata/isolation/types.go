package isolation

// Job has a field that clashes with the Build method.
//
//genbuilder:builder
type Job struct {
	Name  string
	Build int
}

//genbuilder:builder
type Task struct {
	Name string
}

//genbuilder:builder
type secret struct {
	Key string
}

package entity

// ElementInfo describes the first element matched by a selector.
type ElementInfo struct {
	Tag  string
	Type string
	Text string
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

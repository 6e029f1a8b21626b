package verify

type Mismatch struct {
	Path     string
	Expected string
	Computed string
}

type Result struct {
	Mismatches []Mismatch
	Errors     []PathError
}

type PathError struct {
	Path string
	Err  error
}

type Options struct {
	Workers int
}

type MultiSplitResult struct {
	Algorithm       string
	Splits          int
	Paths           []string
	Sizes           []int64
	SplitHashes     [][]string
	DifferingSplits []int
	TailBytes       []int64
	MinSize         int64
	MaxSize         int64
}

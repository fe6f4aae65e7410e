// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input     string `flag:"i" usage:"input .class file"`
	Output    string `flag:"o" usage:"output listing file (default: stdout)"`
	Batch     string `flag:"batch" usage:"batch process files matching pattern (e.g. build/*.class)"`
	Reference string `flag:"verify" usage:"javap listing to compare the output against"`
}

// Flags contains behavior options.
type Flags struct {
	Debug bool `flag:"debug" usage:"enable debug logging"`
	Quiet bool `flag:"q" usage:"quiet mode"`
}

// OutputFlags contains output formatting options.
type OutputFlags struct {
	Verbose bool `flag:"v" usage:"include Code attributes and constant values"`
}

// Program options of the disassembler.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

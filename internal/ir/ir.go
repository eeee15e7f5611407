// Package ir defines the block-structured program model and the analyses
// and passes that run over it: control flow graph construction, dead
// variable elimination and dead store elimination.
package ir

// Optimize runs the default optimization pipeline over program
func Optimize(program Program) Program {
	return NewOptimizationPipeline().Run(program)
}

// PrintProgram returns a pretty-printed representation of the IR
func PrintProgram(program Program) string {
	return Print(program)
}

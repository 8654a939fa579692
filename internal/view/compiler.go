package view

// Logic is a render-callable unit: the result of compiling one
// template. Execution writes through the frame into the shared
// rendering context.
type Logic interface {
	Execute(f *Frame) error
}

// LogicFunc adapts a function to the Logic interface.
type LogicFunc func(f *Frame) error

// Execute implements Logic.
func (fn LogicFunc) Execute(f *Frame) error {
	return fn(f)
}

// Compiler turns template source into executable render logic. The
// engine treats compilation as an external capability; implementations
// range from verbatim emission to full template languages.
type Compiler interface {
	Compile(virtualPath string, source []byte) (Logic, error)
}

// StaticCompiler compiles a template to logic that emits its source
// verbatim. Useful for plain fragments and as the simplest possible
// Compiler implementation.
type StaticCompiler struct{}

// Compile implements Compiler.
func (StaticCompiler) Compile(virtualPath string, source []byte) (Logic, error) {
	content := string(source)
	return LogicFunc(func(f *Frame) error {
		f.Write(content)
		return nil
	}), nil
}

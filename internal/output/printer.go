package output

import (
	"fmt"
	"io"
	"os"
)

type Class int

const (
	Required Class = iota //explicitly requested information, printed even in quiet mode
	Error
	Normal  //progress and resets
	Verbose //per-file details and skipped input lines
)

type Printer struct {
	classes    map[Class]bool
	terminal   io.Writer
	diagnosis  io.Writer
	useEscapes bool
	anchor     anchor
}

type anchor struct {
	scheme string
	root   string //absolute, system-native
}

func NewPrinter(include []Class, allowEscapes bool) (p Printer) {
	p = Printer{
		classes:    map[Class]bool{},
		terminal:   os.Stdout,
		diagnosis:  os.Stderr,
		useEscapes: allowEscapes,
	}
	for _, class := range include {
		p.classes[class] = true
	}
	return
}

// Silent yields a printer that drops everything.
func Silent() Printer {
	return NewPrinter(nil, false).RedirectTo(io.Discard, io.Discard)
}

// RedirectTo returns a copy writing regular output to terminal and errors to diagnosis.
func (p Printer) RedirectTo(terminal io.Writer, diagnosis io.Writer) Printer {
	p.terminal = terminal
	p.diagnosis = diagnosis
	return p
}

// AnchoredAt returns a copy which displays paths below root as scheme://relative/path.
func (p Printer) AnchoredAt(scheme string, root string) Printer {
	p.anchor = anchor{scheme: scheme, root: root}
	return p
}

func (p Printer) Enabled(class Class) bool {
	return p.classes[class]
}

func (p Printer) Out(class Class, format string, values ...interface{}) {
	if !p.classes[class] {
		return
	}
	target := &p.terminal
	if class == Error {
		target = &p.diagnosis
		if p.useEscapes {
			fmt.Fprint(*target, TerminalFormatAsError(fmt.Sprintf(format, values...)))
			return
		}
	}
	fmt.Fprintf(*target, format, values...)
}

// Path renders an absolute path for display, see pleasantPath.
func (p Printer) Path(absolute string) string {
	if p.anchor.root == "" {
		return absolute
	}
	pleasant := pleasantPath(absolute, p.anchor.root, mustGetwd(), p.anchor.scheme)
	if p.useEscapes {
		if scheme := p.anchor.scheme + schemeSeparator; len(pleasant) > len(scheme) && pleasant[:len(scheme)] == scheme {
			pleasant = TerminalFormatAsDim(scheme) + pleasant[len(scheme):]
		}
	}
	return pleasant
}

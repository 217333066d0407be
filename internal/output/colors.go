package output

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

func TerminalFormatAsDim(text string) string {
	return fmt.Sprintf("\x1B[2m%s\x1B[0m", text)
}

func TerminalFormatAsError(text string) string {
	body := strings.TrimRight(text, "\n")
	return fmt.Sprintf("\x1B[31m%s\x1B[0m%s", body, text[len(body):])
}

// EscapesSupported reports whether the given stream is an interactive terminal that can render SGR sequences.
func EscapesSupported(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

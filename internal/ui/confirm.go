package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConfirmFrom writes a yes/no prompt to out and reads the answer from in.
// Anything but y or yes is a no.
func ConfirmFrom(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}

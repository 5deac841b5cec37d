package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ask prints a label and reads one trimmed line. The caller owns the
// bufio.Reader so consecutive prompts share buffered input, which keeps
// scripted test dialogues working.
func ask(out io.Writer, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

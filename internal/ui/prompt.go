package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrInputAborted signals that standard input closed before an answer.
var ErrInputAborted = errors.New("input aborted")

// mapInputError normalizes end-of-input errors into ErrInputAborted.
func mapInputError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
		return ErrInputAborted
	}
	return err
}

// Confirm writes question and reads y/n answers from in until one is
// recognised. Any other answer re-prompts.
func Confirm(in *bufio.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "\n%s (y/n)\n", question)
	for {
		line, err := in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && answer == "" {
			return false, fmt.Errorf("read confirmation: %w", mapInputError(err))
		}

		switch answer {
		case "y", "Y":
			return true, nil
		case "n", "N":
			fmt.Fprintln(out, "Program quit")
			return false, nil
		}
		fmt.Fprintln(out, "Unrecognised input")
		if err != nil {
			return false, fmt.Errorf("read confirmation: %w", mapInputError(err))
		}
	}
}

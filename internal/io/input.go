package io

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinMarker is the flag value that reads the text from stdin
const StdinMarker = "-"

// FilePrefix marks a flag value naming a file to read, e.g. @description.txt
const FilePrefix = "@"

// ReadText resolves a text flag value: "-" reads piped stdin, "@path" reads the file,
// anything else is returned as is. Trailing whitespace of stdin and file content is trimmed.
func ReadText(stdin *os.File, value string) (string, error) {
	switch {
	case value == StdinMarker:
		return readStdin(stdin)
	case strings.HasPrefix(value, FilePrefix) && len(value) > len(FilePrefix):
		path := strings.TrimPrefix(value, FilePrefix)
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read file %q: %w", path, err)
		}
		return strings.TrimRight(string(content), "\r\n\t "), nil
	default:
		return value, nil
	}
}

func readStdin(stdin *os.File) (string, error) {
	if stdin == nil {
		return "", fmt.Errorf("no stdin available")
	}

	stat, err := stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat stdin: %w", err)
	}

	// stdin must be a pipe or a file, never a terminal
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", fmt.Errorf("expected piped input on stdin")
	}

	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}

	return strings.TrimRight(string(content), "\r\n\t "), nil
}

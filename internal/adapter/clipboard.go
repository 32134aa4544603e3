package adapter

import (
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard reads the system clipboard
type Clipboard struct{}

// Read returns the trimmed clipboard text
func (Clipboard) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Available reports whether a clipboard utility was found
func (Clipboard) Available() bool {
	return !clipboard.Unsupported
}

package out

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes through the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

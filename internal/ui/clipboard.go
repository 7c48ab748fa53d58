package ui

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
)

// OSC52Clipboard sets the clipboard of the terminal emulator attached to Out
// through the OSC 52 escape sequence. Terminals without OSC 52 support
// ignore the sequence, which cannot be detected from here.
type OSC52Clipboard struct {
	Out io.Writer
}

func (c OSC52Clipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sequence := fmt.Sprintf("\x1b]52;c;%s\a", base64.StdEncoding.EncodeToString([]byte(text)))
	if _, err := io.WriteString(c.Out, sequence); err != nil {
		return fmt.Errorf("in ui.OSC52Clipboard.WriteText(): %w", err)
	}

	return nil
}

// Package ui toggles loading indicators and message boxes on a document and
// copies text to the clipboard. The document, clipboard and alert dialog are
// supplied by the caller; a missing element is silently ignored.
package ui

import (
	"context"
	"fmt"
)

const (
	DisplayFlex  = "flex"
	DisplayNone  = "none"
	DisplayBlock = "block"

	// DefaultMessageKind is used when ShowMessage gets an empty kind.
	DefaultMessageKind = "error"

	// CopiedMessage is the confirmation shown after a successful copy.
	CopiedMessage = "Copied to clipboard!"
)

// Element is the part of a page element the helpers touch.
type Element interface {
	SetDisplay(display string)
	SetTextContent(text string)
	SetClassName(className string)
}

// Document looks elements up by id.
type Document interface {
	GetElementByID(id string) (Element, bool)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Alerter shows a blocking confirmation to the user.
type Alerter interface {
	Alert(message string)
}

// ShowLoading makes the element visible as a flex container.
func ShowLoading(doc Document, elementID string) {
	if el, ok := doc.GetElementByID(elementID); ok {
		el.SetDisplay(DisplayFlex)
	}
}

// HideLoading hides the element.
func HideLoading(doc Document, elementID string) {
	if el, ok := doc.GetElementByID(elementID); ok {
		el.SetDisplay(DisplayNone)
	}
}

// ShowMessage puts message into the element, styles it as "message <kind>"
// and shows it. The message stays until something else hides it.
func ShowMessage(doc Document, elementID, message, kind string) {
	el, ok := doc.GetElementByID(elementID)
	if !ok {
		return
	}
	if kind == "" {
		kind = DefaultMessageKind
	}

	el.SetTextContent(message)
	el.SetClassName("message " + kind)
	el.SetDisplay(DisplayBlock)
}

// CopyToClipboard writes text to the clipboard and confirms with an alert.
// On failure no alert is shown and the error is returned.
func CopyToClipboard(ctx context.Context, clipboard Clipboard, alerter Alerter, text string) error {
	if err := clipboard.WriteText(ctx, text); err != nil {
		return fmt.Errorf("in ui.CopyToClipboard(): %w", err)
	}

	alerter.Alert(CopiedMessage)

	return nil
}

package ui

import (
	"fmt"
	"io"
	"sync"
)

// MemoryElement records the last values written to it.
type MemoryElement struct {
	mu          sync.Mutex
	display     string
	textContent string
	className   string
}

func (e *MemoryElement) SetDisplay(display string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.display = display
}

func (e *MemoryElement) SetTextContent(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.textContent = text
}

func (e *MemoryElement) SetClassName(className string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.className = className
}

func (e *MemoryElement) Display() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.display
}

func (e *MemoryElement) TextContent() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.textContent
}

func (e *MemoryElement) ClassName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.className
}

// MemoryDocument is a Document holding only the elements added to it.
type MemoryDocument struct {
	mu       sync.RWMutex
	elements map[string]*MemoryElement
}

func NewMemoryDocument(ids ...string) *MemoryDocument {
	doc := &MemoryDocument{elements: map[string]*MemoryElement{}}
	for _, id := range ids {
		doc.Add(id)
	}

	return doc
}

// Add creates the element if needed and returns it.
func (d *MemoryDocument) Add(id string) *MemoryElement {
	d.mu.Lock()
	defer d.mu.Unlock()

	el, ok := d.elements[id]
	if !ok {
		el = &MemoryElement{}
		d.elements[id] = el
	}

	return el
}

// Element returns the concrete element, or nil.
func (d *MemoryDocument) Element(id string) *MemoryElement {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.elements[id]
}

func (d *MemoryDocument) GetElementByID(id string) (Element, bool) {
	el := d.Element(id)
	if el == nil {
		return nil, false
	}

	return el, true
}

// ConsoleDocument renders elements as lines of text: an element shown as a
// block prints its content, one shown as flex prints its label followed by
// an ellipsis. Every id resolves to an element.
type ConsoleDocument struct {
	mu     sync.Mutex
	out    io.Writer
	labels map[string]string
}

// NewConsoleDocument writes to out. labels maps element ids to the text
// shown while a loading indicator is visible.
func NewConsoleDocument(out io.Writer, labels map[string]string) *ConsoleDocument {
	if labels == nil {
		labels = map[string]string{}
	}

	return &ConsoleDocument{out: out, labels: labels}
}

func (d *ConsoleDocument) GetElementByID(id string) (Element, bool) {
	label, ok := d.labels[id]
	if !ok {
		label = id
	}

	return &consoleElement{doc: d, label: label}, true
}

func (d *ConsoleDocument) println(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = fmt.Fprintln(d.out, line)
}

type consoleElement struct {
	doc         *ConsoleDocument
	label       string
	textContent string
	className   string
}

func (e *consoleElement) SetDisplay(display string) {
	switch display {
	case DisplayFlex:
		e.doc.println(e.label + "...")
	case DisplayBlock:
		if e.className != "" {
			e.doc.println(fmt.Sprintf("[%s] %s", e.className, e.textContent))
			return
		}
		e.doc.println(e.textContent)
	}
}

func (e *consoleElement) SetTextContent(text string) {
	e.textContent = text
}

func (e *consoleElement) SetClassName(className string) {
	e.className = className
}

// WriterAlerter prints alerts to a writer.
type WriterAlerter struct {
	Out io.Writer
}

func (a WriterAlerter) Alert(message string) {
	_, _ = fmt.Fprintln(a.Out, message)
}

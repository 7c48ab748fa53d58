package a

import (
	"fmt"
	"log" // want "use the zap logger instead of the standard log package"
	"os"
)

func report(err error) {
	fmt.Println("failed:", err) // want `fmt.Println writes to stdout; take an io.Writer or use the logger`
	fmt.Printf("%v\n", err)     // want `fmt.Printf writes to stdout; take an io.Writer or use the logger`
	fmt.Fprintln(os.Stderr, err)
	log.Print(err)
}

type printer struct{}

func (printer) Println(args ...any) {}

func custom() {
	var fmt printer
	fmt.Println("shadowed")
}

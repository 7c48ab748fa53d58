package main

import (
	"fmt"
	"log" // want "use the zap logger instead of the standard log package"
)

func main() {
	fmt.Println("hello")
	log.Println("hello")
}

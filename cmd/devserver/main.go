// Command devserver serves the authentication API of the MarketAI Suite
// backend for local development of the client. Users live in memory and
// are lost on restart.
package main

import (
	"context"

	"github.com/patric-chuzhbe/suiteclient/internal/app"
)

func main() {
	srv, err := app.NewDevServer()
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			panic(err)
		}
	}()

	if err := srv.Run(context.Background()); err != nil {
		panic(err)
	}
}

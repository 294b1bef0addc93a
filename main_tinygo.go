//go:build tinygo

package main

import (
	"context"

	"deskmon/app"
	"deskmon/hal"
)

func main() {
	h := hal.New()
	m, err := app.New(h, app.DefaultConfig())
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString(err.Error())
		}
		select {}
	}
	_ = m.Run(context.Background())
	select {}
}

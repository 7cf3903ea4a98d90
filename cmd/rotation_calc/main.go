package main

import (
	"os"

	"github.com/AoTofu/wuwa-calc-web/internal/app"
)

func main() {
	os.Exit(app.RunRotation(os.Args[1:]))
}

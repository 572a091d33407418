package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"sprite2d/internal/game"
)

func main() {
	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	scene := flag.String("scene", "assets/scenes/sandbox.json", "scene file to load; empty for the built-in scene")
	flag.Parse()

	game.New(*scene).Run()
}

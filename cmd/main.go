// FilePath: cmd/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Basavaraj-fidelis/wfh/internal/config"
	"github.com/Basavaraj-fidelis/wfh/internal/server"
	tm "github.com/buger/goterm"
	"github.com/joho/godotenv"
	nuts "github.com/vaudience/go-nuts"
)

func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting WFH Monitoring Hub v%s", nuts.GetVersion())

	// Local .env overrides, if present
	if err := godotenv.Load(); err == nil {
		nuts.L.Infof("[Main] Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen and draws the logo.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		" _       ______ __  __   __  __      __  ",
		"| |     / / __// / / /  / / / /_  __/ /_ ",
		"| | /| / / /_ / /_/ /  / /_/ / / / / __ \\",
		"| |/ |/ / __// __  /  / __  / /_/ / /_/ /",
		"|__/|__/_/  /_/ /_/  /_/ /_/\\__,_/_.___/ ",
		".........................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}

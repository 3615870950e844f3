package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/quad-rectify/internal/config"
	"github.com/ironsheep/quad-rectify/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("quad-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("quad-mcp - MCP server for document corner detection and rectification")
			fmt.Println()
			fmt.Println("Usage: quad-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  QUAD_RECTIFY_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  QUAD_RECTIFY_CONFIG=<path>      JSON config file (defaults apply to omitted fields)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	var debug *log.Logger
	if os.Getenv("QUAD_RECTIFY_LOG_LEVEL") == "debug" {
		debug = log.New(os.Stderr, "quad: ", log.Ldate|log.Ltime|log.Lmicroseconds)
		log.Printf("Quad MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg := config.Default()
	if path := os.Getenv("QUAD_RECTIFY_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}
		cfg = cfg.Merge(loaded)
	}

	srv := server.New(cfg, debug)
	srv.Version = Version
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/Aagat/aagat.com/builder/config"
	"github.com/Aagat/aagat.com/builder/lint"
	"github.com/Aagat/aagat.com/builder/run"
	"github.com/Aagat/aagat.com/internal/clean"
	"github.com/Aagat/aagat.com/internal/new"
	"github.com/Aagat/aagat.com/internal/server"
	"github.com/Aagat/aagat.com/internal/watch"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var err error
	switch command {
	case "build":
		err = run.Run(args)
	case "serve":
		err = serve(logger, args)
	case "lint":
		err = lintContent(args)
	case "new":
		err = new.Run(config.Load(nil), args)
	case "clean":
		err = clean.Run(config.Load(nil), true)
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

// serve builds the site, rebuilds on source changes and starts the preview
// server until interrupted.
func serve(logger *slog.Logger, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(args)

	if err := run.Run(args); err != nil {
		return err
	}

	watchDirs := []string{cfg.ContentDir, cfg.TemplateDir, cfg.StaticDir, "site.yaml"}
	w, err := watch.New(watchDirs, cfg.DebounceDuration, logger, func(ev watch.Event) {
		fmt.Printf("🔄 Change detected: %s\n", ev.Name)
		if err := run.Run(args); err != nil {
			fmt.Printf("❌ Rebuild failed: %v\n", err)
		}
	})
	if err != nil {
		return err
	}
	go w.Start(ctx)

	return server.Run(ctx, cfg, logger, args)
}

// lintContent checks every content page and reports issues.
func lintContent(args []string) error {
	cfg := config.Load(args)

	issues, err := lint.Run(afero.NewOsFs(), cfg.ContentDir)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		fmt.Println("✅ No issues found.")
		return nil
	}

	for _, issue := range issues {
		fmt.Println(issue)
	}
	return fmt.Errorf("%d issue(s) found", len(issues))
}

func printUsage() {
	fmt.Println("Usage: site <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  build          Build the static site")
	fmt.Println("  serve          Build, watch and serve locally")
	fmt.Println("  lint           Check content frontmatter and markdown")
	fmt.Println("  new <title>    Create a new blog post")
	fmt.Println("  clean          Remove build output and cache")
	fmt.Println("  help           Show this help message")
	fmt.Println("\nFlags for build/serve:")
	fmt.Println("  -baseurl       Override the base URL")
	fmt.Println("  -compress      Enable minification")
	fmt.Println("  -drafts        Include draft pages")
	fmt.Println("  -force         Ignore the build cache")
	fmt.Println("\nFlags for serve:")
	fmt.Println("  -host, -port   Bind address (default localhost:8080)")
}

// Command harness runs solution programs against stored samples and
// reports pass/fail per case.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/deixis/harness"
	"github.com/deixis/harness/internal/config"
	harnessmcp "github.com/deixis/harness/internal/mcp"
	"github.com/deixis/harness/internal/report"
	"github.com/deixis/harness/internal/workflow"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// errUsage marks invalid command-line usage (exit code 2).
var errUsage = errors.New("usage error")

func main() {
	log.SetFlags(0)
	log.SetPrefix("harness: ")

	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var (
		code int
		err  error
	)
	switch cmd {
	case "run":
		code, err = runMain(args, os.Stdout)
	case "clean":
		code, err = cleanMain(args, os.Stdout)
	case "mcp":
		err = mcpMain(args)
	case "version":
		fmt.Println(harness.Version)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "harness: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, "harness:", err)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(code)
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: harness [command] [flags]

Commands:
  run         Run every solution against its samples (default)
  clean       Delete .in/.out samples: clean PROBLEM, or clean -all
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Use "harness <command> -h" for command-specific flags.`)
}

// --- run ---

func runMain(args []string, stdout io.Writer) (int, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	dirFlag := fs.String("dir", "", "workspace directory (default: current directory)")
	timeoutFlag := fs.Duration("timeout", 0, "override the per-case timeout (e.g. 2s)")
	layoutFlag := fs.String("layout", "", "override the layout: problems or flat")
	skipEmpty := fs.Bool("skip-empty", false, "skip cases whose input and expected output are both empty")
	jsonFlag := fs.Bool("json", false, "output results as JSON")
	saveFlag := fs.String("save", "", "directory to save the run result in as <run-id>.json")
	if err := fs.Parse(args); err != nil {
		return 0, fmt.Errorf("%w: %v", errUsage, err)
	}

	loaded, err := loadConfig(*dirFlag)
	if err != nil {
		return 0, err
	}
	cfg := loaded.Config
	if *timeoutFlag > 0 {
		cfg.RawTimeout = timeoutFlag.String()
	}
	if *layoutFlag != "" {
		cfg.Layout = *layoutFlag
	}
	if *skipEmpty {
		cfg.SkipEmpty = true
	}
	if err := cfg.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", errUsage, err)
	}

	eng, err := workflow.New(cfg, loaded.Root)
	if err != nil {
		return 0, err
	}
	if !*jsonFlag {
		eng.OnCase = func(c report.CaseResult) {
			fmt.Fprintln(stdout, c.Message)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := eng.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("run: %w", err)
	}

	if *saveFlag != "" {
		if err := report.NewDiskStore(*saveFlag).Save(result); err != nil {
			return 0, err
		}
	}

	if *jsonFlag {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return 0, err
		}
	} else {
		fmt.Fprintf(stdout, "\n=== Summary ===\n%s\n", result.Summary())
	}

	if !result.OK() {
		return 1, nil
	}
	return 0, nil
}

// --- clean ---

func cleanMain(args []string, stdout io.Writer) (int, error) {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	dirFlag := fs.String("dir", "", "workspace directory (default: current directory)")
	allFlag := fs.Bool("all", false, "remove the samples of every problem")
	if err := fs.Parse(args); err != nil {
		return 0, fmt.Errorf("%w: %v", errUsage, err)
	}

	var target string
	switch {
	case fs.NArg() > 1:
		return 0, fmt.Errorf("%w: clean accepts a single problem", errUsage)
	case fs.NArg() == 1 && *allFlag:
		return 0, fmt.Errorf("%w: a problem and -all cannot be used together", errUsage)
	case fs.NArg() == 1:
		target = fs.Arg(0)
	case !*allFlag:
		return 0, fmt.Errorf("%w: clean needs a problem or -all", errUsage)
	}

	loaded, err := loadConfig(*dirFlag)
	if err != nil {
		return 0, err
	}
	eng, err := workflow.New(loaded.Config, loaded.Root)
	if err != nil {
		return 0, err
	}

	result, err := eng.Clean(target)
	if errors.Is(err, workflow.ErrProblemNotFound) {
		fmt.Fprintf(stdout, "Problem '%s' not found under %s.\n", target, loaded.Config.SolutionsDir(loaded.Root))
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("clean: %w", err)
	}

	fmt.Fprintln(stdout, result.Log())
	fmt.Fprintf(stdout, "\n%s\n", result.Summary())
	return 0, nil
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	dirFlag := fs.String("dir", "", "workspace directory (default: current directory)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(harnessmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return serve(ctx, *dirFlag, *httpAddr)
}

func serve(ctx context.Context, dir, httpAddr string) error {
	loaded, err := loadConfig(dir)
	if err != nil {
		return err
	}
	eng, err := workflow.New(loaded.Config, loaded.Root)
	if err != nil {
		return err
	}

	store := report.NewLRUStore(5, report.NewDiskStore(""))
	server := harnessmcp.NewServer(eng, store)

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- shared ---

func loadConfig(dir string) (*config.LoadResult, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determining workspace: %w", err)
		}
		dir = wd
	}
	loaded, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return loaded, nil
}

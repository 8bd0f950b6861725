// Package main provides salectl, a command line tool for the token sale program:
// instruction encoding, sale account inspection and verification, and
// live watching of a sale account.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"solana-token-sale/internal/config"
	"solana-token-sale/internal/observability"
)

// errCheckFailed makes the process exit non-zero without an extra log line.
var errCheckFailed = errors.New("check failed")

type command struct {
	usage string
	run   func(ctx context.Context, env *cmdEnv, args []string) error
}

var commands = map[string]command{
	"encode":         {"print instruction data and account list", runEncode},
	"pda":            {"derive the sale authority PDA", runPDA},
	"inspect":        {"decode a sale account", runInspect},
	"verify":         {"compare a sale account with expected values", runVerify},
	"confirm-closed": {"assert a sale account was closed", runConfirmClosed},
	"watch":          {"stream and validate sale account changes", runWatch},
	"rent":           {"print the rent-exempt minimum of a sale account", runRent},
	"balances":       {"print SOL and token balances of the sale parties", runBalances},
	"history":        {"list recent transactions of a sale account", runHistory},
	"report":         {"render stored snapshots and checks", runReport},
	"env":            {"write the current configuration to a .env file", runEnv},
	"migrate":        {"apply database migrations", runMigrate},
}

// cmdEnv carries what every command needs.
type cmdEnv struct {
	cfg     *config.Config
	logger  *log.Logger
	envFile string // loaded at startup; the env command writes it back
}

func main() {
	envFile := flag.String("env-file", ".env", "Env file loaded before reading the environment")
	configFile := flag.String("config", "", "Optional YAML config file")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	flag.Usage = usage
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[salectl] ", log.LstdFlags|log.Lshortfile)

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	if err := config.LoadEnvFile(*envFile); err != nil {
		logger.Fatalf("Failed to load %s: %v", *envFile, err)
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *metricsAddr != "" {
		go startMetricsServer(*metricsAddr, logger)
	}

	err = cmd.run(ctx, &cmdEnv{cfg: cfg, logger: logger, envFile: *envFile}, flag.Args()[1:])
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, errCheckFailed):
		os.Exit(1)
	default:
		logger.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: salectl [flags] <command> [command flags]\n\nCommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-15s %s\n", name, commands[name].usage)
	}
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	flag.PrintDefaults()
}

func startMetricsServer(addr string, logger *log.Logger) {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("HTTP server error: %v", err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"solana-token-sale/internal/config"
	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/instruction"
	"solana-token-sale/internal/monitor"
	"solana-token-sale/internal/reporting"
	"solana-token-sale/internal/solana"
	"solana-token-sale/internal/storage/migrations"
	pgstore "solana-token-sale/internal/storage/postgres"
	"solana-token-sale/internal/validation"
)

// storeFlags are shared by commands that persist results.
type storeFlags struct {
	postgresDSN   *string
	clickhouseDSN *string
}

func addStoreFlags(fs *flag.FlagSet, cfg *config.Config) storeFlags {
	return storeFlags{
		postgresDSN:   fs.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string (empty for in-memory)"),
		clickhouseDSN: fs.String("clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string (empty for in-memory)"),
	}
}

func addAddressFlag(fs *flag.FlagSet, cfg *config.Config) *string {
	return fs.String("address", cfg.SaleAccount, "Sale account address (default "+config.EnvSaleAccount+")")
}

func parseAddress(s string) (solana.PublicKey, error) {
	if s == "" {
		return solana.PublicKey{}, fmt.Errorf("-address or %s is required", config.EnvSaleAccount)
	}
	return solana.ParsePublicKey(s)
}

func newRPC(cfg *config.Config) solana.RPCClient {
	return solana.NewHTTPClient(cfg.RPCURL, solana.WithCommitment(solana.CommitmentConfirmed))
}

// newChecker wires the RPC client and stores. The returned cleanup closes
// database connections.
func newChecker(ctx context.Context, env *cmdEnv, sf storeFlags) (*monitor.Checker, *allStores, func(), error) {
	stores, cleanup, err := createStores(ctx, *sf.postgresDSN, *sf.clickhouseDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	checker := monitor.NewChecker(monitor.Options{
		RPC:       newRPC(env.cfg),
		Snapshots: stores.snapshots,
		Checks:    stores.checks,
		Logger:    env.logger,
	})
	return checker, stores, cleanup, nil
}

func runEncode(_ context.Context, env *cmdEnv, args []string) error {
	cfg := env.cfg
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	typ := fs.String("type", "", "InitializeSale, Buy, CloseSale or UpdatePrice")
	price := fs.String("price", cfg.SalePrice, "Price per token in SOL")
	minBuy := fs.String("min-buy", cfg.MinBuy, "Minimum purchasable amount")
	amount := fs.String("amount", "", "Token amount to buy")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := instruction.ParseInstructionType(*typ)
	if err != nil {
		return err
	}
	program, err := cfg.PublicKey(config.EnvProgramID)
	if err != nil {
		return err
	}

	var ix solana.Instruction
	switch t {
	case instruction.InstructionTypeInitializeSale:
		ix, err = encodeInitializeSale(cfg, program, *price, *minBuy)
	case instruction.InstructionTypeBuy:
		ix, err = encodeBuy(cfg, program, *amount)
	case instruction.InstructionTypeCloseSale:
		ix, err = encodeCloseSale(cfg, program)
	case instruction.InstructionTypeUpdatePrice:
		ix, err = encodeUpdatePrice(cfg, program, *price)
	}
	if err != nil {
		return err
	}

	fmt.Printf("instruction: %s (%d bytes)\n", t, len(ix.Data))
	reporting.WriteInstructionTable(os.Stdout, ix, instruction.AccountLabels(t))
	return nil
}

// keys parses the named config variables in order.
func keys(cfg *config.Config, names ...string) ([]solana.PublicKey, error) {
	out := make([]solana.PublicKey, len(names))
	for i, name := range names {
		pk, err := cfg.PublicKey(name)
		if err != nil {
			return nil, err
		}
		out[i] = pk
	}
	return out, nil
}

func encodeInitializeSale(cfg *config.Config, program solana.PublicKey, price, minBuy string) (solana.Instruction, error) {
	k, err := keys(cfg, config.EnvSellerPubkey, config.EnvTempTokenAccount, config.EnvSaleAccount)
	if err != nil {
		return solana.Instruction{}, err
	}
	lamports, err := instruction.LamportsFromSOL(price)
	if err != nil {
		return solana.Instruction{}, fmt.Errorf("price: %w", err)
	}
	var minAmount uint64
	if minBuy != "" {
		if minAmount, err = instruction.ParseAmount(minBuy); err != nil {
			return solana.Instruction{}, fmt.Errorf("min-buy: %w", err)
		}
	}
	return instruction.NewInitializeSaleInstruction(program,
		&instruction.InitializeSaleInstructionAccounts{
			Seller:           k[0],
			TempTokenAccount: k[1],
			SaleAccount:      k[2],
		},
		&instruction.InitializeSaleInstructionArgs{PricePerToken: lamports, MinBuy: minAmount},
	), nil
}

func encodeBuy(cfg *config.Config, program solana.PublicKey, amount string) (solana.Instruction, error) {
	k, err := keys(cfg, config.EnvBuyerPubkey, config.EnvSellerPubkey, config.EnvTempTokenAccount,
		config.EnvSaleAccount, config.EnvTokenMint)
	if err != nil {
		return solana.Instruction{}, err
	}
	n, err := instruction.ParseAmount(amount)
	if err != nil {
		return solana.Instruction{}, fmt.Errorf("amount: %w", err)
	}
	buyerTokenAccount, err := solana.FindAssociatedTokenAddress(k[0], k[4])
	if err != nil {
		return solana.Instruction{}, fmt.Errorf("derive buyer token account: %w", err)
	}
	pda, _, err := instruction.SalePDA(program)
	if err != nil {
		return solana.Instruction{}, err
	}
	return instruction.NewBuyInstruction(program,
		&instruction.BuyInstructionAccounts{
			Buyer:             k[0],
			Seller:            k[1],
			TempTokenAccount:  k[2],
			SaleAccount:       k[3],
			BuyerTokenAccount: buyerTokenAccount,
			Mint:              k[4],
			SalePDA:           pda,
		},
		&instruction.BuyInstructionArgs{Amount: n},
	), nil
}

func encodeCloseSale(cfg *config.Config, program solana.PublicKey) (solana.Instruction, error) {
	k, err := keys(cfg, config.EnvSellerPubkey, config.EnvSellerTokenAccount, config.EnvTempTokenAccount, config.EnvSaleAccount)
	if err != nil {
		return solana.Instruction{}, err
	}
	pda, _, err := instruction.SalePDA(program)
	if err != nil {
		return solana.Instruction{}, err
	}
	return instruction.NewCloseSaleInstruction(program,
		&instruction.CloseSaleInstructionAccounts{
			Seller:             k[0],
			SellerTokenAccount: k[1],
			TempTokenAccount:   k[2],
			SalePDA:            pda,
			SaleAccount:        k[3],
		},
	), nil
}

func encodeUpdatePrice(cfg *config.Config, program solana.PublicKey, price string) (solana.Instruction, error) {
	k, err := keys(cfg, config.EnvSellerPubkey, config.EnvSaleAccount)
	if err != nil {
		return solana.Instruction{}, err
	}
	lamports, err := instruction.LamportsFromSOL(price)
	if err != nil {
		return solana.Instruction{}, fmt.Errorf("price: %w", err)
	}
	return instruction.NewUpdatePriceInstruction(program,
		&instruction.UpdatePriceInstructionAccounts{Seller: k[0], SaleAccount: k[1]},
		&instruction.UpdatePriceInstructionArgs{NewPrice: lamports},
	), nil
}

func runPDA(_ context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("pda", flag.ContinueOnError)
	program := fs.String("program", env.cfg.ProgramID, "Sale program id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pk, err := solana.ParsePublicKey(*program)
	if err != nil {
		return fmt.Errorf("program: %w", err)
	}
	pda, bump, err := instruction.SalePDA(pk)
	if err != nil {
		return err
	}
	fmt.Printf("seed:  %q\npda:   %s\nbump:  %d\n", instruction.SalePDASeed, pda, bump)
	return nil
}

func runInspect(ctx context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	address := addAddressFlag(fs, env.cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := parseAddress(*address)
	if err != nil {
		return err
	}

	checker := monitor.NewChecker(monitor.Options{RPC: newRPC(env.cfg), Logger: env.logger})
	insp, err := checker.Inspect(ctx, addr)
	if insp != nil && insp.Account != nil {
		reporting.WriteAccountTable(os.Stdout, insp)
	}
	return err
}

func runVerify(ctx context.Context, env *cmdEnv, args []string) error {
	cfg := env.cfg
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	address := addAddressFlag(fs, cfg)
	sf := addStoreFlags(fs, cfg)
	var expect expectFlag
	fs.Var(&expect, "expect", "Expected field value as field=value (repeatable, aliases accepted)")
	afterInit := fs.Bool("after-initialize", false, "Expect the state InitializeSale leaves, from config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := parseAddress(*address)
	if err != nil {
		return err
	}

	expected := validation.ExpectedState{}
	if *afterInit {
		if expected, err = expectedAfterInitialize(cfg); err != nil {
			return err
		}
	}
	for f, v := range expect.state {
		expected[f] = v
	}
	if len(expected) == 0 {
		return fmt.Errorf("nothing to verify: use -expect or -after-initialize")
	}

	checker, _, cleanup, err := newChecker(ctx, env, sf)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := checker.Verify(ctx, addr, expected)
	if report != nil {
		if report.Inspection.Account != nil {
			reporting.WriteAccountTable(os.Stdout, report.Inspection)
		}
		reporting.WriteCheckTable(os.Stdout, []*domain.CheckRecord{report.Check})
	}
	if err != nil {
		return err
	}
	if verr := report.Err(); verr != nil {
		env.logger.Printf("verification failed:\n%v", verr)
		return errCheckFailed
	}
	return nil
}

func expectedAfterInitialize(cfg *config.Config) (validation.ExpectedState, error) {
	k, err := keys(cfg, config.EnvSellerPubkey, config.EnvTempTokenAccount)
	if err != nil {
		return nil, err
	}
	price, err := cfg.PriceLamports()
	if err != nil {
		return nil, err
	}
	minBuy, err := cfg.MinBuyAmount()
	if err != nil {
		return nil, err
	}
	return validation.AfterInitialize(k[0], k[1], price, minBuy), nil
}

func runConfirmClosed(ctx context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("confirm-closed", flag.ContinueOnError)
	address := addAddressFlag(fs, env.cfg)
	sf := addStoreFlags(fs, env.cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := parseAddress(*address)
	if err != nil {
		return err
	}

	checker, _, cleanup, err := newChecker(ctx, env, sf)
	if err != nil {
		return err
	}
	defer cleanup()

	rec, err := checker.ConfirmClosed(ctx, addr)
	if rec != nil {
		reporting.WriteCheckTable(os.Stdout, []*domain.CheckRecord{rec})
	}
	if err != nil {
		env.logger.Printf("%v", err)
		return errCheckFailed
	}
	return nil
}

func runWatch(ctx context.Context, env *cmdEnv, args []string) error {
	cfg := env.cfg
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	address := addAddressFlag(fs, cfg)
	sf := addStoreFlags(fs, cfg)
	wsURL := fs.String("ws-url", cfg.WSURL, "Solana WebSocket endpoint")
	var expect expectFlag
	fs.Var(&expect, "expect", "Expected field value as field=value (repeatable, aliases accepted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := parseAddress(*address)
	if err != nil {
		return err
	}

	checker, stores, cleanup, err := newChecker(ctx, env, sf)
	if err != nil {
		return err
	}
	defer cleanup()

	ws, err := solana.NewWSClient(ctx, *wsURL, nil)
	if err != nil {
		return fmt.Errorf("connect websocket: %w", err)
	}
	defer ws.Close()

	watcher := monitor.NewWatcher(monitor.WatcherOptions{
		WS:       ws,
		Checker:  checker,
		Progress: stores.progress,
		Expected: expect.state,
		Logger:   env.logger,
	})
	observations, err := watcher.Watch(ctx, addr)
	if err != nil {
		return err
	}

	for obs := range observations {
		switch {
		case obs.Closed:
			env.logger.Printf("slot %d: sale account closed", obs.Slot)
		case obs.Err != nil:
			env.logger.Printf("slot %d: %v", obs.Slot, obs.Err)
		default:
			reporting.WriteAccountTable(os.Stdout, &monitor.Inspection{
				Address: addr,
				Slot:    obs.Slot,
				Account: obs.Account,
			})
			if obs.Result != nil && !obs.Result.Passed() {
				env.logger.Printf("slot %d: verification failed:\n%v", obs.Slot, obs.Result.Err())
			}
		}
	}
	return ctx.Err()
}

func runRent(ctx context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("rent", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	checker := monitor.NewChecker(monitor.Options{RPC: newRPC(env.cfg), Logger: env.logger})
	lamports, err := checker.Rent(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("rent-exempt minimum: %d lamports (%s SOL)\n", lamports, instruction.FormatSOL(lamports))
	return nil
}

func runBalances(ctx context.Context, env *cmdEnv, args []string) error {
	cfg := env.cfg
	fs := flag.NewFlagSet("balances", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var accounts []monitor.NamedAccount
	add := func(name, envName string, token bool) {
		if pk, err := cfg.PublicKey(envName); err == nil {
			accounts = append(accounts, monitor.NamedAccount{Name: name, Address: pk, Token: token})
		}
	}
	add("seller", config.EnvSellerPubkey, false)
	add("buyer", config.EnvBuyerPubkey, false)
	add("seller token account", config.EnvSellerTokenAccount, true)
	add("temp token account", config.EnvTempTokenAccount, true)

	buyer, errBuyer := cfg.PublicKey(config.EnvBuyerPubkey)
	mint, errMint := cfg.PublicKey(config.EnvTokenMint)
	if errBuyer == nil && errMint == nil {
		ata, err := solana.FindAssociatedTokenAddress(buyer, mint)
		if err != nil {
			return err
		}
		accounts = append(accounts, monitor.NamedAccount{Name: "buyer token account", Address: ata, Token: true})
	}
	if len(accounts) == 0 {
		return fmt.Errorf("no accounts configured")
	}

	checker := monitor.NewChecker(monitor.Options{RPC: newRPC(cfg), Logger: env.logger})
	balances, err := checker.Balances(ctx, accounts)
	if err != nil {
		return err
	}
	reporting.WriteBalanceTable(os.Stdout, balances)
	return nil
}

func runHistory(ctx context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	address := addAddressFlag(fs, env.cfg)
	limit := fs.Int("limit", 20, "Maximum number of signatures")
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := parseAddress(*address)
	if err != nil {
		return err
	}

	checker := monitor.NewChecker(monitor.Options{RPC: newRPC(env.cfg), Logger: env.logger})
	sigs, err := checker.History(ctx, addr, *limit)
	if err != nil {
		return err
	}
	for _, s := range sigs {
		status := "ok"
		if s.Err != nil {
			status = "failed"
		}
		fmt.Printf("%d\t%s\t%s\n", s.Slot, s.Signature, status)
	}
	return nil
}

func runReport(ctx context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	address := addAddressFlag(fs, env.cfg)
	sf := addStoreFlags(fs, env.cfg)
	outputDir := fs.String("output-dir", "", "Directory for REPORT.md and checks.csv (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := parseAddress(*address)
	if err != nil {
		return err
	}

	stores, cleanup, err := createStores(ctx, *sf.postgresDSN, *sf.clickhouseDSN)
	if err != nil {
		return err
	}
	defer cleanup()

	r, err := reporting.NewGenerator(stores.snapshots, stores.checks).Generate(ctx, addr.String())
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	md := reporting.RenderMarkdown(r)
	if *outputDir == "" {
		fmt.Print(md)
		reporting.WriteCheckTable(os.Stdout, r.Checks)
		return nil
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(*outputDir, "REPORT.md"), []byte(md), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(*outputDir, "checks.csv"), []byte(reporting.RenderCSV(r.Checks)), 0o644); err != nil {
		return err
	}
	env.logger.Printf("Report written to %s", *outputDir)
	return nil
}

// setFlag collects repeated -set KEY=VALUE flags.
type setFlag [][2]string

func (s *setFlag) String() string { return fmt.Sprint([][2]string(*s)) }

func (s *setFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected KEY=VALUE, got %q", v)
	}
	*s = append(*s, [2]string{key, value})
	return nil
}

func runEnv(_ context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("env", flag.ContinueOnError)
	out := fs.String("out", env.envFile, "Output file (defaults to -env-file)")
	var sets setFlag
	fs.Var(&sets, "set", "Override a variable as KEY=VALUE (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, kv := range sets {
		if err := env.cfg.Set(kv[0], kv[1]); err != nil {
			return err
		}
	}
	if err := env.cfg.Validate(); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("-out is required")
	}
	if err := config.WriteEnvFile(*out, env.cfg); err != nil {
		return err
	}
	env.logger.Printf("Wrote %s", *out)
	return nil
}

func runMigrate(ctx context.Context, env *cmdEnv, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	sf := addStoreFlags(fs, env.cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sf.postgresDSN == "" && *sf.clickhouseDSN == "" {
		return fmt.Errorf("-postgres-dsn or -clickhouse-dsn is required")
	}

	if *sf.postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *sf.postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		applied, err := migrations.RunPostgresMigrations(ctx, pool)
		pool.Close()
		if err != nil {
			return err
		}
		env.logger.Printf("PostgreSQL: applied %d migration(s) %v", len(applied), applied)
	}

	if *sf.clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *sf.clickhouseDSN)
		if err != nil {
			return err
		}
		conn.Close()
		env.logger.Println("ClickHouse: migrations applied")
	}
	return nil
}

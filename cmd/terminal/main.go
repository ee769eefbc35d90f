package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"fuelpay-terminal/internal/api"
	"fuelpay-terminal/internal/cache"
	"fuelpay-terminal/internal/config"
	"fuelpay-terminal/internal/credstore"
	"fuelpay-terminal/internal/monitoring"
	"fuelpay-terminal/internal/services"
	"fuelpay-terminal/internal/session"
	"fuelpay-terminal/internal/token"
	"fuelpay-terminal/internal/workflow"
)

const usage = `fuelpay terminal - attendant client for the fuel-wallet API

Usage:
  terminal login -phone <11 digits> -password <password>
  terminal logout
  terminal whoami
  terminal buy -amount <naira> -wallet <wallet id> -pin <4 digits> [-scan <payload>] [-fuel-token <code>] [-dispense-token <code>] [-service petrol|diesel] [-receipt]
  terminal dispense [-scan <payload>] [-fuel-token <code>] [-dispense-token <code>] [-service petrol|diesel] [-receipt]
  terminal history [-page N] [-limit N]
  terminal metrics
  terminal receipt [-clear]
  terminal monitor
`

// app bundles the wired collaborators for the subcommands
type app struct {
	cfg      *config.Config
	store    *credstore.Store
	client   *api.Client
	session  *session.Manager
	cache    cache.TransactionCache
	history  *services.HistoryService
	receipts *services.ReceiptService
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()

	store, err := credstore.New(cfg.Credentials.Dir)
	if err != nil {
		log.Fatalf("credential store: %v", err)
	}

	client := api.New(cfg.API.BaseURL, store, api.WithTimeout(cfg.Timeout()))
	sess := session.NewManager(client, store)

	a := &app{
		cfg:      cfg,
		store:    store,
		client:   client,
		session:  sess,
		cache:    buildCache(cfg),
		history:  services.NewHistoryService(client),
		receipts: services.NewReceiptService(cfg.Receipts.Dir),
	}

	ctx := context.Background()

	var runErr error
	switch os.Args[1] {
	case "login":
		runErr = a.runLogin(ctx, os.Args[2:])
	case "logout":
		runErr = a.runLogout()
	case "whoami":
		runErr = a.runWhoami(ctx)
	case "buy":
		runErr = a.runBuy(ctx, os.Args[2:])
	case "dispense":
		runErr = a.runDispense(ctx, os.Args[2:])
	case "history":
		runErr = a.runHistory(ctx, os.Args[2:])
	case "metrics":
		runErr = a.runMetrics(ctx)
	case "receipt":
		runErr = a.runReceipt(ctx, os.Args[2:])
	case "monitor":
		runErr = a.runMonitor()
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

func buildCache(cfg *config.Config) cache.TransactionCache {
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.Printf("[Cache] redis unavailable (%v), falling back to memory", err)
			return cache.NewMemoryCache()
		}
		return rc
	}
	return cache.NewMemoryCache()
}

// requireSession bootstraps and fails unless the terminal is authenticated
func (a *app) requireSession(ctx context.Context) error {
	state, err := a.session.Bootstrap(ctx)
	if err != nil {
		return err
	}
	if state != session.StateAuthenticated {
		return session.ErrNotAuthenticated
	}
	return nil
}

func (a *app) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	phone := fs.String("phone", "", "11-digit attendant phone number")
	password := fs.String("password", "", "attendant password")
	fs.Parse(args)

	if err := a.session.Login(ctx, *phone, *password); err != nil {
		return err
	}
	fmt.Println("logged in")
	return nil
}

func (a *app) runLogout() error {
	if err := a.session.Logout(); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

func (a *app) runWhoami(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}
	user := a.session.CurrentUser()
	fmt.Printf("%s %s (%s)\n", user.FirstName, user.LastName, user.PhoneNumber)
	fmt.Printf("role: %s, station: %s\n", user.Role.Name, user.Station.Name)
	return nil
}

func (a *app) runBuy(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("buy", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "purchase amount in naira")
	wallet := fs.String("wallet", "", "customer wallet id (phone number)")
	pin := fs.String("pin", "", "customer wallet pin")
	scan := fs.String("scan", "", "scanned token QR payload")
	fuelTok := fs.String("fuel-token", "", "7-digit fuel token")
	dispTok := fs.String("dispense-token", "", "7-character dispense token")
	service := fs.String("service", "", "service type: petrol or diesel")
	receipt := fs.Bool("receipt", false, "write a PDF receipt on success")
	fs.Parse(args)

	if err := a.requireSession(ctx); err != nil {
		return err
	}

	wf := workflow.NewPurchase(a.client, a.cache)
	if err := wf.SubmitAmount(*amount, *wallet); err != nil {
		return err
	}
	if err := wf.ConfirmPIN(ctx, *pin); err != nil {
		return err
	}

	if wf.Stage() == workflow.StageComplete {
		fmt.Println("purchase complete (dispense token not required by station)")
		return a.finish(wf, *receipt)
	}

	fmt.Println("purchase accepted, verifying fuel token")
	if err := a.driveDispenseStages(ctx, wf, *scan, *fuelTok, *dispTok, *service); err != nil {
		return err
	}
	return a.finish(wf, *receipt)
}

func (a *app) runDispense(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dispense", flag.ExitOnError)
	scan := fs.String("scan", "", "scanned token QR payload")
	fuelTok := fs.String("fuel-token", "", "7-digit fuel token")
	dispTok := fs.String("dispense-token", "", "7-character dispense token")
	service := fs.String("service", "", "service type: petrol or diesel")
	receipt := fs.Bool("receipt", false, "write a PDF receipt on success")
	fs.Parse(args)

	if err := a.requireSession(ctx); err != nil {
		return err
	}

	wf := workflow.NewDispense(a.client, a.cache)
	if err := a.driveDispenseStages(ctx, wf, *scan, *fuelTok, *dispTok, *service); err != nil {
		return err
	}
	return a.finish(wf, *receipt)
}

// driveDispenseStages runs the fuel-token and dispense-token stages from
// either flags or a scanned payload
func (a *app) driveDispenseStages(ctx context.Context, wf *workflow.Purchase, scan, fuelTok, dispTok, service string) error {
	if scan != "" {
		if err := wf.ApplyScan(scan); err != nil {
			return err
		}
	}

	if err := wf.SubmitFuelToken(ctx, fuelTok); err != nil {
		return err
	}
	fmt.Println("fuel token verified")

	svc, err := token.ParseService(service)
	if err != nil {
		return err
	}
	if err := wf.SubmitDispenseToken(ctx, dispTok, svc); err != nil {
		return err
	}
	fmt.Println("dispense authorized")
	return nil
}

func (a *app) finish(wf *workflow.Purchase, writeReceipt bool) error {
	p := wf.Payment()
	if p == nil {
		return nil
	}
	fmt.Printf("ref: %s  amount: NGN %s  status: %s\n", p.Ref, p.Amount, p.Status)

	if writeReceipt {
		path, err := a.receipts.SaveReceipt(p)
		if err != nil {
			return err
		}
		fmt.Printf("receipt: %s\n", path)
	}
	return nil
}

func (a *app) runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "page size")
	fs.Parse(args)

	if err := a.requireSession(ctx); err != nil {
		return err
	}

	result, err := a.history.GetHistory(ctx, *page, *limit)
	if err != nil {
		return err
	}

	for _, tx := range result.Transactions {
		fmt.Printf("%-12s NGN %-10s %-8s %s\n", tx.Ref, tx.Amount, tx.Service, tx.CreatedAt)
	}
	fmt.Printf("page %d of %d transactions", result.Meta.Page, result.Meta.TotalCount)
	if result.HasMore {
		fmt.Print(" (more available)")
	}
	fmt.Println()
	return nil
}

func (a *app) runMetrics(ctx context.Context) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	m, err := a.history.GetMetrics(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("total amount: NGN %s\n", m.TotalAmount)
	fmt.Printf("total count:  %d\n", m.TotalCount)
	return nil
}

func (a *app) runReceipt(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("receipt", flag.ExitOnError)
	clear := fs.Bool("clear", false, "evict the cached transaction after writing")
	fs.Parse(args)

	p, ok, err := a.cache.Get(ctx, cache.TransactionKey)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no pending transaction")
	}

	path, err := a.receipts.SaveReceipt(p)
	if err != nil {
		return err
	}
	fmt.Printf("receipt: %s\n", path)

	if *clear {
		return a.cache.Evict(ctx, cache.TransactionKey)
	}
	return nil
}

func (a *app) runMonitor() error {
	port := a.cfg.Monitoring.Port
	return monitoring.NewServer(port).Start()
}

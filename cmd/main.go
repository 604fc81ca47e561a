package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"emilock-admin/internal/auth"
	"emilock-admin/internal/client"
	"emilock-admin/internal/client/model"
	"emilock-admin/internal/config"
	"emilock-admin/internal/console"
	"emilock-admin/internal/logger"
	"emilock-admin/internal/provision"
	"emilock-admin/internal/session"
	appErrors "emilock-admin/pkg/errors"

	"go.uber.org/zap"
)

const usage = `Usage: emilock-admin <command> [options]

Commands:
  login      Sign in and store the session
  logout     Clear the stored session
  whoami     Show the active session
  clients    List clients (subcommands: create, code, lock, unlock)
  locations  Show last known client device locations
  stats      Show the device dashboard counts
  setup      Print the device-setup QR payload for a client
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Backend.Host == "" {
		logger.Fatal("Backend configuration is missing. Please set the API_HOST environment variable.")
	}

	if len(os.Args) < 2 {
		os.Stderr.WriteString(usage)
		os.Exit(1)
	}

	store, err := session.Open(cfg.Session.StatePath)
	if err != nil {
		logger.Fatal("Failed to open session storage", zap.Error(err))
	}
	defer store.Close()

	// Interrupt cancels whatever fetch is in flight, the way leaving a
	// screen should abandon its pending request.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &app{
		cfg:     cfg,
		store:   store,
		auth:    auth.NewService(cfg),
		clients: client.NewService(cfg),
	}

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		message := err.Error()
		if message == "" {
			message = "An unexpected error occurred"
		}
		fmt.Fprintln(os.Stderr, "Error: "+message)
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	store   *session.Store
	auth    *auth.Service
	clients *client.Service
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami(ctx)
	case "clients":
		return a.clientsCmd(ctx, args)
	case "locations":
		return a.locations(ctx)
	case "stats":
		return a.stats(ctx)
	case "setup":
		return a.setup(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		os.Stderr.WriteString(usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	username := flags.String("username", "", "Admin username")
	password := flags.String("password", "", "Admin password (prompted when omitted)")
	stay := flags.Bool("stay", true, "Stay signed in across launches")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Relaunch with a valid stored session skips the login form.
	if sess, err := a.auth.Restore(ctx, a.store); err == nil && sess != nil {
		fmt.Printf("Already signed in as %s.\n", sess.Username)
		return nil
	}

	reader := bufio.NewReader(os.Stdin)
	if *username == "" {
		fmt.Print("Username: ")
		line, _ := reader.ReadString('\n')
		*username = strings.TrimRight(line, "\r\n")
	}
	if *password == "" {
		fmt.Print("Password: ")
		line, _ := reader.ReadString('\n')
		*password = strings.TrimRight(line, "\r\n")
	}

	sess, err := a.auth.Login(ctx, *username, *password, *stay)
	if err != nil {
		return err
	}
	if err := a.store.SaveSession(sess); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s.\n", sess.Username)
	return nil
}

func (a *app) logout() error {
	if err := a.store.ClearSession(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	console.RenderSession(os.Stdout, sess)
	return nil
}

func (a *app) clientsCmd(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return a.listClients(ctx, args)
	}

	sub := args[0]
	rest := args[1:]
	switch sub {
	case "list":
		return a.listClients(ctx, rest)
	case "create":
		return a.createClient(ctx, rest)
	case "code":
		return a.generateCode(ctx, rest)
	case "lock":
		return a.lockClient(ctx, rest)
	case "unlock":
		return a.unlockClient(ctx, rest)
	default:
		return fmt.Errorf("unknown clients subcommand %q", sub)
	}
}

func (a *app) listClients(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("clients list", flag.ExitOnError)
	unregistered := flags.Bool("unregistered", false, "Only clients awaiting device setup")
	if err := flags.Parse(args); err != nil {
		return err
	}

	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	clients, err := a.clients.RefreshClients(ctx, sess.Token)
	if err != nil {
		// Keep rendering from the last known state, the fetch error was
		// already logged.
		fmt.Fprintln(os.Stderr, "Warning: could not refresh clients, showing last known data.")
	}
	if *unregistered {
		clients = model.Unregistered(clients)
	}
	console.RenderClients(os.Stdout, clients)
	return nil
}

func (a *app) createClient(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("clients create", flag.ExitOnError)
	name := flags.String("name", "", "Client name")
	phone := flags.String("phone", "", "Client phone number")
	email := flags.String("email", "", "Client email")
	loanAmount := flags.Float64("loan-amount", 0, "Financed amount")
	downPayment := flags.Float64("down-payment", 0, "Down payment")
	interest := flags.Float64("interest", 10, "Annual interest rate percent")
	tenure := flags.Int("tenure", 12, "Loan tenure in months")
	if err := flags.Parse(args); err != nil {
		return err
	}

	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	req := &model.CreateClientRequest{
		Name:             *name,
		Phone:            *phone,
		Email:            *email,
		AdminID:          sess.AdminID,
		LoanAmount:       *loanAmount,
		DownPayment:      *downPayment,
		InterestRate:     *interest,
		LoanTenureMonths: *tenure,
	}

	created, err := a.clients.CreateClient(ctx, sess.Token, req)
	if err != nil {
		return err
	}

	fmt.Printf("Client %s created with id %s.\n", created.Name, created.ID)
	fmt.Println("Run 'emilock-admin clients code -id " + created.ID + "' to issue a registration code.")
	return nil
}

func (a *app) generateCode(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("clients code", flag.ExitOnError)
	id := flags.String("id", "", "Client id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	resp, err := a.clients.GenerateCode(ctx, sess.Token, *id)
	if err != nil {
		return err
	}

	fmt.Printf("New registration code: %s\n", resp.RegistrationCode)
	if resp.CreditsRemaining != nil {
		fmt.Printf("Credits remaining: %v\n", resp.CreditsRemaining)
	}
	return nil
}

func (a *app) lockClient(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("clients lock", flag.ExitOnError)
	id := flags.String("id", "", "Client id")
	message := flags.String("message", "", "Lock screen message shown on the device")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	if err := a.clients.Lock(ctx, sess.Token, *id, *message); err != nil {
		return err
	}
	fmt.Println("Device locked.")
	return nil
}

func (a *app) unlockClient(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("clients unlock", flag.ExitOnError)
	id := flags.String("id", "", "Client id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	if err := a.clients.Unlock(ctx, sess.Token, *id); err != nil {
		return err
	}
	fmt.Println("Device unlocked.")
	return nil
}

func (a *app) locations(ctx context.Context) error {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	locations, err := a.clients.RefreshLocations(ctx, sess.Token)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning: could not refresh locations, showing last known data.")
	}
	console.RenderLocations(os.Stdout, locations)
	return nil
}

func (a *app) stats(ctx context.Context) error {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	stats, err := a.clients.RefreshStats(ctx, sess.AdminID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning: could not refresh stats, showing last known data.")
	}
	console.RenderStats(os.Stdout, stats)
	return nil
}

func (a *app) setup(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("setup", flag.ExitOnError)
	id := flags.String("id", "", "Client id")
	enterprise := flags.Bool("enterprise", false, "Emit the Android Enterprise provisioning payload")
	loan := flags.Bool("loan", false, "Use the loan-plan setup type")
	share := flags.Bool("share", false, "Also print the shareable setup instructions")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	clients, err := a.clients.RefreshClients(ctx, sess.Token)
	if err != nil {
		return err
	}

	var selected *model.Client
	for i := range clients {
		if clients[i].ID == *id {
			selected = &clients[i]
			break
		}
	}
	if selected == nil {
		return appErrors.ErrClientMissing
	}
	if selected.RegistrationCode == "" {
		return errors.New("client has no registration code yet, run 'clients code' first")
	}

	apiBase := a.cfg.Backend.PrimaryBaseURL()

	var payload interface{}
	if *enterprise {
		payload = provision.NewEnterprisePayload(selected, apiBase)
	} else {
		payload = provision.NewSimplePayload(selected, apiBase, *loan)
	}

	encoded, err := provision.Encode(payload)
	if err != nil {
		return err
	}

	fmt.Println("QR payload:")
	fmt.Println(encoded)
	if *share {
		fmt.Println()
		fmt.Print(provision.ShareInstructions(selected, apiBase))
	}
	return nil
}

// requireSession restores the stored session, verifying the token first.
func (a *app) requireSession(ctx context.Context) (*session.AdminSession, error) {
	sess, err := a.auth.Restore(ctx, a.store)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, appErrors.ErrNoSession
	}
	return sess, nil
}

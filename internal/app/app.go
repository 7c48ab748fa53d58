// Package app wires the suitectl command: it loads the configuration,
// initializes logging, opens the session storage and dispatches the
// requested command to the session, API client and UI helpers.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/patric-chuzhbe/suiteclient/internal/apiclient"
	"github.com/patric-chuzhbe/suiteclient/internal/config"
	"github.com/patric-chuzhbe/suiteclient/internal/db/jsondb"
	"github.com/patric-chuzhbe/suiteclient/internal/db/memorystorage"
	"github.com/patric-chuzhbe/suiteclient/internal/db/postgresdb"
	"github.com/patric-chuzhbe/suiteclient/internal/format"
	"github.com/patric-chuzhbe/suiteclient/internal/logger"
	"github.com/patric-chuzhbe/suiteclient/internal/models"
	"github.com/patric-chuzhbe/suiteclient/internal/session"
	"github.com/patric-chuzhbe/suiteclient/internal/storage"
	"github.com/patric-chuzhbe/suiteclient/internal/ui"
	"github.com/patric-chuzhbe/suiteclient/internal/validation"
)

const (
	loadingElement = "loading"
	messageElement = "message"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type sessionStorage interface {
	storage.KeyValueStore
	pinger
	Close() error
}

// ErrUsage is returned for an unknown command or wrong arguments.
var ErrUsage = errors.New("usage: suitectl [flags] register|login <email> <password> | logout | whoami | call <method> <endpoint> [json] | token [--copy] | check <path>")

// ErrNotLoggedIn is returned by commands that need a stored token.
var ErrNotLoggedIn = errors.New("not logged in")

// App encapsulates the configuration, the session storage and the helpers
// one suitectl invocation needs.
type App struct {
	cfg       *config.Config
	db        sessionStorage
	navigator *terminalNavigator
	session   *session.Session
	client    *apiclient.Client
	doc       ui.Document
	out       io.Writer
	location  *time.Location
}

type initOptions struct {
	configOptions []config.InitOption
	out           io.Writer
	location      *time.Location
}

type InitOption func(*initOptions)

// WithConfigOptions forwards options to config.New.
func WithConfigOptions(opts ...config.InitOption) InitOption {
	return func(options *initOptions) {
		options.configOptions = append(options.configOptions, opts...)
	}
}

// WithOutput redirects everything the command prints.
func WithOutput(out io.Writer) InitOption {
	return func(options *initOptions) {
		options.out = out
	}
}

// WithLocation sets the time zone dates are shown in.
func WithLocation(loc *time.Location) InitOption {
	return func(options *initOptions) {
		options.location = loc
	}
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting and opening the session storage
// - building the session, the API client and the console document
func New(optionsProto ...InitOption) (*App, error) {
	options := &initOptions{
		out:      os.Stdout,
		location: time.Local,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	var err error
	app := &App{
		out:      options.out,
		location: options.location,
	}

	app.cfg, err = config.New(options.configOptions...)
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, err
	}

	err = checkStorage(context.Background(), app.db)
	if err != nil {
		return nil, err
	}

	app.navigator = &terminalNavigator{path: "/", out: app.out}
	app.session = session.New(
		app.db,
		app.navigator,
		session.WithLoginPath(app.cfg.LoginPath),
		session.WithPublicPaths(app.cfg.PublicPaths()...),
	)
	app.client = apiclient.New(app.cfg.BaseURL, app.session)
	app.doc = ui.NewConsoleDocument(app.out, map[string]string{
		loadingElement: "Contacting " + app.cfg.BaseURL,
	})

	return app, nil
}

// Run executes the command named by the leftover command-line arguments.
func (a *App) Run(ctx context.Context) error {
	err := a.dispatch(ctx, a.cfg.Args)
	if err != nil && !errors.Is(err, ErrUsage) {
		ui.ShowMessage(a.doc, messageElement, err.Error(), "error")
	}

	return err
}

func (a *App) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "call":
		return a.call(ctx, rest)
	case "token":
		return a.token(ctx, rest)
	case "check":
		return a.check(ctx, rest)
	}

	return fmt.Errorf("%w (unknown command %q)", ErrUsage, command)
}

func credentialsFromArgs(args []string) (string, string, error) {
	if len(args) != 2 {
		return "", "", ErrUsage
	}
	email, password := args[0], args[1]

	if missing := validation.MissingFields(map[string]any{"email": email, "password": password}); len(missing) > 0 {
		return "", "", fmt.Errorf("please fill in: %s", strings.Join(missing, ", "))
	}
	if !validation.ValidateEmail(email) {
		return "", "", fmt.Errorf("%q is not a valid email address", email)
	}

	return email, password, nil
}

func (a *App) register(ctx context.Context, args []string) error {
	email, password, err := credentialsFromArgs(args)
	if err != nil {
		return err
	}

	ui.ShowLoading(a.doc, loadingElement)
	resp, err := a.client.Register(ctx, email, password)
	ui.HideLoading(a.doc, loadingElement)
	if err != nil {
		return err
	}

	ui.ShowMessage(a.doc, messageElement, fmt.Sprintf("%s (user id %s)", resp.Message, resp.UserID), "success")

	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	email, password, err := credentialsFromArgs(args)
	if err != nil {
		return err
	}

	ui.ShowLoading(a.doc, loadingElement)
	resp, err := a.client.Login(ctx, email, password)
	ui.HideLoading(a.doc, loadingElement)
	if err != nil {
		return err
	}

	ui.ShowMessage(a.doc, messageElement, fmt.Sprintf("%s, logged in as %s", resp.Message, resp.Email), "success")

	return nil
}

func (a *App) logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}

	ui.ShowMessage(a.doc, messageElement, "Logged out", "success")

	return nil
}

// requireAuth runs the auth check as if a protected page were open.
func (a *App) requireAuth(ctx context.Context, path string) error {
	a.navigator.path = path
	if err := a.session.CheckAuth(ctx); err != nil {
		return err
	}
	if a.navigator.redirected {
		return ErrNotLoggedIn
	}

	return nil
}

func (a *App) whoami(ctx context.Context) error {
	if err := a.requireAuth(ctx, "/"); err != nil {
		return err
	}

	ui.ShowLoading(a.doc, loadingElement)
	me, err := a.client.Me(ctx)
	ui.HideLoading(a.doc, loadingElement)
	if err != nil {
		return err
	}

	line := fmt.Sprintf("%s (user id %s)", me.Email, me.UserID)
	identity, err := a.session.Identity(ctx)
	if err != nil {
		logger.Log.Debugln("Error calling the `a.session.Identity()`: ", zap.Error(err))
	} else if !identity.ExpiresAt.IsZero() {
		line += ", token expires " + format.FormatTime(identity.ExpiresAt, a.location)
	}

	ui.ShowMessage(a.doc, messageElement, line, "info")

	return nil
}

func (a *App) call(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return ErrUsage
	}
	method, endpoint := args[0], args[1]

	var payload any
	if len(args) == 3 {
		if err := json.Unmarshal([]byte(args[2]), &payload); err != nil {
			return fmt.Errorf("the payload is not valid JSON: %w", err)
		}
	}

	ui.ShowLoading(a.doc, loadingElement)
	resp, err := a.client.Call(ctx, endpoint, method, payload)
	ui.HideLoading(a.doc, loadingElement)
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(resp.Body, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "HTTP %d\n%s\n", resp.StatusCode, pretty)

	return err
}

func (a *App) token(ctx context.Context, args []string) error {
	copyIt := len(args) == 1 && args[0] == "--copy"
	if len(args) > 1 || (len(args) == 1 && !copyIt) {
		return ErrUsage
	}

	token, found, err := a.session.Token(ctx)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %w", ErrNotLoggedIn, models.ErrNoToken)
	}

	if copyIt {
		return ui.CopyToClipboard(ctx, ui.OSC52Clipboard{Out: a.out}, ui.WriterAlerter{Out: a.out}, token)
	}

	_, err = fmt.Fprintln(a.out, token)

	return err
}

func (a *App) check(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}

	a.navigator.path = args[0]
	if err := a.session.CheckAuth(ctx); err != nil {
		return err
	}
	if !a.navigator.redirected {
		ui.ShowMessage(a.doc, messageElement, fmt.Sprintf("%s is reachable", args[0]), "success")
	}

	return nil
}

// Close releases the session storage and flushes the logger.
func (a *App) Close() error {
	err := a.db.Close()
	if syncErr := logger.Sync(); syncErr != nil {
		err = errors.Join(err, syncErr)
	}

	return err
}

// checkStorage pings a freshly opened storage and closes it when unreachable.
func checkStorage(ctx context.Context, db sessionStorage) error {
	err := db.Ping(ctx)
	if err == nil {
		return nil
	}

	err = fmt.Errorf("in app.checkStorage(): the session storage is unreachable: %w", err)
	if closeErr := db.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}

	return err
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.StorageFile != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (sessionStorage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			postgresdb.WithNamespace(cfg.StorageNamespace),
		)

	case models.StorageTypeFile:
		return jsondb.New(cfg.StorageFile)
	}

	return memorystorage.New()
}

// terminalNavigator stands in for the browser location: redirects are
// reported to the user instead of loading a page.
type terminalNavigator struct {
	path       string
	redirected bool
	out        io.Writer
}

func (n *terminalNavigator) CurrentPath() string {
	return n.path
}

func (n *terminalNavigator) Navigate(path string) {
	n.redirected = true
	n.path = path
	_, _ = fmt.Fprintf(n.out, "Redirecting to %s\n", path)
}

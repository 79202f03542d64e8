// Command hosposctl administers a HOSPOS backend from the terminal.
//
//	hosposctl login -name alice
//	hosposctl list products -q latte
//	hosposctl delete customers 65f0c0ffee0000000000beef
//	hosposctl discounts watch
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/service"
	"github.com/hospos/hospos-client/internal/core/validation"
	"github.com/hospos/hospos-client/internal/infrastructure/backend"
	"github.com/hospos/hospos-client/internal/infrastructure/config"
	"github.com/hospos/hospos-client/internal/infrastructure/storage"
	"github.com/hospos/hospos-client/pkg/logger"
)

const usage = `usage: hosposctl [-profile name] <command> [args]

commands:
  login -name <name>           log in; the PIN is read from stdin
  logout                       forget the stored session
  whoami                       show the stored session
  list <resource> [-q text]    list a resource
  delete <resource> <id>       delete after confirmation
  discounts watch              live discount countdown

resources: ` + resourceNames

type app struct {
	client   *backend.Client
	validate *validation.Validator
	auth     *service.AuthService
	admin    *service.AdminService
	store    *service.SessionStore
	cmds     map[string]resourceCmd
	in       *bufio.Reader
	out      io.Writer
	log      zerolog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global := flag.NewFlagSet("hosposctl", flag.ExitOnError)
	profile := global.String("profile", "default", "session profile")
	global.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	_ = global.Parse(os.Args[1:])
	if global.NArg() == 0 {
		global.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	log := logger.Init(logger.OptionsFor("hosposctl", cfg.Env, cfg.LogLevel))

	client := backend.New(backend.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout}, log)
	validate := validation.New()
	a := &app{
		client:   client,
		validate: validate,
		auth:     service.NewAuthService(client, validate, log),
		admin:    service.NewAdminService(client, validate),
		store:    service.NewSessionStore(storage.NewFileStorage(cfg.CLI.SessionFile), *profile, log),
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		log:      log,
	}
	a.cmds = resourceCommands(client.Resources(), validate, log)

	if err := a.run(ctx, global.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	sess := a.store.GetAuth(ctx)
	ctx = domain.NewContext(ctx, sess)

	switch args[0] {
	case "login":
		return a.login(ctx, args[1:])
	case "logout":
		if err := a.auth.Logout(ctx, a.store); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out.")
		return nil
	case "whoami":
		if !sess.Authenticated() {
			fmt.Fprintln(a.out, "Not logged in.")
			return nil
		}
		fmt.Fprintf(a.out, "%s (%s)\n", sess.Username, sess.Role)
		return nil
	case "list":
		return a.list(ctx, sess, args[1:])
	case "delete":
		return a.delete(ctx, sess, args[1:])
	case "discounts":
		if len(args) < 2 || args[1] != "watch" {
			return errors.New("usage: hosposctl discounts watch")
		}
		if err := require(sess, domain.RoleAdmin); err != nil {
			return err
		}
		return a.watchDiscounts(ctx)
	}
	return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	name := fs.String("name", "", "staff name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("-name is required")
	}

	fmt.Fprint(a.out, "PIN: ")
	pin, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	sess, err := a.auth.Login(ctx, a.store, strings.TrimSpace(*name), strings.TrimSpace(pin))
	if err != nil {
		return errors.New(domain.UserMessage(err, "Login failed"))
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s).\n", sess.Username, sess.Role)
	return nil
}

func (a *app) list(ctx context.Context, sess domain.Session, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: hosposctl list <resource> [-q text]")
	}
	cmd, err := a.resource(sess, args[0])
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	q := fs.String("q", "", "search text")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	return cmd.list(ctx, a.out, *q)
}

func (a *app) delete(ctx context.Context, sess domain.Session, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: hosposctl delete <resource> <id>")
	}
	cmd, err := a.resource(sess, args[0])
	if err != nil {
		return err
	}
	err = cmd.remove(ctx, promptConfirmer(a.in, a.out), args[1])
	if errors.Is(err, domain.ErrConfirmationDeclined) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *app) resource(sess domain.Session, name string) (resourceCmd, error) {
	cmd, ok := a.cmds[name]
	if !ok {
		return nil, fmt.Errorf("unknown resource %q (one of: %s)", name, resourceNames)
	}
	if err := require(sess, cmd.roles()...); err != nil {
		return nil, err
	}
	return cmd, nil
}

// require applies the console's route guard rules to a terminal command.
func require(sess domain.Session, roles ...string) error {
	if !sess.Authenticated() {
		return errors.New("not logged in; run hosposctl login -name <name>")
	}
	if !sess.HasRole(roles...) {
		return fmt.Errorf("role %q cannot do that", sess.Role)
	}
	return nil
}

// Command till pairs this device with a HOSPOS location using the 12-digit
// link code shown in the console, stores the till identity and initial data
// in MongoDB, and can keep reporting the till as online.
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

	"github.com/google/uuid"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/service"
	"github.com/hospos/hospos-client/internal/core/validation"
	"github.com/hospos/hospos-client/internal/infrastructure/backend"
	"github.com/hospos/hospos-client/internal/infrastructure/config"
	mongodb "github.com/hospos/hospos-client/internal/infrastructure/db/mongo"
	"github.com/hospos/hospos-client/internal/infrastructure/storage"
	"github.com/hospos/hospos-client/pkg/logger"
)

func main() {
	code := flag.String("code", "", "12-digit link code; prompted for when empty")
	name := flag.String("name", "", "device name (default: host name)")
	heartbeat := flag.Bool("heartbeat", false, "keep sending heartbeats after linking")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	log := logger.Init(logger.OptionsFor("till", cfg.Env, cfg.LogLevel))

	tills, err := mongodb.Open(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo")
	}
	defer func() { _ = tills.Close(context.Background()) }()
	repo := tills.Tills()

	api := backend.New(backend.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout}, log)
	device := deviceName(*name)

	// Already linked: nothing to pair, optionally go straight to heartbeats.
	snap, err := repo.Load(ctx)
	switch {
	case err == nil:
		fmt.Printf("Already linked! ID: %s (since %s)\n", snap.TillID, snap.LinkedAt.Format("02 Jan 2006 15:04"))
	case errors.Is(err, domain.ErrNotLinked):
		store := service.NewSessionStore(storage.NewFileStorage(cfg.CLI.SessionFile), "till", log)
		links := service.NewLinkService(api, validation.New(), cfg.Till.Platform, log,
			service.WithTillRepository(repo),
			service.WithSessionStore(store),
		)
		tillID, err := pair(ctx, links, bufio.NewReader(os.Stdin), os.Stdout, *code, device)
		if err != nil {
			log.Fatal().Err(err).Msg("link")
		}
		snap = &domain.TillSnapshot{TillID: tillID, DeviceInfo: domain.DeviceInfo{Platform: cfg.Till.Platform, DeviceName: device}}
	default:
		log.Fatal().Err(err).Msg("load till snapshot")
	}

	if !*heartbeat {
		return
	}
	log.Info().Str("till_id", snap.TillID).Dur("interval", cfg.Till.HeartbeatInterval).Msg("sending heartbeats")
	service.NewHeartbeatService(api, cfg.Till.HeartbeatInterval, log).
		Run(ctx, domain.Heartbeat{TillID: snap.TillID, DeviceInfo: snap.DeviceInfo})
}

// pair submits link codes until one succeeds. A code given on the command
// line is tried once; after an error the operator is asked for another.
func pair(ctx context.Context, links *service.LinkService, in *bufio.Reader, out io.Writer, code, device string) (string, error) {
	for {
		if code == "" {
			fmt.Fprint(out, "Link code: ")
			line, err := in.ReadString('\n')
			if err != nil && line == "" {
				return "", err
			}
			code = strings.TrimSpace(line)
		}

		fmt.Fprintln(out, domain.LinkStatus{State: domain.LinkLoading}.Display())
		st, err := links.Submit(ctx, code, device)
		fmt.Fprintln(out, st.Display())
		if st.State == domain.LinkSuccess {
			// The link stands even if storing it locally failed.
			if err != nil {
				fmt.Fprintln(out, "Warning:", err)
			}
			return st.TillID, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		code = ""
	}
}

func deviceName(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "till-" + uuid.NewString()[:8]
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/core/ports"
	"github.com/hospos/hospos-client/internal/core/service"
)

const clearScreen = "\033[H\033[2J"

// watchDiscounts redraws the discount board every second until interrupted.
// A discount reaching zero triggers a refetch.
func (a *app) watchDiscounts(ctx context.Context) error {
	res := a.client.Resources()
	screen := service.NewScreen[domain.Discount]("discounts", res.Discounts, a.validate, a.log)
	board := service.NewDiscountBoard(screen, a.admin, a.log)
	board.Watch(ctx, func(v service.DiscountView) {
		fmt.Fprint(a.out, clearScreen)
		renderBoard(a.out, v)
	})
	return nil
}

func renderBoard(w io.Writer, v service.DiscountView) {
	fmt.Fprintf(w, "Discounts at %s (Ctrl-C to stop)\n\n", v.Now.Format("15:04:05"))
	if v.Err != "" {
		fmt.Fprintln(w, v.Err)
		return
	}
	if v.Malformed {
		fmt.Fprintln(w, "The server sent data in an unexpected format; nothing to show.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTIVE\tPERCENT\tCODE\tTIME LEFT")
	for _, d := range v.Active {
		left := d.Countdown(v.Now)
		if left == "" {
			left = "no expiry"
		}
		fmt.Fprintf(tw, "%s\t%g%%\t%s\t%s\n", d.Name, d.Percent, d.Code, left)
	}
	_ = tw.Flush()

	if len(v.Expired) > 0 {
		names := make([]string, 0, len(v.Expired))
		for _, d := range v.Expired {
			names = append(names, d.Name)
		}
		fmt.Fprintf(w, "\nExpired: %s\n", strings.Join(names, ", "))
	}
}

// promptConfirmer asks on out and reads the answer from in. Only y or yes
// confirms.
func promptConfirmer(in *bufio.Reader, out io.Writer) ports.Confirmer {
	return ports.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	})
}

// Command trialctl — консольный клиент административного API пробных периодов.
//
// Использование:
//
//	trialctl [-addr URL] [-key KEY | -token TOKEN] <command> [flags]
//
// Команды: control, set-control, assign, start-trial, status, watch, session, hash-key.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/commacards/card-subscriptions/internal/adminclient"
	"github.com/commacards/card-subscriptions/internal/lib/password"
	"github.com/commacards/card-subscriptions/internal/lib/sl"
	"github.com/commacards/card-subscriptions/internal/lib/trial"
	"github.com/commacards/card-subscriptions/internal/models"
)

var errUsage = errors.New("usage")

const usage = `usage: trialctl [-addr URL] [-key KEY | -token TOKEN] <command> [flags]

commands:
  control                               show global trial control
  set-control -enabled=B -days=N        replace global trial control
  assign -profile ID -plan P -cycle C [-activated T] [-expires T]
  start-trial -profile ID -plan P       start a free trial
  status -profile ID                    show remaining trial days
  watch -profile ID [-every D]          live trial countdown until interrupted
  session                               exchange admin key for a session token
  hash-key KEY                          print bcrypt hash for config admin.key_hash
`

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("command failed", sl.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	global := flag.NewFlagSet("trialctl", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	addr := global.String("addr", envOr("TRIALCTL_ADDR", "http://localhost:8080"), "API base URL")
	key := global.String("key", os.Getenv("TRIALCTL_ADMIN_KEY"), "admin key")
	token := global.String("token", os.Getenv("TRIALCTL_TOKEN"), "admin session token")
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if global.NArg() == 0 {
		return errUsage
	}

	var opts []adminclient.Option
	if *key != "" {
		opts = append(opts, adminclient.WithAdminKey(*key))
	}
	if *token != "" {
		opts = append(opts, adminclient.WithToken(*token))
	}
	client := adminclient.New(*addr, opts...)

	cmd, rest := global.Arg(0), global.Args()[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	switch cmd {
	case "control":
		tc, err := client.GetTrialControl(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, tc)

	case "set-control":
		enabled := fs.Bool("enabled", false, "offer free trials")
		days := fs.Int("days", 0, "default trial length in days")
		if err := fs.Parse(rest); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		tc, err := client.SetTrialControl(ctx, models.TrialControl{Enabled: *enabled, DefaultTrialDays: *days})
		if err != nil {
			return err
		}
		return printJSON(out, tc)

	case "assign":
		profile := fs.String("profile", "", "profile id")
		plan := fs.String("plan", "", "plan id")
		cycle := fs.String("cycle", "", "monthly, quarterly or trial")
		activated := fs.String("activated", "", "activation time, RFC 3339 or 2006-01-02")
		expires := fs.String("expires", "", "trial expiry, RFC 3339")
		if err := fs.Parse(rest); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		if *profile == "" || *plan == "" || *cycle == "" {
			return errUsage
		}
		rec, err := client.PutSubscription(ctx, *profile, models.DummySubscription{
			Plan:        *plan,
			Cycle:       *cycle,
			ActivatedAt: *activated,
			ExpiresAt:   *expires,
		})
		if err != nil {
			return err
		}
		return printJSON(out, rec)

	case "start-trial":
		profile := fs.String("profile", "", "profile id")
		plan := fs.String("plan", "", "plan id")
		if err := fs.Parse(rest); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		if *profile == "" || *plan == "" {
			return errUsage
		}
		rec, err := client.StartTrial(ctx, *profile, *plan)
		if err != nil {
			return err
		}
		return printJSON(out, rec)

	case "status":
		profile := fs.String("profile", "", "profile id")
		if err := fs.Parse(rest); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		if *profile == "" {
			return errUsage
		}
		res, err := client.TrialRemaining(ctx, *profile)
		if err != nil {
			logger.Warn("trial status unavailable", slog.String("profile_id", *profile), sl.Err(err))
			_, werr := fmt.Fprintln(out, "trial: unknown")
			return werr
		}
		return printJSON(out, res)

	case "watch":
		profile := fs.String("profile", "", "profile id")
		every := fs.Duration("every", time.Minute, "refresh interval")
		if err := fs.Parse(rest); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		if *profile == "" || *every <= 0 {
			return errUsage
		}
		return watch(ctx, client, *profile, *every, out, logger)

	case "session":
		s, err := client.OpenSession(ctx, *key)
		if err != nil {
			return err
		}
		return printJSON(out, s)

	case "hash-key":
		if len(rest) != 1 || rest[0] == "" {
			return errUsage
		}
		hash, err := password.GetHash(rest[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, hash)
		return err

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// watch печатает обратный отсчёт по записи, прочитанной один раз, до отмены ctx.
func watch(ctx context.Context, client *adminclient.Client, profileID string, every time.Duration, out io.Writer, logger *slog.Logger) error {
	rec, err := client.GetSubscription(ctx, profileID)
	if err != nil {
		logger.Warn("subscription unavailable", slog.String("profile_id", profileID), sl.Err(err))
		_, werr := fmt.Fprintln(out, "trial: unknown")
		return werr
	}

	c, err := trial.StartCountdown(ctx, rec, every, nil, func(s models.TrialStatus) {
		if !s.IsActive {
			fmt.Fprintln(out, "trial: inactive")
			return
		}
		fmt.Fprintf(out, "trial: %d day(s) left\n", s.DaysLeft)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	defer c.Stop()

	<-c.Done()
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

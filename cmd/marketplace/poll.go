package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kindapp/marketplace/internal/core/domain"
	redisdb "github.com/kindapp/marketplace/internal/infrastructure/db/redis"
	"github.com/kindapp/marketplace/internal/poller"
	"github.com/kindapp/marketplace/pkg/client"
	"github.com/kindapp/marketplace/pkg/logger"
)

type pollOptions struct {
	baseURL   string
	role      string
	userID    string
	name      string
	token     string
	email     string
	password  string
	state     string
	redisAddr string
	interval  time.Duration
	markSeen  bool
}

var pollOpts pollOptions

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Watch unread badges for one account",
	Long: `poll signs in as one account and refreshes its dashboard badges on an interval,
printing a line whenever the unread count changes.

Identity comes from --role/--user/--token, or from --email/--password.
Last-seen markers are kept in a YAML state file, or in Redis with --redis.`,
	Example: `  marketplace poll --email admin@kind.app --password secret
  marketplace poll --role provider --user 665f... --token eyJ... --redis localhost:6379`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return poll(ctx, pollOpts)
	},
}

func init() {
	f := pollCmd.Flags()
	f.StringVar(&pollOpts.baseURL, "base-url", "http://localhost:8080", "marketplace API base URL")
	f.StringVar(&pollOpts.role, "role", "", "account role: admin, provider or client")
	f.StringVar(&pollOpts.userID, "user", "", "account id")
	f.StringVar(&pollOpts.name, "name", "", "display name")
	f.StringVar(&pollOpts.token, "token", "", "bearer token")
	f.StringVar(&pollOpts.email, "email", "", "sign in with this email instead of --token")
	f.StringVar(&pollOpts.password, "password", "", "password for --email")
	f.StringVar(&pollOpts.state, "state", defaultStatePath(), "client-local state file")
	f.StringVar(&pollOpts.redisAddr, "redis", "", "keep last-seen markers in Redis at this address")
	f.DurationVar(&pollOpts.interval, "interval", poller.DefaultInterval, "refresh interval")
	f.BoolVar(&pollOpts.markSeen, "mark-seen", false, "mark every badge seen after the first refresh")
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "kind-state.yaml"
	}
	return filepath.Join(dir, "kind", "state.yaml")
}

func poll(ctx context.Context, opts pollOptions) error {
	logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Pretty: true, Output: os.Stderr, Service: "poller"})
	log := logger.Component("session")
	api := client.New(opts.baseURL)

	identity, token, err := resolveIdentity(ctx, api, opts)
	if err != nil {
		return err
	}

	store, err := openSeenStore(ctx, opts, identity.UserID)
	if err != nil {
		return err
	}

	session, err := poller.Open(ctx, poller.SessionConfig{
		Identity: identity,
		Token:    token,
		Client:   api,
		Store:    store,
		Interval: opts.interval,
		Logger:   log,
		OnChange: func(b poller.Badge) { printBadge(b) },
	})
	if err != nil {
		if c, ok := store.(io.Closer); ok {
			_ = c.Close()
		}
		return err
	}
	log.Info().Str("user_id", identity.UserID).Str("role", string(identity.Role)).Dur("interval", opts.interval).Msg("polling")

	if opts.markSeen {
		markAllSeen(ctx, session, log)
	}

	<-ctx.Done()
	return session.Close()
}

func resolveIdentity(ctx context.Context, api *client.Client, opts pollOptions) (poller.Identity, string, error) {
	if opts.email != "" {
		res, err := api.Login(ctx, opts.email, opts.password)
		if err != nil {
			return poller.Identity{}, "", fmt.Errorf("login: %w", err)
		}
		return poller.Identity{UserID: res.User.ID, Name: res.User.Name, Role: domain.Role(res.User.Role)}, res.Token, nil
	}

	role, ok := domain.ParseRole(opts.role)
	if !ok {
		return poller.Identity{}, "", fmt.Errorf("--role must be admin, provider or client, got %q", opts.role)
	}
	if opts.userID == "" {
		return poller.Identity{}, "", errors.New("--user is required without --email")
	}
	return poller.Identity{UserID: opts.userID, Name: opts.name, Role: role}, opts.token, nil
}

func openSeenStore(ctx context.Context, opts pollOptions, userID string) (poller.SeenStore, error) {
	if opts.redisAddr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: opts.redisAddr})
		if err != nil {
			return nil, err
		}
		return redisdb.NewSeenStore(rdb, userID), nil
	}
	return poller.OpenFileStore(opts.state, userID)
}

// markAllSeen waits for the first refresh of each badge before marking it.
func markAllSeen(ctx context.Context, s *poller.Session, log zerolog.Logger) {
	for _, b := range s.Badges() {
		if err := b.Refresh(ctx); err != nil {
			continue
		}
		if err := b.MarkSeen(ctx); err != nil {
			log.Warn().Err(err).Str("badge", b.Name()).Msg("mark seen")
			continue
		}
		printBadge(b)
	}
}

func printBadge(b poller.Badge) {
	mark := " "
	if b.HasUnread() {
		mark = "*"
	}
	fmt.Printf("%s %-18s unread=%d  %s\n", mark, b.Name(), b.Unread(), time.Now().Format(time.TimeOnly))
}

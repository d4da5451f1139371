// Package cli is the blogstore command line: it runs the HTTP server and
// maintains the badger database behind it.
package cli

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"blogstore/app/auth"
	"blogstore/app/config"
	"blogstore/app/repositories"
	"blogstore/app/routes"
	"blogstore/pkg/logger"

	"github.com/spf13/cobra"
)

// Version is reported by the version command.
var Version = "1.0.0"

const shutdownGrace = 10 * time.Second

type options struct {
	envFiles []string
	dataDir  string
	addr     string
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "blogstore",
		Short:         "Blog backend with posts, comments, users and media uploads",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "env files to load (default .env)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "badger directory (overrides BLOG_DATA_DIR)")

	root.AddCommand(
		serveCommand(opts),
		initCommand(opts),
		cleanCommand(opts),
		backupCommand(opts),
		restoreCommand(opts),
		statusCommand(opts),
		versionCommand(),
	)
	return root
}

// load reads the configuration and applies flag overrides.
func (o *options) load() (*config.Config, error) {
	cfg, err := config.Load(o.envFiles...)
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.addr != "" {
		cfg.Addr = o.addr
	}
	return cfg, nil
}

func serveCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger.Configure(os.Stdout, cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler, cleanup, err := buildServer(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return routes.StartServer(ctx, cfg.Addr, handler, shutdownGrace)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides BLOG_ADDR)")
	return cmd
}

// buildServer opens the store and wires the router. cleanup closes the
// store.
func buildServer(ctx context.Context, cfg *config.Config) (http.Handler, func(), error) {
	secret := cfg.JWTSecret
	if secret == "" {
		var err error
		secret, err = ephemeralSecret()
		if err != nil {
			return nil, nil, err
		}
		logger.Warn("JWT_SECRET is not set, using a random secret; tokens will not survive a restart")
	}
	tokens, err := auth.NewTokens(secret, cfg.JWTTTL)
	if err != nil {
		return nil, nil, err
	}

	m, err := routes.NewMedia(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("set up media: %w", err)
	}
	if !cfg.CloudEnabled() {
		logger.Warn("S3_BUCKET is not set, cloud uploads are disabled")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := repositories.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("store opened", "path", cfg.DataDir, "media_backend", cfg.MediaBackend)

	router := routes.SetupRoutes(routes.Deps{
		Store:          store,
		Tokens:         tokens,
		Media:          m,
		PublicDir:      cfg.PublicDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		DefaultAvatar:  cfg.DefaultAvatar,
	})
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}
	return router, cleanup, nil
}

func ephemeralSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func initCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := printer{cmd.OutOrStdout()}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if exists(cfg.DataDir) {
				out.warning("Database already exists at %s. Use 'clean' first if you want to reinitialize.", cfg.DataDir)
				return nil
			}
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return fmt.Errorf("create database directory: %w", err)
			}
			store, err := repositories.Open(cfg.DataDir)
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return err
			}
			out.success("Database initialized at %s", cfg.DataDir)
			return nil
		},
	}
}

func cleanCommand(opts *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := printer{cmd.OutOrStdout()}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if !exists(cfg.DataDir) {
				out.info("Database is already clean (does not exist)")
				return nil
			}
			if !force && !confirm(cmd, "Are you sure you want to clean the database? This cannot be undone.") {
				out.muted("Operation cancelled")
				return nil
			}
			if err := os.RemoveAll(cfg.DataDir); err != nil {
				return fmt.Errorf("clean database: %w", err)
			}
			out.success("Database cleaned")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")
	return cmd
}

func backupCommand(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a backup of the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := printer{cmd.OutOrStdout()}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if !exists(cfg.DataDir) {
				out.warning("No database exists to backup")
				return nil
			}
			if output == "" {
				output = filepath.Join(filepath.Dir(cfg.DataDir), "backups", fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("create backup directory: %w", err)
			}

			store, err := repositories.Open(cfg.DataDir)
			if err != nil {
				return err
			}
			defer store.Close()

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			defer f.Close()

			if err := store.Backup(f); err != nil {
				return fmt.Errorf("backup database: %w", err)
			}
			out.success("Database backed up to %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "backup file (default <data-dir>/../backups/backup_<unix>.db)")
	return cmd
}

func restoreCommand(opts *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Replace the database with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := printer{cmd.OutOrStdout()}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if errors.Is(err, os.ErrNotExist) {
				out.fail("Backup file does not exist: %s", args[0])
				return err
			}
			if err != nil {
				return err
			}
			defer f.Close()

			if exists(cfg.DataDir) {
				if !force && !confirm(cmd, "Existing database found. Do you want to replace it?") {
					out.muted("Operation cancelled")
					return nil
				}
				if err := os.RemoveAll(cfg.DataDir); err != nil {
					return fmt.Errorf("remove existing database: %w", err)
				}
			}
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return fmt.Errorf("create database directory: %w", err)
			}

			store, err := repositories.Open(cfg.DataDir)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Restore(f); err != nil {
				return fmt.Errorf("restore database: %w", err)
			}
			out.success("Database restored from %s", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing database without asking")
	return cmd
}

func statusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and database counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := printer{cmd.OutOrStdout()}
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			out.section("blogstore " + Version)
			out.field("address", cfg.Addr)
			out.field("data dir", cfg.DataDir)
			out.field("public dir", cfg.PublicDir)
			out.field("media", cfg.MediaBackend)
			out.field("cloud", cloudStatus(cfg))

			if !exists(cfg.DataDir) {
				out.warning("Database does not exist yet. Run 'init' or 'serve'.")
				return nil
			}
			store, err := repositories.Open(cfg.DataDir)
			if err != nil {
				return err
			}
			defer store.Close()

			posts, err := store.Posts.Count()
			if err != nil {
				return err
			}
			users, err := store.Users.List()
			if err != nil {
				return err
			}
			out.field("posts", posts)
			out.field("users", len(users))
			return nil
		},
	}
}

func cloudStatus(cfg *config.Config) string {
	if !cfg.CloudEnabled() {
		return "disabled"
	}
	return "s3://" + cfg.S3Bucket
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blogstore version %s\n", Version)
		},
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netedit/internal/server"
	"github.com/matzehuels/netedit/pkg/cache"
)

// Cache backends of the serve command.
const (
	cacheFile  = "file"
	cacheRedis = "redis"
	cacheNone  = "none"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	config    string
	cache     string
	redisAddr string
	ttl       time.Duration
}

// serveCommand creates the serve command exposing script replay over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      ":8080",
		cache:     cacheFile,
		redisAddr: "localhost:6379",
		ttl:       24 * time.Hour,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve script replay over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "configuration file")
	cmd.Flags().StringVar(&opts.cache, "cache", opts.cache, "report cache: file, redis or none")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", opts.redisAddr, "redis address for --cache redis")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", opts.ttl, "lifetime of cached reports")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	cfg, err := c.loadConfig(opts.config)
	if err != nil {
		return err
	}
	store, err := openCache(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := server.New(server.Options{
		Config: cfg,
		Cache:  store,
		TTL:    opts.ttl,
		Logger: c.Logger,
	})
	if err != nil {
		return err
	}

	hs := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	c.Logger.Info("listening", "addr", opts.addr, "cache", opts.cache)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	c.Logger.Info("stopped")
	return nil
}

func openCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	switch opts.cache {
	case cacheFile:
		dir, err := cacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		return cache.NewFileCache(dir)
	case cacheRedis:
		return cache.NewRedisCache(ctx, opts.redisAddr, appName+":")
	case cacheNone:
		return cache.NewNullCache(), nil
	}
	return nil, fmt.Errorf("unknown cache %q (want %s, %s or %s)", opts.cache, cacheFile, cacheRedis, cacheNone)
}

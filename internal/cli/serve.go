package cli

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railmap/pkg/api"
	"github.com/matzehuels/railmap/pkg/cache"
	"github.com/matzehuels/railmap/pkg/observability"
)

// serveOpts holds the serve command flags. Empty values fall back to the
// environment after .env files are loaded.
type serveOpts struct {
	addr    string
	cache   string
	origins string
	maxBody int64
	timeout time.Duration
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Long: `Serve POST /api/render and POST /api/lines over HTTP.

Settings are read from flags, then from the environment, which may be
populated from .env and .env.local in the working directory:

  PORT                      listen port when --addr is not given
  RAILMAP_CACHE             cache backend (file, none, redis://..., mongodb://...)
  RAILMAP_ALLOWED_ORIGINS   comma-separated CORS origins`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadEnv(); err != nil {
				return err
			}
			opts.resolve()
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default :$PORT or :8080)")
	cmd.Flags().StringVar(&opts.cache, "cache", "", "cache backend (default $RAILMAP_CACHE or file)")
	cmd.Flags().StringVar(&opts.origins, "origins", "", "comma-separated CORS origins (default $RAILMAP_ALLOWED_ORIGINS or *)")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", api.DefaultMaxBodyBytes, "maximum request body in bytes")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", api.DefaultRenderTimeout, "per-request render timeout")

	return cmd
}

// loadEnv reads .env, then lets .env.local override it. Missing files are
// ignored.
func (c *CLI) loadEnv() error {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := godotenv.Overload(".env.local"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (o *serveOpts) resolve() {
	if o.addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		o.addr = ":" + port
	}
	if o.cache == "" {
		o.cache = os.Getenv("RAILMAP_CACHE")
	}
	if o.origins == "" {
		o.origins = os.Getenv("RAILMAP_ALLOWED_ORIGINS")
	}
}

func (o serveOpts) allowedOrigins() []string {
	var out []string
	for _, origin := range strings.Split(o.origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()

	stats := observability.NewStats()
	observability.SetPipelineHooks(stats)
	observability.SetCacheHooks(stats)
	observability.SetHTTPHooks(stats)
	defer observability.Reset()

	runner, err := c.newRunner(ctx, opts.cache, cache.NewScopedKeyer(nil, "api:"))
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := api.New(runner, c.Logger, api.Config{
		AllowedOrigins: opts.allowedOrigins(),
		MaxBodyBytes:   opts.maxBody,
		RenderTimeout:  opts.timeout,
		Stats:          stats,
		Cache:          cache.Describe(opts.cache),
	})

	printInfo("Serving railmap API on %s", StyleHighlight.Render(opts.addr))
	printKeyValue("cache", cache.Describe(opts.cache))
	host := opts.addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	printNextStep("Try", "curl -H 'Content-Type: application/toml' --data-binary @metro.toml http://"+host+"/api/render")

	return srv.ListenAndServe(ctx, opts.addr)
}

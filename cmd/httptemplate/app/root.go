// Package app implements the httptemplate command-line interface.
//
// Every subcommand issues exactly one request through a template.Template
// built from the resolved configuration, so the CLI doubles as a manual test
// bench for the library.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halolabs/httptemplate"
	"github.com/halolabs/httptemplate/internal/config"
	"github.com/halolabs/httptemplate/template"
)

const (
	cliName        = "httptemplate"
	cliDescription = "httptemplate - one-shot HTTP GET, POST and file downloads"
)

// GlobalOptions holds options that are common to all commands.
type GlobalOptions struct {
	// ConfigFile is an optional YAML file layered under env vars and flags.
	ConfigFile string

	cfg    *config.Config
	logger *slog.Logger
}

// NewCommand creates the root command with all subcommands registered.
//
// Settings resolve in increasing precedence: built-in defaults, .env,
// the --config file, HTTPTEMPLATE_* environment variables, flags.
func NewCommand() *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:   cliName,
		Short: cliDescription,
		Long: `httptemplate issues a single HTTP request per invocation.

Query parameters given with -q are percent-encoded and appended to the URL.
Non-2xx responses are reported as errors together with the status code and
the start of the response body.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ConfigFile, "config", "", "path to a YAML config file")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "text", "log format: text or json")
	pf.Duration("timeout", 0, "per-request timeout, 0 disables it")
	pf.String("user-agent", "", "User-Agent header for outgoing requests")
	pf.Int("throttle-rps", 0, "requests per second, 0 disables throttling")
	pf.Int("throttle-burst", 0, "throttle burst size, required with --throttle-rps")
	pf.Bool("progress", false, "log download progress")

	cmd.AddCommand(
		NewGetCommand(opts),
		NewPostCommand(opts),
		NewJSONCommand(opts),
		NewDownloadCommand(opts),
		NewVersionCommand(opts),
	)

	return cmd
}

func (o *GlobalOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigFile, cmd.Flags())
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = newLogger(cmd.ErrOrStderr(), cfg)
	return nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// template builds a Template reflecting the resolved configuration.
func (o *GlobalOptions) template() (*template.Template, error) {
	tmplOpts := []template.Option{template.WithLogger(o.logger)}

	if o.cfg.Timeout > 0 {
		tmplOpts = append(tmplOpts, template.WithTimeout(o.cfg.Timeout))
	}
	if o.cfg.UserAgent != "" {
		tmplOpts = append(tmplOpts, template.WithUserAgent(o.cfg.UserAgent))
	}
	if o.cfg.ThrottleRPS > 0 {
		tmplOpts = append(tmplOpts, template.WithThrottle(o.cfg.ThrottleRPS, o.cfg.ThrottleBurst))
	}
	if o.cfg.Progress {
		tmplOpts = append(tmplOpts, template.WithProgress())
	}

	t, err := httptemplate.New(tmplOpts...)
	if err != nil {
		return nil, fmt.Errorf("building template: %w", err)
	}

	return t, nil
}

// parseParams turns repeated key=value flags into query parameters.
// Only the first '=' separates key from value.
func parseParams(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid query parameter %q, expected key=value", pair)
		}
		params[k] = v
	}

	return params, nil
}

func addQueryFlag(cmd *cobra.Command, dst *[]string) {
	cmd.Flags().StringArrayVarP(dst, "query", "q", nil, "query parameter as key=value, repeatable")
}

package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// GetOptions holds options for the get command.
type GetOptions struct {
	*GlobalOptions

	URL   string
	Query []string
}

// NewGetCommand creates the get command, which prints the response body.
func NewGetCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &GetOptions{GlobalOptions: globalOpts}

	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Send a GET request and print the body",
		Example: `  httptemplate get https://example.com/search -q q="hello world" -q page=2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.URL = args[0]
			return runGet(cmd, opts)
		},
	}

	addQueryFlag(cmd, &opts.Query)

	return cmd
}

func runGet(cmd *cobra.Command, opts *GetOptions) error {
	params, err := parseParams(opts.Query)
	if err != nil {
		return err
	}

	t, err := opts.template()
	if err != nil {
		return err
	}

	body, ok, err := t.Get(cmd.Context(), opts.URL, params)
	if err != nil {
		return err
	}

	printBody(cmd, body, ok)
	return nil
}

// printBody writes a text response, noting an absent entity on stderr.
func printBody(cmd *cobra.Command, body string, ok bool) {
	if !ok {
		fmt.Fprintln(cmd.ErrOrStderr(), "response has no content")
		return
	}
	fmt.Fprint(cmd.OutOrStdout(), body)
}

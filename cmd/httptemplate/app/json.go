package app

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/halolabs/httptemplate/codec"
	"github.com/halolabs/httptemplate/template"
)

// JSONOptions holds options for the json command.
type JSONOptions struct {
	*GlobalOptions

	URL   string
	Query []string
	Data  string
}

// NewJSONCommand creates the json command. The payload is decoded locally
// first, so malformed input fails before any request is sent.
func NewJSONCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &JSONOptions{GlobalOptions: globalOpts}

	cmd := &cobra.Command{
		Use:     "json URL",
		Short:   "POST a JSON document and pretty-print the JSON response",
		Example: `  httptemplate json https://example.com/api/items -d '{"name":"widget","qty":3}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.URL = args[0]
			return runJSON(cmd, opts)
		},
	}

	addQueryFlag(cmd, &opts.Query)
	cmd.Flags().StringVarP(&opts.Data, "data", "d", "null", "JSON request document")

	return cmd
}

func runJSON(cmd *cobra.Command, opts *JSONOptions) error {
	params, err := parseParams(opts.Query)
	if err != nil {
		return err
	}

	jc := codec.JSON[any]()

	payload, err := jc.Unmarshal(opts.Data)
	if err != nil {
		return fmt.Errorf("parsing --data: %w", err)
	}

	t, err := opts.template()
	if err != nil {
		return err
	}

	resp, err := template.JSONPost(cmd.Context(), t, opts.URL, params, jc, payload, jc)
	if err != nil {
		return err
	}

	out, err := sonic.ConfigStd.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

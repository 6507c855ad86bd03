package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// PostOptions holds options for the post command.
type PostOptions struct {
	*GlobalOptions

	URL         string
	Query       []string
	Data        string
	DataFile    string
	ContentType string
}

// NewPostCommand creates the post command.
//
// The request entity comes from --data or --data-file. Without
// --content-type the transport default (text/plain) applies.
func NewPostCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &PostOptions{GlobalOptions: globalOpts}

	cmd := &cobra.Command{
		Use:   "post URL",
		Short: "Send a POST request with a text body and print the response",
		Example: `  httptemplate post https://example.com/notes -d "buy milk"
  httptemplate post https://example.com/upload --data-file report.csv --content-type text/csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.URL = args[0]
			return runPost(cmd, opts)
		},
	}

	addQueryFlag(cmd, &opts.Query)
	addBodyFlags(cmd, &opts.Data, &opts.DataFile, &opts.ContentType)

	return cmd
}

func runPost(cmd *cobra.Command, opts *PostOptions) error {
	params, err := parseParams(opts.Query)
	if err != nil {
		return err
	}

	data, err := requestBody(opts.Data, opts.DataFile)
	if err != nil {
		return err
	}

	t, err := opts.template()
	if err != nil {
		return err
	}

	body, ok, err := t.Post(cmd.Context(), opts.URL, params, data, opts.ContentType)
	if err != nil {
		return err
	}

	printBody(cmd, body, ok)
	return nil
}

func addBodyFlags(cmd *cobra.Command, data, dataFile, contentType *string) {
	cmd.Flags().StringVarP(data, "data", "d", "", "request body")
	cmd.Flags().StringVar(dataFile, "data-file", "", "read the request body from a file")
	cmd.Flags().StringVar(contentType, "content-type", "", "Content-Type of the request body")
	cmd.MarkFlagsMutuallyExclusive("data", "data-file")
}

func requestBody(data, dataFile string) (string, error) {
	if dataFile == "" {
		return data, nil
	}

	b, err := os.ReadFile(dataFile)
	if err != nil {
		return "", fmt.Errorf("reading request body: %w", err)
	}

	return string(b), nil
}

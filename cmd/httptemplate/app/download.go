package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DownloadOptions holds options for the download command.
type DownloadOptions struct {
	*GlobalOptions

	URL         string
	Query       []string
	Post        bool
	Data        string
	DataFile    string
	ContentType string

	// Output renames the downloaded file. Empty keeps the generated name.
	Output string

	// SHA256 is the expected hex digest. Empty skips verification.
	SHA256 string
}

// downloadSummary is printed as YAML once the file is on disk.
type downloadSummary struct {
	Path   string `yaml:"path"`
	Bytes  int64  `yaml:"bytes"`
	MIME   string `yaml:"mime"`
	SHA256 string `yaml:"sha256"`
}

// NewDownloadCommand creates the download command.
//
// The response body is saved under a generated <uuid>.dld name in the
// working directory, then optionally moved to --output.
func NewDownloadCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &DownloadOptions{GlobalOptions: globalOpts}

	cmd := &cobra.Command{
		Use:   "download URL",
		Short: "Download a response body to a file",
		Example: `  httptemplate download https://example.com/report -q year=2024 -o report.pdf
  httptemplate download https://example.com/export --post -d '{"all":true}' --content-type application/json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.URL = args[0]
			return runDownload(cmd, opts)
		},
	}

	addQueryFlag(cmd, &opts.Query)
	cmd.Flags().BoolVar(&opts.Post, "post", false, "use POST instead of GET")
	addBodyFlags(cmd, &opts.Data, &opts.DataFile, &opts.ContentType)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "move the downloaded file to this path")
	cmd.Flags().StringVar(&opts.SHA256, "sha256", "", "expected SHA-256 hex digest of the body")

	return cmd
}

func runDownload(cmd *cobra.Command, opts *DownloadOptions) error {
	params, err := parseParams(opts.Query)
	if err != nil {
		return err
	}

	if !opts.Post && (opts.Data != "" || opts.DataFile != "" || opts.ContentType != "") {
		return errors.New("--data, --data-file and --content-type require --post")
	}

	data, err := requestBody(opts.Data, opts.DataFile)
	if err != nil {
		return err
	}

	t, err := opts.template()
	if err != nil {
		return err
	}

	var path string
	if opts.Post {
		path, err = t.DownloadUsePost(cmd.Context(), opts.URL, params, data, opts.ContentType)
	} else {
		path, err = t.Download(cmd.Context(), opts.URL, params)
	}
	if err != nil {
		return err
	}

	digest, err := fileSHA256(path)
	if err != nil {
		return err
	}

	// A mismatching file stays under its generated name for inspection.
	if err := verifySHA256(path, digest, opts.SHA256); err != nil {
		return err
	}

	if opts.Output != "" {
		if err := os.Rename(path, opts.Output); err != nil {
			return fmt.Errorf("moving %s to %s: %w", path, opts.Output, err)
		}
		path = opts.Output
	}

	summary, err := summarize(path, digest)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	return enc.Close()
}

func summarize(path, digest string) (downloadSummary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return downloadSummary{}, fmt.Errorf("stat %s: %w", path, err)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return downloadSummary{}, fmt.Errorf("detecting type of %s: %w", path, err)
	}

	return downloadSummary{
		Path:   path,
		Bytes:  info.Size(),
		MIME:   mt.String(),
		SHA256: digest,
	}, nil
}

package template

import (
	"github.com/google/uuid"
)

const (
	// maxErrBodySize caps the amount of response body read when
	// building an error for an unexpected status code.
	maxErrBodySize = 4 << 10 // 4KB

	// chunkSize is the copy buffer used when streaming a download to disk.
	chunkSize = 1024

	// downloadSuffix marks files produced by Download and DownloadUsePost.
	downloadSuffix = ".dld"

	jsonContentType = "application/json"

	tracerName = "github.com/halolabs/httptemplate/template"
)

// text is the outcome of a text call; ok is false when the
// response had no entity.
type text struct {
	body string
	ok   bool
}

// downloadName returns a fresh "<uuid>.dld" file name.
func downloadName() string {
	return uuid.NewString() + downloadSuffix
}

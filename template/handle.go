package template

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// The handlers below interpret a response from its status code and
// entity alone. A nil body means the response carried no entity.

// checkStatus accepts 2xx and turns anything else into a KindStatus error,
// capturing up to maxErrBodySize of the entity.
func checkStatus(status int, body io.Reader) error {
	if status >= 200 && status < 300 {
		return nil
	}

	e := &Error{Kind: KindStatus, StatusCode: status}
	if body != nil {
		b, err := io.ReadAll(io.LimitReader(body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}
		e.Body = string(b)
	}

	return e
}

// readText returns the entity as UTF-8 text. A missing entity is not an error.
func readText(status int, body io.Reader) (text, error) {
	if err := checkStatus(status, body); err != nil {
		return text{}, err
	}

	if body == nil {
		return text{}, nil
	}

	b, err := io.ReadAll(body)
	if err != nil {
		return text{}, &Error{Kind: KindTransport, Err: fmt.Errorf("reading response body: %w", err)}
	}

	return text{body: strings.ToValidUTF8(string(b), "\uFFFD"), ok: true}, nil
}

// saveToFile streams the entity into a new file at path and returns path.
// wrap, when non-nil, decorates the file writer. A partially written file
// is left in place on failure.
func saveToFile(status int, body io.Reader, path string, wrap func(io.Writer) io.Writer) (string, error) {
	if err := checkStatus(status, body); err != nil {
		return "", err
	}

	if body == nil {
		return "", &Error{Kind: KindNoContent}
	}

	if err := writeFile(path, body, wrap); err != nil {
		return "", err
	}

	return path, nil
}

// finisher is implemented by writer decorators that report completion.
type finisher interface {
	finish()
}

func writeFile(path string, r io.Reader, wrap func(io.Writer) io.Writer) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &Error{Kind: KindFile, Err: fmt.Errorf("creating download file: %w", err)}
	}

	defer func() {
		if serr := f.Sync(); serr != nil && err == nil {
			err = &Error{Kind: KindFile, Err: fmt.Errorf("flushing download file: %w", serr)}
		}
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &Error{Kind: KindFile, Err: fmt.Errorf("closing download file: %w", cerr)}
		}
	}()

	var w io.Writer = f
	if wrap != nil {
		w = wrap(w)
	}

	buf := make([]byte, chunkSize)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return &Error{Kind: KindFile, Err: fmt.Errorf("writing download file: %w", werr)}
			}
		}

		if errors.Is(rerr, io.EOF) {
			if f, ok := w.(finisher); ok {
				f.finish()
			}
			return nil
		}
		if rerr != nil {
			return &Error{Kind: KindTransport, Err: fmt.Errorf("reading response body: %w", rerr)}
		}
	}
}

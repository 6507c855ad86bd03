package app

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrChecksumMismatch is returned when a downloaded file does not match --sha256.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ChecksumError describes a failed checksum comparison.
type ChecksumError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%v: %s: expected %s, got %s", ErrChecksumMismatch, e.Path, e.Expected, e.Actual)
}

func (e *ChecksumError) Unwrap() error {
	return ErrChecksumMismatch
}

// fileSHA256 returns the hex-encoded SHA-256 digest of the file at path.
func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// verifySHA256 compares the digest against expected, ignoring case.
func verifySHA256(path, actual, expected string) error {
	if expected == "" || strings.EqualFold(actual, expected) {
		return nil
	}

	return &ChecksumError{Path: path, Expected: strings.ToLower(expected), Actual: actual}
}

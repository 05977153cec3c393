package sharefile

import (
	"errors"
	"fmt"
)

// Standard error kinds surfaced by the adapter. Verb failures wrap one of
// these together with the offending path(s) and the remote cause, so both
// remain visible through errors.Is and the message.
var (
	ErrNotFound      = errors.New("sharefile: item not found")
	ErrDenied        = errors.New("sharefile: access denied")
	ErrNotSupported  = errors.New("sharefile: operation not supported")
	ErrConfirmFailed = errors.New("sharefile: operation not confirmed by remote")
)

func readFailed(path string, err error) error {
	return fmt.Errorf("sharefile: unable to read '%s': %w", path, err)
}

func writeFailed(path string, err error) error {
	return fmt.Errorf("sharefile: unable to write '%s': %w", path, err)
}

func deleteFailed(path string, err error) error {
	return fmt.Errorf("sharefile: unable to delete '%s': %w", path, err)
}

func copyFailed(src, dst string, err error) error {
	return fmt.Errorf("sharefile: unable to copy '%s' to '%s': %w", src, dst, err)
}

func moveFailed(src, dst string, err error) error {
	return fmt.Errorf("sharefile: unable to move '%s' to '%s': %w", src, dst, err)
}

func unsupported(op, path string) error {
	return fmt.Errorf("sharefile: unable to get metadata for '%s': %w: %s", path, ErrNotSupported, op)
}

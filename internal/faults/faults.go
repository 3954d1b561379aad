package faults

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers used to classify failures. Wrap tags an error with one of
// these so callers can decide between aborting the run and absorbing the
// failure locally.
var (
	// ErrSetup marks failures that make the run impossible: unreadable
	// source, unpreparable destination, lock contention. Always fatal.
	ErrSetup = errors.New("setup failure")

	// ErrIntegrity marks duplicate-link conflicts that need manual
	// intervention. Fatal for the current file.
	ErrIntegrity = errors.New("integrity conflict")

	// ErrRead marks an unreadable block range. Absorbed at the point of
	// detection via a skip write plus a ledger record; never propagated.
	ErrRead = errors.New("unreadable range")

	// ErrLedger marks a ledger line that could not be parsed or resolved.
	// Reported and dropped during loading; never fatal.
	ErrLedger = errors.New("ledger entry unusable")
)

// Wrap builds an error that carries component context while tagging it with
// the provided marker. The marker should be one of the sentinels above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrSetup
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether the error should halt processing. Only setup
// failures and integrity conflicts qualify.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSetup) || errors.Is(err, ErrIntegrity)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}

package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinels usable with errors.Is across the error taxonomy.
var (
	ErrConfigNotFound     = errors.New("config not found")
	ErrParse              = errors.New("parse error")
	ErrPrecondition       = errors.New("precondition failed")
	ErrFetch              = errors.New("fetch failed")
	ErrRateLimited        = errors.New("rate limited")
	ErrDependencyNotFound = errors.New("dependency not found")
	ErrShellCommand       = errors.New("shell command failed")
)

// ConfigNotFoundError is returned when the project manifest is missing.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("no project manifest found at %q", e.Path)
}

func (e *ConfigNotFoundError) Unwrap() error { return ErrConfigNotFound }

// ParseError reports a malformed requirement string, version, or document.
type ParseError struct {
	Source string // file path or the kind of value being parsed
	Input  string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: cannot parse %q", e.Source, e.Input)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error { return joinCauses(ErrParse, e.Err) }

// PreconditionError is returned when fetched metadata is read before Fetch completed.
type PreconditionError struct {
	Dependency string
	Operation  string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: call Fetch before %s", e.Dependency, e.Operation)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// FetchError is a per-dependency network or HTTP failure.
type FetchError struct {
	Dependency string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	var sb strings.Builder
	sb.WriteString("failed to fetch ")
	sb.WriteString(e.Dependency)
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, " (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *FetchError) Unwrap() []error { return joinCauses(ErrFetch, e.Err) }

// RateLimitError is a FetchError raised for 401/403/404/429 responses of the
// releases API. Reset is zero when the response carried no reset header.
type RateLimitError struct {
	Dependency string
	StatusCode int
	Reason     string
	Exceeded   bool
	Reset      time.Time
}

func (e *RateLimitError) Error() string {
	var sb strings.Builder
	if e.Exceeded {
		fmt.Fprintf(&sb, "GitHub API rate limit exceeded for %s (%d %s)", e.Dependency, e.StatusCode, e.Reason)
	} else {
		fmt.Fprintf(&sb, "GitHub API denied access to %s (%d %s)", e.Dependency, e.StatusCode, e.Reason)
	}
	if !e.Reset.IsZero() {
		sb.WriteString("; rate limit resets at ")
		sb.WriteString(FormatResetTime(e.Reset))
	}
	return sb.String()
}

func (e *RateLimitError) Unwrap() []error { return []error{ErrRateLimited, ErrFetch} }

// FormatResetTime renders a rate-limit reset instant for humans.
func FormatResetTime(t time.Time) string {
	return t.UTC().Format(time.RFC1123)
}

// LookupError is returned when a dependency or a file entry cannot be found.
type LookupError struct {
	Name  string
	Scope string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("cannot find %s in %s", e.Name, e.Scope)
}

func (e *LookupError) Unwrap() error { return ErrDependencyNotFound }

// NotFoundError is the LookupError raised by file mutators.
type NotFoundError = LookupError

// ShellCommandError is returned when an external command exits non-zero.
type ShellCommandError struct {
	Command string
	Args    []string
	Stderr  string
	Err     error
}

func (e *ShellCommandError) Error() string {
	cmdline := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	msg := fmt.Sprintf("command %q failed", cmdline)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

func (e *ShellCommandError) Unwrap() []error { return joinCauses(ErrShellCommand, e.Err) }

func joinCauses(sentinel, cause error) []error {
	if cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, cause}
}

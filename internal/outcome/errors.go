package outcome

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"unicode"
)

// CauseName groups a transport error into a short, human-friendly bucket name.
func CauseName(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrInvocationPanic):
		return "Invocation panic"
	case errors.Is(err, ErrNotAdmitted):
		return "Run interrupted"
	case errors.Is(err, context.DeadlineExceeded):
		return "Timeout"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "Connection refused"
	case errors.Is(err, syscall.ECONNRESET):
		return "Connection reset"
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return "Connection closed"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "DNS lookup failed"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Timeout"
	}

	return typeLabel(fmt.Sprintf("%T", innermost(err)))
}

func innermost(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// typeLabels covers error types whose split type name reads badly in a report.
var typeLabels = map[string]string{
	"url.Error":                     "Request URL error",
	"context.deadlineExceededError": "Timeout",
	"errors.errorString":            "Error",
	"fmt.wrapError":                 "Error",
	"fmt.wrapErrors":                "Error",
}

// typeLabel turns a %T type name into a cause label: *tls.RecordHeaderError
// becomes "Record Header Error (tls)".
func typeLabel(typeName string) string {
	name := strings.TrimPrefix(strings.TrimSpace(typeName), "*")
	if name == "" {
		return "Unknown error"
	}
	if label, ok := typeLabels[name]; ok {
		return label
	}

	pkg, ident, ok := strings.Cut(name, ".")
	if !ok {
		pkg, ident = "", name
	}
	label := splitIdentifier(ident)
	if pkg == "" || pkg == "main" {
		return label
	}
	return label + " (" + pkg + ")"
}

// splitIdentifier breaks a Go identifier into capitalised words at case and
// digit boundaries. Acronyms stay whole, so HTTPError is "HTTP Error".
func splitIdentifier(ident string) string {
	runes := []rune(ident)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && startsWord(runes, i) {
			b.WriteByte(' ')
		}
		if i == 0 || startsWord(runes, i) {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func startsWord(runes []rune, i int) bool {
	prev, r := runes[i-1], runes[i]
	switch {
	case unicode.IsDigit(r):
		return !unicode.IsDigit(prev)
	case !unicode.IsUpper(r):
		return false
	case unicode.IsLower(prev) || unicode.IsDigit(prev):
		return true
	default:
		return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
	}
}

package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Target records a delivery target under the key "target".
func Target(target string) slog.Attr {
	return slog.String("target", target)
}

// RecordID records the notification record identifier under the key "record_id".
// If id is empty, it returns an empty Attr.
func RecordID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("record_id", id)
}

// Command records a command name under the key "command".
func Command(name string) slog.Attr {
	return slog.String("command", name)
}

// Caller records the invoking user identifier under the key "caller".
// If id is empty, it returns an empty Attr.
func Caller(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("caller", id)
}

// ConnID records an ingress connection identifier under the key "conn_id".
func ConnID(id string) slog.Attr {
	return slog.String("conn_id", id)
}

// RemoteAddr records a peer address under the key "remote_addr".
func RemoteAddr(addr string) slog.Attr {
	return slog.String("remote_addr", addr)
}

// Locale records a language code under the key "locale".
func Locale(code string) slog.Attr {
	return slog.String("locale", code)
}

// InvocationID records a command invocation identifier under the key "invocation_id".
func InvocationID(id string) slog.Attr {
	return slog.String("invocation_id", id)
}

package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
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

// OrderID records the order identifier under the key "order_id".
func OrderID(id int64) slog.Attr {
	return slog.Int64("order_id", id)
}

// FromStatus records a transition's source status under the key "from".
func FromStatus(status string) slog.Attr {
	return slog.String("from", status)
}

// ToStatus records a transition's target status under the key "to".
func ToStatus(status string) slog.Attr {
	return slog.String("to", status)
}

// EventName records the lifecycle event under the key "event".
func EventName(event string) slog.Attr {
	return slog.String("event", event)
}

// Component records the emitting component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

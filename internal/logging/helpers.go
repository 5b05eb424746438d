package logging

import (
	"log/slog"
	"time"
)

// Common field helpers for consistent structured logging

// OLT creates an OLT name field
func OLT(name string) slog.Attr {
	return slog.String("olt", name)
}

// PONPort creates a PON port field
func PONPort(port string) slog.Attr {
	return slog.String("pon_port", port)
}

// File creates a report file field
func File(path string) slog.Attr {
	return slog.String("file", path)
}

// Duration logs duration in milliseconds
func Duration(name string, d time.Duration) slog.Attr {
	return slog.Int64(name+"_ms", d.Milliseconds())
}

// Err creates error field
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Count creates count field
func Count(name string, count int) slog.Attr {
	return slog.Int(name+"_count", count)
}

package main

import (
	"log/slog"
	"net/http"
	"os"

	_ "net/http/pprof" // profiling

	"x86color/internal/x86color/cmd"
	"x86color/internal/x86color/log"
)

const defaultProfileAddr = "localhost:6060"

// profileAddr returns where to serve pprof, or "" when profiling is off.
// X86COLOR_PROFILE=1 picks the default address; any other value is used as
// the listen address.
func profileAddr() string {
	switch v := os.Getenv("X86COLOR_PROFILE"); v {
	case "", "0":
		return ""
	case "1", "true":
		return defaultProfileAddr
	default:
		return v
	}
}

func main() {
	defer log.RecoverPanic("main", func() {
		slog.Error("x86color terminated by a panic")
		os.Exit(2)
	})

	if addr := profileAddr(); addr != "" {
		go func() {
			slog.Info("Serving pprof", "addr", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				slog.Error("pprof listener stopped", "addr", addr, "error", err)
			}
		}()
	}

	cmd.Execute()
}

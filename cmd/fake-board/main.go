// ABOUTME: In-memory board backend for local runs and end-to-end testing of board-gateway
// ABOUTME: Usage: fake-board [-addr localhost:9095] [-subjects "Math,Science,Art:disabled"]

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"google.golang.org/grpc"

	"github.com/2389/board-gateway/internal/board"
	"github.com/2389/board-gateway/internal/config"
	"github.com/2389/board-gateway/internal/logging"
	"github.com/2389/board-gateway/internal/tracing"
)

func main() {
	addr := flag.String("addr", "localhost:9095", "gRPC listen address")
	subjects := flag.String("subjects", "Math,Science,History,Art:disabled", "Comma-separated subject titles; suffix :disabled to reject new questions")
	level := flag.String("log-level", "info", "Log level (debug/info/warn/error)")
	format := flag.String("log-format", "text", "Log format (text/json)")
	flag.Parse()

	if err := run(*addr, *subjects, config.LoggingConfig{Level: *level, Format: *format}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseSubjects turns "Math,Art:disabled" into seed subjects numbered from 1.
func parseSubjects(list string) []board.Subject {
	var out []board.Subject
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		title, flagPart, _ := strings.Cut(part, ":")
		out = append(out, board.Subject{
			ID:      int64(len(out) + 1),
			Title:   title,
			Enabled: flagPart != "disabled",
		})
	}
	return out
}

func run(addr, subjects string, logCfg config.LoggingConfig) error {
	logger := logging.New(logCfg, os.Stdout).With("component", "fake-board")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	seed := parseSubjects(subjects)
	srv := grpc.NewServer(grpc.UnaryInterceptor(tracing.UnaryServerInterceptor(logger)))
	board.RegisterServer(srv, board.NewMemoryServer(seed...))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving fake board", "addr", ln.Addr().String(), "subjects", len(seed))
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down fake board")
		srv.GracefulStop()
		return nil
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	}
}

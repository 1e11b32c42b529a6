// Package logging builds the slog loggers used by the board-gateway binaries.
package logging

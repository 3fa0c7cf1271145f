// Package slog provides decorators that log domain operations with
// log/slog, one record per call carrying its duration and error.
package slog

// Package logging provides structured logging for reauthfi runs.
//
// This package wraps Go's log/slog to produce JSON-formatted logs with
// persistent context attributes (run phase, strategy, target). Logs are
// separate from the colored console output: they exist for post-hoc
// troubleshooting of a failed detection on a flaky network.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(logging.Options{
//	    Path:  "/path/to/reauthfi.log",
//	    Level: "INFO",
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("probe finished", "target", "Apple", "outcome", "expected_ok")
//
// An empty Path writes to stderr.
//
// # Context Propagation
//
//	passLogger := logger.WithPhase("retry").WithStrategy("gateway")
//	passLogger.Debug("gateway resolved", "ip", "10.0.0.1")
//
// # Log Rotation
//
// File output is rotated by gopkg.in/natefinch/lumberjack.v2 once the file
// exceeds Options.MaxSizeMB; Options.MaxBackups old files are kept and,
// when Options.Compress is set, gzipped.
//
// # Testing
//
// Use [NopLogger] to discard all log output.
package logging

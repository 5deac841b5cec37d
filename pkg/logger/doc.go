// Package logger builds configured slog.Logger instances for the CLI
// and the client libraries.
//
// The default logger writes JSON at INFO level to stderr. Options adjust
// level, format, destination, and static attributes:
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithAttr(slog.String("component", "authflow")),
//	)
//
// WithVerbosity maps repeated -v CLI flags onto slog levels. Discard
// returns a logger that drops everything, which library packages use as
// their default so logging stays opt-in.
package logger

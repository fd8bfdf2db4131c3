// Package logger builds configured slog.Logger instances and provides
// attribute helpers for the order domain.
//
// The factory uses the functional options pattern with production-safe
// defaults (JSON output at info level):
//
//	log := logger.New(
//	    logger.WithProduction("orderflow"),
//	)
//	logger.SetAsDefault(log)
//
// For local development:
//
//	log := logger.New(logger.WithDevelopment("orderflow"))
//
// Attribute helpers keep log keys consistent across the codebase:
//
//	log.InfoContext(ctx, "order state changed",
//	    logger.OrderID(o.ID),
//	    logger.FromStatus("SUBMITTED"),
//	    logger.ToStatus("PAID"),
//	    logger.EventName("PAY"),
//	)
package logger

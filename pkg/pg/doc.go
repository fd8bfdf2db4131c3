// Package pg wires the service to PostgreSQL: connection pooling with retry,
// embedded schema migrations, health checks and error classification
// helpers.
//
// Connect parses the env-driven Config into a pgxpool and retries with
// linear backoff until the database answers a ping:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//	pool, err := pg.Connect(ctx, cfg)
//
// Migrate applies goose migrations from an embedded fs.FS, so the schema
// travels with the binary:
//
//	if err := pg.Migrate(ctx, pool, order.Migrations, "migrations", cfg, log); err != nil {
//	    // fail startup
//	}
//
// The Is*Error helpers classify driver errors (no rows, unique constraint,
// foreign key violations) so callers can branch without importing pgx
// internals everywhere.
package pg

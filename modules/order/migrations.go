package order

import "embed"

// Migrations holds the SQL schema for the orders table, applied with
// pg.Migrate at startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS

package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Panaderia-api/internal/domain"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrationLockID clave del advisory lock que serializa migradores concurrentes.
const migrationLockID = 727_100_001

// Migration script SQL versionado por su nombre de archivo (0001_catalog.sql -> 0001_catalog).
type Migration struct {
	Version string
	SQL     string
}

// Migrations devuelve los scripts embebidos en orden de versión.
func Migrations() ([]Migration, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	list := make([]Migration, 0, len(entries))
	for _, name := range entries {
		body, err := migrationFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", name, err)
		}
		version := strings.TrimSuffix(strings.TrimPrefix(name, "migrations/"), ".sql")
		list = append(list, Migration{Version: version, SQL: string(body)})
	}
	return list, nil
}

// Migrate aplica las migraciones pendientes, cada una en su propia transacción, y devuelve
// cuántas aplicó. Es idempotente: las versiones ya registradas en schema_migrations se saltan.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) (int, error) {
	migrations, err := Migrations()
	if err != nil {
		return 0, err
	}
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return 0, fmt.Errorf("crear schema_migrations: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		done, err := applyMigration(ctx, pool, m)
		if err != nil {
			return applied, fmt.Errorf("migración %s: %w", m.Version, err)
		}
		if done {
			applied++
			log.Info().Str("version", m.Version).Msg("migración aplicada")
		}
	}
	return applied, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, m Migration) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(migrationLockID)); err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version).Scan(&exists); err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	// Protocolo simple: permite varios statements por script.
	if _, err := tx.Exec(ctx, m.SQL, pgx.QueryExecModeSimpleProtocol); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return true, nil
}

// requiredTables tablas sin las cuales el núcleo de inventario no puede operar.
var requiredTables = []string{
	"products", "supplies",
	"inventory", "supplies_inventory",
	"inventory_movements", "supplies_movements",
	"sales_orders", "sales_order_items",
	"production_orders", "production_order_insumos",
}

// VerifySchema comprueba al arrancar que existan las tablas requeridas. Si falta un libro de
// movimientos el error es ErrLedgerUnavailable: el servicio no debe arrancar sin libro.
func VerifySchema(ctx context.Context, q Querier) error {
	rows, err := q.Query(ctx, `SELECT unnest($1::text[]) AS name EXCEPT SELECT tablename FROM pg_tables WHERE schemaname = current_schema()`, requiredTables)
	if err != nil {
		return fmt.Errorf("verificar esquema: %w", err)
	}
	missing, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("verificar esquema: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	for _, name := range missing {
		if strings.HasSuffix(name, "_movements") {
			return fmt.Errorf("%w: faltan tablas %v", domain.ErrLedgerUnavailable, missing)
		}
	}
	return fmt.Errorf("esquema incompleto, faltan tablas %v", missing)
}

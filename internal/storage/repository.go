package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"operadoras/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository mirrors the seeded dataset into SQLite and serves reads
// from it. The tables are rewritten by Seed on every start.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Seed replaces the stored dataset with ds in a single transaction.
func (r *SQLiteRepository) Seed(ctx context.Context, ds core.Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM despesas`); err != nil {
		return fmt.Errorf("clear despesas: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM operadoras`); err != nil {
		return fmt.Errorf("clear operadoras: %w", err)
	}

	opStmt, err := tx.PrepareContext(ctx, `INSERT INTO operadoras (id_operadora, nome, cnpj, uf, tipo) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare operadora insert: %w", err)
	}
	defer opStmt.Close()

	for _, op := range ds.Operators {
		var kind sql.NullString
		if op.Kind != nil {
			kind = sql.NullString{String: *op.Kind, Valid: true}
		}
		if _, err := opStmt.ExecContext(ctx, op.ID, op.Name, op.CNPJ, op.State, kind); err != nil {
			return fmt.Errorf("insert operadora %d: %w", op.ID, err)
		}
	}

	expStmt, err := tx.PrepareContext(ctx, `INSERT INTO despesas (id, id_operadora, trimestre, valor_despesa_cents) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare despesa insert: %w", err)
	}
	defer expStmt.Close()

	for _, e := range ds.Expenses {
		if _, err := expStmt.ExecContext(ctx, e.ID, e.OperatorID, string(e.Quarter), e.Amount.Cents); err != nil {
			return fmt.Errorf("insert despesa %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	slog.InfoContext(ctx, "Dataset seeded into SQLite",
		"operators", len(ds.Operators),
		"expenses", len(ds.Expenses))

	return nil
}

// ListOperators implements store.OperatorReader
func (r *SQLiteRepository) ListOperators(ctx context.Context) ([]core.Operator, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_operadora, nome, cnpj, uf, tipo FROM operadoras ORDER BY id_operadora`)
	if err != nil {
		return nil, fmt.Errorf("query operadoras: %w", err)
	}
	defer rows.Close()

	var out []core.Operator
	for rows.Next() {
		var (
			op   core.Operator
			kind sql.NullString
		)
		if err := rows.Scan(&op.ID, &op.Name, &op.CNPJ, &op.State, &kind); err != nil {
			return nil, fmt.Errorf("scan operadora: %w", err)
		}
		if kind.Valid {
			op.Kind = core.Kind(kind.String)
		}
		out = append(out, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operadoras: %w", err)
	}

	return out, nil
}

// ListExpenses implements store.ExpenseReader
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, id_operadora, trimestre, valor_despesa_cents FROM despesas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query despesas: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e       core.Expense
			quarter string
		)
		if err := rows.Scan(&e.ID, &e.OperatorID, &quarter, &e.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan despesa: %w", err)
		}
		e.Quarter = core.Quarter(quarter)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate despesas: %w", err)
	}

	return out, nil
}

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/artpar/katla/internal/core/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// Executor Interface - Shared by DB and Transaction
// =============================================================================

// executor abstracts database operations that can be performed on both
// a database connection and a transaction.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
//
// The pool is limited to one connection. Writes are serialised, which makes the
// check-then-act sequences inside WithTx atomic, and ":memory:" databases stay
// on a single connection.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", withForeignKeys(dsn))
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to open database", ErrConnectionFailed)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}

// SchemaVersion reports the applied migration version and whether it is dirty.
func (s *SQLiteStore) SchemaVersion() (uint, bool, error) {
	m, err := newMigrator(s.db.DB)
	if err != nil {
		return 0, false, NewStoreError("SchemaVersion", "", "", err.Error(), ErrMigrationFailed)
	}
	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, NewStoreError("SchemaVersion", "", "", err.Error(), ErrMigrationFailed)
	}
	return version, dirty, nil
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStoreError("Ping", "", "", err.Error(), ErrConnectionFailed)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Row Types
// =============================================================================

type hiveRow struct {
	ID            int    `db:"id"`
	Code          string `db:"code"`
	Name          string `db:"name"`
	Address       string `db:"address"`
	IsDeleted     bool   `db:"is_deleted"`
	CreatedBy     int    `db:"created_by"`
	LastUpdatedBy int    `db:"last_updated_by"`
	CreatedAt     string `db:"created_at"`
	LastUpdated   string `db:"last_updated"`
}

type hiveSectionRow struct {
	ID            int    `db:"id"`
	Code          string `db:"code"`
	Name          string `db:"name"`
	HiveID        int    `db:"hive_id"`
	IsDeleted     bool   `db:"is_deleted"`
	CreatedBy     int    `db:"created_by"`
	LastUpdatedBy int    `db:"last_updated_by"`
	CreatedAt     string `db:"created_at"`
	LastUpdated   string `db:"last_updated"`
}

type productRow struct {
	ID            int    `db:"id"`
	Code          string `db:"code"`
	Name          string `db:"name"`
	IsDeleted     bool   `db:"is_deleted"`
	CreatedBy     int    `db:"created_by"`
	LastUpdatedBy int    `db:"last_updated_by"`
	CreatedAt     string `db:"created_at"`
	LastUpdated   string `db:"last_updated"`
}

type sectionCountRow struct {
	HiveID int `db:"hive_id"`
	Count  int `db:"section_count"`
}

// =============================================================================
// Hive Operations
// =============================================================================

func (s *SQLiteStore) ListHives(ctx context.Context) ([]domain.Hive, error) {
	return listHives(ctx, s.db)
}

func (s *SQLiteStore) GetHive(ctx context.Context, id int) (domain.Hive, error) {
	return getHive(ctx, s.db, id)
}

func (s *SQLiteStore) HiveCodeExists(ctx context.Context, code string, excludeID int) (bool, error) {
	return codeExists(ctx, s.db, "hives", "hive", code, excludeID)
}

func (s *SQLiteStore) CreateHive(ctx context.Context, hive *domain.Hive) error {
	return createHive(ctx, s.db, hive)
}

func (s *SQLiteStore) ReplaceHive(ctx context.Context, hive domain.Hive) error {
	return replaceHive(ctx, s.db, hive)
}

func (s *SQLiteStore) DeleteHive(ctx context.Context, id int) error {
	return deleteHive(ctx, s.db, id)
}

func (s *SQLiteStore) CountSectionsByHive(ctx context.Context) (map[int]int, error) {
	return countSectionsByHive(ctx, s.db)
}

func (s *SQLiteStore) CountHiveSections(ctx context.Context, hiveID int) (int, error) {
	return countHiveSections(ctx, s.db, hiveID)
}

// =============================================================================
// Hive Section Operations
// =============================================================================

func (s *SQLiteStore) ListHiveSections(ctx context.Context, filter SectionFilter) ([]domain.HiveSection, error) {
	return listHiveSections(ctx, s.db, filter)
}

func (s *SQLiteStore) GetHiveSection(ctx context.Context, id int) (domain.HiveSection, error) {
	return getHiveSection(ctx, s.db, id)
}

func (s *SQLiteStore) HiveSectionCodeExists(ctx context.Context, code string, excludeID int) (bool, error) {
	return codeExists(ctx, s.db, "hive_sections", "hive_section", code, excludeID)
}

func (s *SQLiteStore) CreateHiveSection(ctx context.Context, section *domain.HiveSection) error {
	return createHiveSection(ctx, s.db, section)
}

func (s *SQLiteStore) ReplaceHiveSection(ctx context.Context, section domain.HiveSection) error {
	return replaceHiveSection(ctx, s.db, section)
}

func (s *SQLiteStore) DeleteHiveSection(ctx context.Context, id int) error {
	return deleteHiveSection(ctx, s.db, id)
}

// =============================================================================
// Product Operations
// =============================================================================

func (s *SQLiteStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return listProducts(ctx, s.db)
}

func (s *SQLiteStore) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	return getProduct(ctx, s.db, id)
}

func (s *SQLiteStore) ProductCodeExists(ctx context.Context, code string, excludeID int) (bool, error) {
	return codeExists(ctx, s.db, "catalogue_products", "product", code, excludeID)
}

func (s *SQLiteStore) CreateProduct(ctx context.Context, product *domain.Product) error {
	return createProduct(ctx, s.db, product)
}

func (s *SQLiteStore) ReplaceProduct(ctx context.Context, product domain.Product) error {
	return replaceProduct(ctx, s.db, product)
}

func (s *SQLiteStore) DeleteProduct(ctx context.Context, id int) error {
	return deleteProduct(ctx, s.db, id)
}

// =============================================================================
// Transaction Support
// =============================================================================

func (s *SQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStoreError("WithTx", "", "", "failed to begin transaction", ErrTxFailed)
	}

	txS := &txSQLiteStore{tx: tx}

	if err := fn(txS); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return NewStoreError("WithTx", "", "", fmt.Sprintf("rollback failed after error: %v", err), ErrTxFailed)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewStoreError("WithTx", "", "", "failed to commit transaction", ErrTxFailed)
	}

	return nil
}

// =============================================================================
// Transaction Store
// =============================================================================

// txSQLiteStore implements Store within a transaction.
type txSQLiteStore struct {
	tx *sqlx.Tx
}

func (s *txSQLiteStore) ListHives(ctx context.Context) ([]domain.Hive, error) {
	return listHives(ctx, s.tx)
}

func (s *txSQLiteStore) GetHive(ctx context.Context, id int) (domain.Hive, error) {
	return getHive(ctx, s.tx, id)
}

func (s *txSQLiteStore) HiveCodeExists(ctx context.Context, code string, excludeID int) (bool, error) {
	return codeExists(ctx, s.tx, "hives", "hive", code, excludeID)
}

func (s *txSQLiteStore) CreateHive(ctx context.Context, hive *domain.Hive) error {
	return createHive(ctx, s.tx, hive)
}

func (s *txSQLiteStore) ReplaceHive(ctx context.Context, hive domain.Hive) error {
	return replaceHive(ctx, s.tx, hive)
}

func (s *txSQLiteStore) DeleteHive(ctx context.Context, id int) error {
	return deleteHive(ctx, s.tx, id)
}

func (s *txSQLiteStore) CountSectionsByHive(ctx context.Context) (map[int]int, error) {
	return countSectionsByHive(ctx, s.tx)
}

func (s *txSQLiteStore) CountHiveSections(ctx context.Context, hiveID int) (int, error) {
	return countHiveSections(ctx, s.tx, hiveID)
}

func (s *txSQLiteStore) ListHiveSections(ctx context.Context, filter SectionFilter) ([]domain.HiveSection, error) {
	return listHiveSections(ctx, s.tx, filter)
}

func (s *txSQLiteStore) GetHiveSection(ctx context.Context, id int) (domain.HiveSection, error) {
	return getHiveSection(ctx, s.tx, id)
}

func (s *txSQLiteStore) HiveSectionCodeExists(ctx context.Context, code string, excludeID int) (bool, error) {
	return codeExists(ctx, s.tx, "hive_sections", "hive_section", code, excludeID)
}

func (s *txSQLiteStore) CreateHiveSection(ctx context.Context, section *domain.HiveSection) error {
	return createHiveSection(ctx, s.tx, section)
}

func (s *txSQLiteStore) ReplaceHiveSection(ctx context.Context, section domain.HiveSection) error {
	return replaceHiveSection(ctx, s.tx, section)
}

func (s *txSQLiteStore) DeleteHiveSection(ctx context.Context, id int) error {
	return deleteHiveSection(ctx, s.tx, id)
}

func (s *txSQLiteStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return listProducts(ctx, s.tx)
}

func (s *txSQLiteStore) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	return getProduct(ctx, s.tx, id)
}

func (s *txSQLiteStore) ProductCodeExists(ctx context.Context, code string, excludeID int) (bool, error) {
	return codeExists(ctx, s.tx, "catalogue_products", "product", code, excludeID)
}

func (s *txSQLiteStore) CreateProduct(ctx context.Context, product *domain.Product) error {
	return createProduct(ctx, s.tx, product)
}

func (s *txSQLiteStore) ReplaceProduct(ctx context.Context, product domain.Product) error {
	return replaceProduct(ctx, s.tx, product)
}

func (s *txSQLiteStore) DeleteProduct(ctx context.Context, id int) error {
	return deleteProduct(ctx, s.tx, id)
}

func (s *txSQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	// Already in a transaction, just run the function
	return fn(s)
}

func (s *txSQLiteStore) Ping(ctx context.Context) error {
	return nil
}

func (s *txSQLiteStore) Close() error {
	// No-op for tx store
	return nil
}

// =============================================================================
// Shared Implementation Functions - Hives
// =============================================================================

func listHives(ctx context.Context, exec executor) ([]domain.Hive, error) {
	query := `SELECT * FROM hives ORDER BY id ASC`

	var rows []hiveRow
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, NewStoreError("ListHives", "hive", "", err.Error(), err)
	}

	hives := make([]domain.Hive, 0, len(rows))
	for i := range rows {
		hives = append(hives, rowToHive(&rows[i]))
	}
	return hives, nil
}

func getHive(ctx context.Context, exec executor, id int) (domain.Hive, error) {
	query := `SELECT * FROM hives WHERE id = ?`

	var row hiveRow
	err := exec.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hive{}, NewStoreError("GetHive", "hive", strconv.Itoa(id), "hive not found", ErrNotFound)
		}
		return domain.Hive{}, NewStoreError("GetHive", "hive", strconv.Itoa(id), err.Error(), err)
	}

	return rowToHive(&row), nil
}

func createHive(ctx context.Context, exec executor, hive *domain.Hive) error {
	query := `
		INSERT INTO hives (
			code, name, address, is_deleted,
			created_by, last_updated_by, created_at, last_updated
		) VALUES (
			:code, :name, :address, :is_deleted,
			:created_by, :last_updated_by, :created_at, :last_updated
		)`

	result, err := exec.NamedExecContext(ctx, query, hiveToRow(*hive))
	if err != nil {
		return translateWriteError("CreateHive", "hive", hive.Code, "hives", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return NewStoreError("CreateHive", "hive", hive.Code, err.Error(), err)
	}
	hive.ID = int(id)
	return nil
}

func replaceHive(ctx context.Context, exec executor, hive domain.Hive) error {
	query := `
		UPDATE hives SET
			code = :code,
			name = :name,
			address = :address,
			is_deleted = :is_deleted,
			created_by = :created_by,
			last_updated_by = :last_updated_by,
			created_at = :created_at,
			last_updated = :last_updated
		WHERE id = :id`

	result, err := exec.NamedExecContext(ctx, query, hiveToRow(hive))
	if err != nil {
		return translateWriteError("ReplaceHive", "hive", strconv.Itoa(hive.ID), "hives", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("ReplaceHive", "hive", strconv.Itoa(hive.ID), "hive not found", ErrNotFound)
	}
	return nil
}

func deleteHive(ctx context.Context, exec executor, id int) error {
	query := `DELETE FROM hives WHERE id = ?`

	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return translateWriteError("DeleteHive", "hive", strconv.Itoa(id), "hives", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteHive", "hive", strconv.Itoa(id), "hive not found", ErrNotFound)
	}
	return nil
}

func countSectionsByHive(ctx context.Context, exec executor) (map[int]int, error) {
	query := `SELECT hive_id, COUNT(*) AS section_count FROM hive_sections GROUP BY hive_id`

	var rows []sectionCountRow
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, NewStoreError("CountSectionsByHive", "hive_section", "", err.Error(), err)
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.HiveID] = row.Count
	}
	return counts, nil
}

func countHiveSections(ctx context.Context, exec executor, hiveID int) (int, error) {
	query := `SELECT COUNT(*) FROM hive_sections WHERE hive_id = ?`

	var count int
	if err := exec.GetContext(ctx, &count, query, hiveID); err != nil {
		return 0, NewStoreError("CountHiveSections", "hive_section", strconv.Itoa(hiveID), err.Error(), err)
	}
	return count, nil
}

// =============================================================================
// Shared Implementation Functions - Hive Sections
// =============================================================================

func listHiveSections(ctx context.Context, exec executor, filter SectionFilter) ([]domain.HiveSection, error) {
	query := `SELECT * FROM hive_sections ORDER BY id ASC`
	var args []any
	if filter.HiveID != nil {
		query = `SELECT * FROM hive_sections WHERE hive_id = ? ORDER BY id ASC`
		args = append(args, *filter.HiveID)
	}

	var rows []hiveSectionRow
	if err := exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, NewStoreError("ListHiveSections", "hive_section", "", err.Error(), err)
	}

	sections := make([]domain.HiveSection, 0, len(rows))
	for i := range rows {
		sections = append(sections, rowToHiveSection(&rows[i]))
	}
	return sections, nil
}

func getHiveSection(ctx context.Context, exec executor, id int) (domain.HiveSection, error) {
	query := `SELECT * FROM hive_sections WHERE id = ?`

	var row hiveSectionRow
	err := exec.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.HiveSection{}, NewStoreError("GetHiveSection", "hive_section", strconv.Itoa(id), "hive section not found", ErrNotFound)
		}
		return domain.HiveSection{}, NewStoreError("GetHiveSection", "hive_section", strconv.Itoa(id), err.Error(), err)
	}

	return rowToHiveSection(&row), nil
}

func createHiveSection(ctx context.Context, exec executor, section *domain.HiveSection) error {
	query := `
		INSERT INTO hive_sections (
			code, name, hive_id, is_deleted,
			created_by, last_updated_by, created_at, last_updated
		) VALUES (
			:code, :name, :hive_id, :is_deleted,
			:created_by, :last_updated_by, :created_at, :last_updated
		)`

	result, err := exec.NamedExecContext(ctx, query, hiveSectionToRow(*section))
	if err != nil {
		return translateWriteError("CreateHiveSection", "hive_section", section.Code, "hive_sections", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return NewStoreError("CreateHiveSection", "hive_section", section.Code, err.Error(), err)
	}
	section.ID = int(id)
	return nil
}

func replaceHiveSection(ctx context.Context, exec executor, section domain.HiveSection) error {
	query := `
		UPDATE hive_sections SET
			code = :code,
			name = :name,
			hive_id = :hive_id,
			is_deleted = :is_deleted,
			created_by = :created_by,
			last_updated_by = :last_updated_by,
			created_at = :created_at,
			last_updated = :last_updated
		WHERE id = :id`

	result, err := exec.NamedExecContext(ctx, query, hiveSectionToRow(section))
	if err != nil {
		return translateWriteError("ReplaceHiveSection", "hive_section", strconv.Itoa(section.ID), "hive_sections", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("ReplaceHiveSection", "hive_section", strconv.Itoa(section.ID), "hive section not found", ErrNotFound)
	}
	return nil
}

func deleteHiveSection(ctx context.Context, exec executor, id int) error {
	query := `DELETE FROM hive_sections WHERE id = ?`

	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return NewStoreError("DeleteHiveSection", "hive_section", strconv.Itoa(id), err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteHiveSection", "hive_section", strconv.Itoa(id), "hive section not found", ErrNotFound)
	}
	return nil
}

// =============================================================================
// Shared Implementation Functions - Products
// =============================================================================

func listProducts(ctx context.Context, exec executor) ([]domain.Product, error) {
	query := `SELECT * FROM catalogue_products ORDER BY id ASC`

	var rows []productRow
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, NewStoreError("ListProducts", "product", "", err.Error(), err)
	}

	products := make([]domain.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rowToProduct(&rows[i]))
	}
	return products, nil
}

func getProduct(ctx context.Context, exec executor, id int) (domain.Product, error) {
	query := `SELECT * FROM catalogue_products WHERE id = ?`

	var row productRow
	err := exec.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, NewStoreError("GetProduct", "product", strconv.Itoa(id), "product not found", ErrNotFound)
		}
		return domain.Product{}, NewStoreError("GetProduct", "product", strconv.Itoa(id), err.Error(), err)
	}

	return rowToProduct(&row), nil
}

func createProduct(ctx context.Context, exec executor, product *domain.Product) error {
	query := `
		INSERT INTO catalogue_products (
			code, name, is_deleted,
			created_by, last_updated_by, created_at, last_updated
		) VALUES (
			:code, :name, :is_deleted,
			:created_by, :last_updated_by, :created_at, :last_updated
		)`

	result, err := exec.NamedExecContext(ctx, query, productToRow(*product))
	if err != nil {
		return translateWriteError("CreateProduct", "product", product.Code, "catalogue_products", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return NewStoreError("CreateProduct", "product", product.Code, err.Error(), err)
	}
	product.ID = int(id)
	return nil
}

func replaceProduct(ctx context.Context, exec executor, product domain.Product) error {
	query := `
		UPDATE catalogue_products SET
			code = :code,
			name = :name,
			is_deleted = :is_deleted,
			created_by = :created_by,
			last_updated_by = :last_updated_by,
			created_at = :created_at,
			last_updated = :last_updated
		WHERE id = :id`

	result, err := exec.NamedExecContext(ctx, query, productToRow(product))
	if err != nil {
		return translateWriteError("ReplaceProduct", "product", strconv.Itoa(product.ID), "catalogue_products", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("ReplaceProduct", "product", strconv.Itoa(product.ID), "product not found", ErrNotFound)
	}
	return nil
}

func deleteProduct(ctx context.Context, exec executor, id int) error {
	query := `DELETE FROM catalogue_products WHERE id = ?`

	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return NewStoreError("DeleteProduct", "product", strconv.Itoa(id), err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteProduct", "product", strconv.Itoa(id), "product not found", ErrNotFound)
	}
	return nil
}

// =============================================================================
// Shared Helpers
// =============================================================================

// codeExists reports whether a row of table has code, ignoring the row with id excludeID.
// table is always one of the package's own table names.
func codeExists(ctx context.Context, exec executor, table, entity, code string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ` + table + ` WHERE code = ? AND id <> ?)`

	var exists bool
	if err := exec.GetContext(ctx, &exists, query, code, excludeID); err != nil {
		return false, NewStoreError("CodeExists", entity, code, err.Error(), err)
	}
	return exists, nil
}

// translateWriteError maps SQLite constraint failures to store sentinels.
func translateWriteError(op, entity, id, table string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed: "+table+".code") {
		return NewStoreError(op, entity, id, entity+" with this code already exists", ErrDuplicateCode)
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return NewStoreError(op, entity, id, "foreign key constraint violated", ErrForeignKey)
	}
	return NewStoreError(op, entity, id, msg, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// =============================================================================
// Row Conversion
// =============================================================================

func hiveToRow(h domain.Hive) hiveRow {
	return hiveRow{
		ID:            h.ID,
		Code:          h.Code,
		Name:          h.Name,
		Address:       h.Address,
		IsDeleted:     h.IsDeleted,
		CreatedBy:     h.CreatedBy,
		LastUpdatedBy: h.LastUpdatedBy,
		CreatedAt:     formatTime(h.CreatedAt),
		LastUpdated:   formatTime(h.LastUpdated),
	}
}

func rowToHive(row *hiveRow) domain.Hive {
	return domain.Hive{
		ID:        row.ID,
		Code:      row.Code,
		Name:      row.Name,
		Address:   row.Address,
		IsDeleted: row.IsDeleted,
		Audit: domain.Audit{
			CreatedBy:     row.CreatedBy,
			LastUpdatedBy: row.LastUpdatedBy,
			CreatedAt:     parseTime(row.CreatedAt),
			LastUpdated:   parseTime(row.LastUpdated),
		},
	}
}

func hiveSectionToRow(s domain.HiveSection) hiveSectionRow {
	return hiveSectionRow{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		HiveID:        s.HiveID,
		IsDeleted:     s.IsDeleted,
		CreatedBy:     s.CreatedBy,
		LastUpdatedBy: s.LastUpdatedBy,
		CreatedAt:     formatTime(s.CreatedAt),
		LastUpdated:   formatTime(s.LastUpdated),
	}
}

func rowToHiveSection(row *hiveSectionRow) domain.HiveSection {
	return domain.HiveSection{
		ID:        row.ID,
		Code:      row.Code,
		Name:      row.Name,
		HiveID:    row.HiveID,
		IsDeleted: row.IsDeleted,
		Audit: domain.Audit{
			CreatedBy:     row.CreatedBy,
			LastUpdatedBy: row.LastUpdatedBy,
			CreatedAt:     parseTime(row.CreatedAt),
			LastUpdated:   parseTime(row.LastUpdated),
		},
	}
}

func productToRow(p domain.Product) productRow {
	return productRow{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		IsDeleted:     p.IsDeleted,
		CreatedBy:     p.CreatedBy,
		LastUpdatedBy: p.LastUpdatedBy,
		CreatedAt:     formatTime(p.CreatedAt),
		LastUpdated:   formatTime(p.LastUpdated),
	}
}

func rowToProduct(row *productRow) domain.Product {
	return domain.Product{
		ID:        row.ID,
		Code:      row.Code,
		Name:      row.Name,
		IsDeleted: row.IsDeleted,
		Audit: domain.Audit{
			CreatedBy:     row.CreatedBy,
			LastUpdatedBy: row.LastUpdatedBy,
			CreatedAt:     parseTime(row.CreatedAt),
			LastUpdated:   parseTime(row.LastUpdated),
		},
	}
}

package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-SalonBookingService/pkg/psqlbuilder"
)

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var files embed.FS

const versionTable = "schema_version"

var (
	// ErrInvalidMigration возвращается при некорректном имени или содержимом файла миграции
	ErrInvalidMigration = errors.New("migrations: invalid migration file")

	// ErrSchemaTooNew возвращается, когда версия схемы в БД новее поддерживаемой
	ErrSchemaTooNew = errors.New("migrations: database schema is newer than supported")

	// ErrApply возвращается при ошибке применения миграции
	ErrApply = errors.New("migrations: failed to apply migration")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Migration одна миграция NNN_name.sql
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Runner применяет встроенные миграции для диалекта
type Runner struct {
	db      *sql.DB
	fs      fs.FS
	builder psqlbuilder.Builder
	logger  Logger
}

// NewRunner создает раннер со встроенными миграциями диалекта
func NewRunner(db *sql.DB, dialect psqlbuilder.Dialect, logger Logger) (*Runner, error) {
	sub, err := fs.Sub(files, "sql/"+string(dialect))
	if err != nil {
		return nil, fmt.Errorf("%w: no migrations for dialect %s: %v", ErrInvalidMigration, dialect, err)
	}
	return NewRunnerFS(db, sub, dialect, logger), nil
}

// NewRunnerFS создает раннер для произвольного набора файлов
func NewRunnerFS(db *sql.DB, migrationFS fs.FS, dialect psqlbuilder.Dialect, logger Logger) *Runner {
	return &Runner{
		db:      db,
		fs:      migrationFS,
		builder: psqlbuilder.ForDialect(dialect),
		logger:  logger,
	}
}

// CurrentVersion возвращает текущую версию схемы; 0 для пустой БД
func (r *Runner) CurrentVersion(ctx context.Context) (int, error) {
	if err := r.ensureVersionTable(ctx); err != nil {
		return 0, err
	}

	query, args, err := r.builder.Select("COALESCE(MAX(version), 0)").From(versionTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("migrations: build version query: %w", err)
	}

	var version int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&version); err != nil {
		return 0, fmt.Errorf("migrations: read current version: %w", err)
	}
	return version, nil
}

// Load читает файлы миграций, отсортированные по версии
func (r *Runner) Load() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: read directory: %v", ErrInvalidMigration, err)
	}

	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		prefix, name, ok := strings.Cut(entry.Name(), "_")
		if !ok {
			return nil, fmt.Errorf("%w: %s (expected NNN_name.sql)", ErrInvalidMigration, entry.Name())
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version < 1 {
			return nil, fmt.Errorf("%w: bad version in %s", ErrInvalidMigration, entry.Name())
		}

		content, err := fs.ReadFile(r.fs, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidMigration, entry.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(name, ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("%w: duplicate version %d", ErrInvalidMigration, migrations[i].Version)
		}
	}

	return migrations, nil
}

// Apply применяет все ожидающие миграции, каждую в своей транзакции
// Возвращает количество примененных миграций
func (r *Runner) Apply(ctx context.Context) (int, error) {
	current, err := r.CurrentVersion(ctx)
	if err != nil {
		return 0, err
	}

	migrations, err := r.Load()
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		return 0, nil
	}

	latest := migrations[len(migrations)-1].Version
	if current > latest {
		return 0, fmt.Errorf("%w: database=%d, supported=%d", ErrSchemaTooNew, current, latest)
	}

	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		r.logger.Info("Applying migration %03d_%s", m.Version, m.Name)
		if err := r.applyOne(ctx, m); err != nil {
			return applied, err
		}
		applied++
	}

	if applied == 0 {
		r.logger.Info("Database schema is up to date (version %d)", current)
	} else {
		r.logger.Info("Applied %d migration(s), schema version %d", applied, latest)
	}

	return applied, nil
}

func (r *Runner) applyOne(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %d begin: %v", ErrApply, m.Version, err)
	}

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %d (%s): %v", ErrApply, m.Version, m.Name, err)
	}

	query, args, err := r.builder.Insert(versionTable).Columns("version").Values(m.Version).ToSql()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %d build version insert: %v", ErrApply, m.Version, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %d record version: %v", ErrApply, m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %d commit: %v", ErrApply, m.Version, err)
	}
	return nil
}

func (r *Runner) ensureVersionTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+versionTable+` (version INTEGER PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("migrations: create %s: %w", versionTable, err)
	}
	return nil
}

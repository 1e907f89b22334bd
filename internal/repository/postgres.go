// Package repository содержит реализацию доступа к каталогу и таксономии в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/avdeevsm/mayorista-system/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound возвращается, если запрошенная запись отсутствует.
var (
	ErrNotFound = errors.New("record not found")
	// ErrGeneroExists возвращается при попытке создать дубликат в таблице generos.
	ErrGeneroExists = errors.New("genero already exists")
	// ErrGrupoExists возвращается при попытке создать дубликат в таблице grupos_talle.
	ErrGrupoExists = errors.New("grupo de talle already exists")
)

// FiltroProductos описывает предикаты выборки каталога. Пустые поля не участвуют в запросе.
type FiltroProductos struct {
	Genero          string
	GrupoTalle      string
	Marca           string
	Nombre          string // подстрока, регистронезависимо
	SoloDisponibles bool
}

// PostgresRepository предоставляет доступ к каталогу товаров и таксономии.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry повторяет операцию при временных ошибках: сериализационных
// сбоях, дедлоках и обрывах соединения.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn()
		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected {
				return retry.RetryableError(err)
			}
		}

		if isConnectionError(err) {
			return retry.RetryableError(err)
		}

		return err
	})
}

func isConnectionError(err error) bool {
	// Упрощённая проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// ListProductos возвращает товары каталога по заданному фильтру,
// отсортированные от новых к старым.
func (r *PostgresRepository) ListProductos(ctx context.Context, f FiltroProductos) ([]model.Producto, error) {
	query := `SELECT id, nombre, precio, imagen, genero, grupo_talle, marca, disponible, creado_en
	          FROM productos`

	var conds []string
	var args []any

	addCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Genero != "" {
		addCond("genero = $%d", f.Genero)
	}
	if f.GrupoTalle != "" {
		addCond("grupo_talle = $%d", f.GrupoTalle)
	}
	if f.Marca != "" {
		addCond("marca = $%d", f.Marca)
	}
	if f.Nombre != "" {
		addCond("nombre ILIKE $%d", "%"+f.Nombre+"%")
	}
	if f.SoloDisponibles {
		conds = append(conds, "disponible")
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY creado_en DESC"

	var productos []model.Producto

	err := r.withRetry(ctx, func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("select productos: %w", err)
		}
		defer rows.Close()

		productos = productos[:0]
		for rows.Next() {
			var p model.Producto
			if err := rows.Scan(&p.ID, &p.Nombre, &p.Precio, &p.Imagen,
				&p.Genero, &p.GrupoTalle, &p.Marca, &p.Disponible, &p.CreadoEn); err != nil {
				return fmt.Errorf("scan producto: %w", err)
			}
			productos = append(productos, p)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return productos, nil
}

// GetProducto возвращает товар по идентификатору.
func (r *PostgresRepository) GetProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, nombre, precio, imagen, genero, grupo_talle, marca, disponible, creado_en
		 FROM productos WHERE id = $1`,
		id,
	)

	var p model.Producto
	err := row.Scan(&p.ID, &p.Nombre, &p.Precio, &p.Imagen,
		&p.Genero, &p.GrupoTalle, &p.Marca, &p.Disponible, &p.CreadoEn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}

	return &p, nil
}

// CreateProducto создаёт товар каталога и возвращает его идентификатор.
func (r *PostgresRepository) CreateProducto(ctx context.Context, p model.Producto) (uuid.UUID, error) {
	id := uuid.New()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO productos (id, nombre, precio, imagen, genero, grupo_talle, marca, disponible)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, p.Nombre, p.Precio, p.Imagen, p.Genero, p.GrupoTalle, p.Marca, p.Disponible,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create producto: %w", err)
	}

	return id, nil
}

// UpdateProducto обновляет товар по первичному ключу.
func (r *PostgresRepository) UpdateProducto(ctx context.Context, p model.Producto) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE productos
		 SET nombre = $2, precio = $3, imagen = $4, genero = $5, grupo_talle = $6, marca = $7, disponible = $8
		 WHERE id = $1`,
		p.ID, p.Nombre, p.Precio, p.Imagen, p.Genero, p.GrupoTalle, p.Marca, p.Disponible,
	)
	if err != nil {
		return fmt.Errorf("update producto: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProducto удаляет товар по первичному ключу.
func (r *PostgresRepository) DeleteProducto(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete producto: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListGeneros возвращает все элементы таксономии «пол/аудитория».
func (r *PostgresRepository) ListGeneros(ctx context.Context) ([]model.Genero, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, nombre FROM generos ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("select generos: %w", err)
	}
	defer rows.Close()

	var generos []model.Genero
	for rows.Next() {
		var g model.Genero
		if err := rows.Scan(&g.ID, &g.Nombre); err != nil {
			return nil, fmt.Errorf("scan genero: %w", err)
		}
		generos = append(generos, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return generos, nil
}

// CreateGenero создаёт элемент таксономии и возвращает его идентификатор.
func (r *PostgresRepository) CreateGenero(ctx context.Context, nombre string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO generos (nombre) VALUES ($1) RETURNING id`,
		nombre,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrGeneroExists, nombre)
		}
		return 0, fmt.Errorf("create genero: %w", err)
	}
	return id, nil
}

// UpdateGenero переименовывает элемент таксономии.
func (r *PostgresRepository) UpdateGenero(ctx context.Context, id int64, nombre string) error {
	cmdTag, err := r.pool.Exec(ctx, `UPDATE generos SET nombre = $2 WHERE id = $1`, id, nombre)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrGeneroExists, nombre)
		}
		return fmt.Errorf("update genero: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGenero удаляет элемент таксономии по первичному ключу.
func (r *PostgresRepository) DeleteGenero(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM generos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete genero: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListGruposTalle возвращает все размерные группы.
func (r *PostgresRepository) ListGruposTalle(ctx context.Context) ([]model.GrupoTalle, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, nombre, rango FROM grupos_talle ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("select grupos_talle: %w", err)
	}
	defer rows.Close()

	var grupos []model.GrupoTalle
	for rows.Next() {
		var g model.GrupoTalle
		if err := rows.Scan(&g.ID, &g.Nombre, &g.Rango); err != nil {
			return nil, fmt.Errorf("scan grupo: %w", err)
		}
		grupos = append(grupos, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return grupos, nil
}

// CreateGrupoTalle создаёт размерную группу и возвращает её идентификатор.
func (r *PostgresRepository) CreateGrupoTalle(ctx context.Context, nombre, rango string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO grupos_talle (nombre, rango) VALUES ($1, $2) RETURNING id`,
		nombre, rango,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrGrupoExists, nombre)
		}
		return 0, fmt.Errorf("create grupo: %w", err)
	}
	return id, nil
}

// UpdateGrupoTalle обновляет размерную группу по первичному ключу.
func (r *PostgresRepository) UpdateGrupoTalle(ctx context.Context, id int64, nombre, rango string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE grupos_talle SET nombre = $2, rango = $3 WHERE id = $1`,
		id, nombre, rango,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrGrupoExists, nombre)
		}
		return fmt.Errorf("update grupo: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGrupoTalle удаляет размерную группу по первичному ключу.
func (r *PostgresRepository) DeleteGrupoTalle(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM grupos_talle WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete grupo: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

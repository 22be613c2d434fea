package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

var ErrNotFound = errors.New("not found")

type UserStore interface {
	CreateUser(ctx context.Context, login, email, passwordHash string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
}

// Analysis is a saved critical-surface calculation.
type Analysis struct {
	ID            string    `json:"id"`
	UserID        int       `json:"user_id"`
	HeightM       float64   `json:"height_m"`
	SlopeAngleDeg float64   `json:"slope_angle_deg"`
	CohesionKPa   float64   `json:"cohesion_kpa"`
	FrictionDeg   float64   `json:"friction_angle_deg"`
	UnitWeight    float64   `json:"unit_weight_kn_m3"`
	CenterX       float64   `json:"center_x"`
	CenterY       float64   `json:"center_y"`
	RadiusM       float64   `json:"radius_m"`
	FoS           float64   `json:"fos"`
	CreatedAt     time.Time `json:"created_at"`
}

type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, a Analysis) (Analysis, error)
	ListAnalyses(ctx context.Context, userID, limit int) ([]Analysis, error)
	GetAnalysis(ctx context.Context, userID int, id string) (Analysis, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to PostgreSQL and checks the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	login TEXT UNIQUE NOT NULL,
	email TEXT NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS analyses (
	id UUID PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id),
	height_m DOUBLE PRECISION NOT NULL,
	slope_angle_deg DOUBLE PRECISION NOT NULL,
	cohesion_kpa DOUBLE PRECISION NOT NULL,
	friction_angle_deg DOUBLE PRECISION NOT NULL,
	unit_weight DOUBLE PRECISION NOT NULL,
	center_x DOUBLE PRECISION NOT NULL,
	center_y DOUBLE PRECISION NOT NULL,
	radius_m DOUBLE PRECISION NOT NULL,
	fos DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS analyses_user_created ON analyses (user_id, created_at DESC);
`

// Migrate creates the tables if they don't exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, passwordHash string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, passwordHash).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"
	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrNotFound
	}
	if err != nil {
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveAnalysis(ctx context.Context, a Analysis) (Analysis, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	query := `INSERT INTO analyses
		(id, user_id, height_m, slope_angle_deg, cohesion_kpa, friction_angle_deg, unit_weight, center_x, center_y, radius_m, fos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.HeightM, a.SlopeAngleDeg, a.CohesionKPa, a.FrictionDeg, a.UnitWeight,
		a.CenterX, a.CenterY, a.RadiusM, a.FoS).Scan(&a.CreatedAt)
	if err != nil {
		return Analysis{}, fmt.Errorf("save analysis: %w", err)
	}
	return a, nil
}

const analysisColumns = `id, user_id, height_m, slope_angle_deg, cohesion_kpa, friction_angle_deg, unit_weight,
	center_x, center_y, radius_m, fos, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (Analysis, error) {
	var a Analysis
	err := s.Scan(&a.ID, &a.UserID, &a.HeightM, &a.SlopeAngleDeg, &a.CohesionKPa, &a.FrictionDeg, &a.UnitWeight,
		&a.CenterX, &a.CenterY, &a.RadiusM, &a.FoS, &a.CreatedAt)
	return a, err
}

func (r *PostgresRepository) ListAnalyses(ctx context.Context, userID, limit int) ([]Analysis, error) {
	query := "SELECT " + analysisColumns + " FROM analyses WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2"
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetAnalysis(ctx context.Context, userID int, id string) (Analysis, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Analysis{}, ErrNotFound
	}
	query := "SELECT " + analysisColumns + " FROM analyses WHERE user_id=$1 AND id=$2"
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return a, err
}

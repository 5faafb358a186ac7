// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists trips and favorite POIs in a SQLite database.
// Every operation is scoped to one user; a caller can never read or touch
// another user's rows.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

// ErrNotFound marks a lookup for a trip that does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("not found")

// Store manages the trips database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at path and ensures the schema
// exists.
func Open(cfg types.StorageConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = filepath.Join("data", "mapab.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS trips (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			start_lat REAL NOT NULL,
			start_lng REAL NOT NULL,
			start_address TEXT,
			end_lat REAL NOT NULL,
			end_lng REAL NOT NULL,
			end_address TEXT,
			distance_km REAL,
			duration_minutes INTEGER,
			route_geometry TEXT,
			is_favorite INTEGER NOT NULL DEFAULT 0,
			completed_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_user_id ON trips(user_id)`,
		`CREATE TABLE IF NOT EXISTS trip_stops (
			trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			poi_id TEXT NOT NULL,
			name TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			category_id TEXT,
			PRIMARY KEY (trip_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS favorite_pois (
			user_id TEXT NOT NULL,
			poi_id TEXT NOT NULL,
			name TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			category_id TEXT,
			created_at TEXT NOT NULL,
			PRIMARY KEY (user_id, poi_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// newID returns a random 32-hex-character identifier.
func newID() string {
	var b [16]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// CreateTrip inserts a trip with its stops and returns it with generated
// id and timestamps filled in.
func (s *Store) CreateTrip(ctx context.Context, trip types.Trip) (types.Trip, error) {
	trip.ID = newID()
	now := time.Now().UTC().Truncate(time.Second)
	trip.CreatedAt = now
	trip.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Trip{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (id, user_id, name, start_lat, start_lng, start_address,
			end_lat, end_lng, end_address, distance_km, duration_minutes,
			route_geometry, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trip.ID, trip.UserID, trip.Name, trip.StartLat, trip.StartLng, trip.StartAddress,
		trip.EndLat, trip.EndLng, trip.EndAddress, trip.DistanceKm, trip.DurationMinutes,
		trip.RouteGeometry, trip.IsFavorite, formatTime(now), formatTime(now))
	if err != nil {
		return types.Trip{}, fmt.Errorf("inserting trip: %w", err)
	}

	if err := insertStops(ctx, tx, trip.ID, trip.Stops); err != nil {
		return types.Trip{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Trip{}, fmt.Errorf("committing trip: %w", err)
	}
	for i := range trip.Stops {
		trip.Stops[i].Position = i
	}
	return trip, nil
}

func insertStops(ctx context.Context, tx *sql.Tx, tripID string, stops []types.TripStop) error {
	for i, stop := range stops {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO trip_stops (trip_id, position, poi_id, name, latitude, longitude, category_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tripID, i, stop.PoiID, stop.Name, stop.Latitude, stop.Longitude, stop.CategoryID)
		if err != nil {
			return fmt.Errorf("inserting stop %d: %w", i, err)
		}
	}
	return nil
}

// ListTrips returns all of a user's trips, newest first, with stops.
func (s *Store) ListTrips(ctx context.Context, userID string) ([]types.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	defer rows.Close()

	trips := []types.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trips: %w", err)
	}

	for i := range trips {
		stops, err := s.loadStops(ctx, trips[i].ID)
		if err != nil {
			return nil, err
		}
		trips[i].Stops = stops
	}
	return trips, nil
}

// GetTrip returns one trip with stops. Returns ErrNotFound for missing
// trips and trips owned by someone else.
func (s *Store) GetTrip(ctx context.Context, userID, tripID string) (types.Trip, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = ? AND user_id = ?`, tripID, userID)
	trip, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Trip{}, ErrNotFound
		}
		return types.Trip{}, err
	}
	trip.Stops, err = s.loadStops(ctx, trip.ID)
	if err != nil {
		return types.Trip{}, err
	}
	return trip, nil
}

// UpdateTrip replaces a trip's mutable fields and stops.
func (s *Store) UpdateTrip(ctx context.Context, trip types.Trip) (types.Trip, error) {
	now := time.Now().UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Trip{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE trips SET name = ?, start_lat = ?, start_lng = ?, start_address = ?,
			end_lat = ?, end_lng = ?, end_address = ?, distance_km = ?,
			duration_minutes = ?, route_geometry = ?, is_favorite = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		trip.Name, trip.StartLat, trip.StartLng, trip.StartAddress,
		trip.EndLat, trip.EndLng, trip.EndAddress, trip.DistanceKm,
		trip.DurationMinutes, trip.RouteGeometry, trip.IsFavorite, formatTime(now),
		trip.ID, trip.UserID)
	if err != nil {
		return types.Trip{}, fmt.Errorf("updating trip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.Trip{}, ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM trip_stops WHERE trip_id = ?`, trip.ID); err != nil {
		return types.Trip{}, fmt.Errorf("clearing stops: %w", err)
	}
	if err := insertStops(ctx, tx, trip.ID, trip.Stops); err != nil {
		return types.Trip{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Trip{}, fmt.Errorf("committing update: %w", err)
	}
	return s.GetTrip(ctx, trip.UserID, trip.ID)
}

// DeleteTrip removes a trip and its stops.
func (s *Store) DeleteTrip(ctx context.Context, userID, tripID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM trips WHERE id = ? AND user_id = ?`, tripID, userID)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteTrip stamps a trip as completed now.
func (s *Store) CompleteTrip(ctx context.Context, userID, tripID string) (types.Trip, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx,
		`UPDATE trips SET completed_at = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		formatTime(now), formatTime(now), tripID, userID)
	if err != nil {
		return types.Trip{}, fmt.Errorf("completing trip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.Trip{}, ErrNotFound
	}
	return s.GetTrip(ctx, userID, tripID)
}

// ListFavorites returns a user's favorite POIs, newest first.
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]types.FavoritePOI, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT poi_id, name, latitude, longitude, category_id, created_at
		FROM favorite_pois WHERE user_id = ? ORDER BY created_at DESC, poi_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer rows.Close()

	favorites := []types.FavoritePOI{}
	for rows.Next() {
		var f types.FavoritePOI
		var category sql.NullString
		var createdAt string
		if err := rows.Scan(&f.PoiID, &f.Name, &f.Latitude, &f.Longitude, &category, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		f.CategoryID = category.String
		f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

// AddFavorite upserts a favorite POI for the user.
func (s *Store) AddFavorite(ctx context.Context, userID string, poi types.FavoritePOI) error {
	now := time.Now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorite_pois (user_id, poi_id, name, latitude, longitude, category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, poi_id) DO UPDATE SET
			name = excluded.name, latitude = excluded.latitude,
			longitude = excluded.longitude, category_id = excluded.category_id`,
		userID, poi.PoiID, poi.Name, poi.Latitude, poi.Longitude, poi.CategoryID, formatTime(now))
	if err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a favorite POI.
func (s *Store) RemoveFavorite(ctx context.Context, userID, poiID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorite_pois WHERE user_id = ? AND poi_id = ?`, userID, poiID)
	if err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const tripColumns = `id, user_id, name, start_lat, start_lng, start_address,
	end_lat, end_lng, end_address, distance_km, duration_minutes,
	route_geometry, is_favorite, completed_at, created_at, updated_at`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (types.Trip, error) {
	var t types.Trip
	var startAddr, endAddr, geometry, completedAt sql.NullString
	var distance sql.NullFloat64
	var duration sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.StartLat, &t.StartLng, &startAddr,
		&t.EndLat, &t.EndLng, &endAddr, &distance, &duration,
		&geometry, &t.IsFavorite, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Trip{}, err
		}
		return types.Trip{}, fmt.Errorf("scanning trip: %w", err)
	}

	t.StartAddress = startAddr.String
	t.EndAddress = endAddr.String
	t.RouteGeometry = geometry.String
	t.DistanceKm = distance.Float64
	t.DurationMinutes = int(duration.Int64)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	if completedAt.Valid {
		if ts, err := time.Parse(time.RFC3339, completedAt.String); err == nil {
			t.CompletedAt = &ts
		}
	}
	return t, nil
}

func (s *Store) loadStops(ctx context.Context, tripID string) ([]types.TripStop, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, poi_id, name, latitude, longitude, category_id
		FROM trip_stops WHERE trip_id = ? ORDER BY position`, tripID)
	if err != nil {
		return nil, fmt.Errorf("loading stops: %w", err)
	}
	defer rows.Close()

	stops := []types.TripStop{}
	for rows.Next() {
		var stop types.TripStop
		var category sql.NullString
		if err := rows.Scan(&stop.Position, &stop.PoiID, &stop.Name, &stop.Latitude, &stop.Longitude, &category); err != nil {
			return nil, fmt.Errorf("scanning stop: %w", err)
		}
		stop.CategoryID = category.String
		stops = append(stops, stop)
	}
	return stops, rows.Err()
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

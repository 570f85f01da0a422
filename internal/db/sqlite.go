package db

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/ukydev/motomaint/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:embed schema.sql
var schemaSQL string

// Keys of the kv table.
const (
	settingsKey = "@motorcycle_settings"
	themeKey    = "@theme_preference"
)

// SQLiteStore is the single-file store used by the CLI and small
// deployments. Motorcycles are kept as JSON documents, one row each;
// settings and the theme flag live in a per-owner key/value table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func notFoundOnNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// InsertMotorcycle stores a new motorcycle document.
func (s *SQLiteStore) InsertMotorcycle(ctx context.Context, motorcycle models.Motorcycle) error {
	return insertMotorcycle(ctx, s.db, motorcycle)
}

func insertMotorcycle(ctx context.Context, ex execer, motorcycle models.Motorcycle) error {
	doc, err := json.Marshal(motorcycle)
	if err != nil {
		return fmt.Errorf("marshal motorcycle: %w", err)
	}
	_, err = ex.ExecContext(ctx,
		`INSERT INTO motorcycles (id, owner_id, created_at, doc) VALUES (?, ?, ?, ?)`,
		motorcycle.ID, motorcycle.OwnerID, motorcycle.CreatedAt.UTC().Format(time.RFC3339Nano), string(doc))
	return err
}

func decodeMotorcycle(ownerID, doc string) (models.Motorcycle, error) {
	var motorcycle models.Motorcycle
	if err := json.Unmarshal([]byte(doc), &motorcycle); err != nil {
		return models.Motorcycle{}, fmt.Errorf("decode motorcycle: %w", err)
	}
	motorcycle.OwnerID = ownerID
	return motorcycle, nil
}

// FindMotorcycles returns the owner's motorcycles in registration order.
func (s *SQLiteStore) FindMotorcycles(ctx context.Context, ownerID string) ([]models.Motorcycle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM motorcycles WHERE owner_id = ? ORDER BY created_at, rowid`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	motorcycles := []models.Motorcycle{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		motorcycle, err := decodeMotorcycle(ownerID, doc)
		if err != nil {
			return nil, err
		}
		motorcycles = append(motorcycles, motorcycle)
	}
	return motorcycles, rows.Err()
}

// FindMotorcycleByID finds one of the owner's motorcycles.
func (s *SQLiteStore) FindMotorcycleByID(ctx context.Context, ownerID, id string) (*models.Motorcycle, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM motorcycles WHERE owner_id = ? AND id = ?`, ownerID, id).Scan(&doc)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	motorcycle, err := decodeMotorcycle(ownerID, doc)
	if err != nil {
		return nil, err
	}
	return &motorcycle, nil
}

// ReplaceMotorcycle overwrites an existing motorcycle document.
func (s *SQLiteStore) ReplaceMotorcycle(ctx context.Context, motorcycle models.Motorcycle) error {
	doc, err := json.Marshal(motorcycle)
	if err != nil {
		return fmt.Errorf("marshal motorcycle: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE motorcycles SET doc = ? WHERE owner_id = ? AND id = ?`,
		string(doc), motorcycle.OwnerID, motorcycle.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteMotorcycle removes one of the owner's motorcycles.
func (s *SQLiteStore) DeleteMotorcycle(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM motorcycles WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteAllMotorcycles removes every motorcycle of the owner.
func (s *SQLiteStore) DeleteAllMotorcycles(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM motorcycles WHERE owner_id = ?`, ownerID)
	return err
}

// ReplaceAllMotorcycles deletes the owner's motorcycles and inserts the
// given ones in a single transaction.
func (s *SQLiteStore) ReplaceAllMotorcycles(ctx context.Context, ownerID string, motorcycles []models.Motorcycle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM motorcycles WHERE owner_id = ?`, ownerID); err != nil {
		return err
	}
	for _, m := range motorcycles {
		m.OwnerID = ownerID
		if err := insertMotorcycle(ctx, tx, m); err != nil {
			return fmt.Errorf("insert motorcycle %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) getValue(ctx context.Context, ownerID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE owner_id = ? AND key = ?`, ownerID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) putValue(ctx context.Context, ownerID, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (owner_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(owner_id, key) DO UPDATE SET value = excluded.value`,
		ownerID, key, value)
	return err
}

// LoadSettings returns the owner's settings, or the defaults when none were saved.
func (s *SQLiteStore) LoadSettings(ctx context.Context, ownerID string) (models.AppSettings, error) {
	value, ok, err := s.getValue(ctx, ownerID, settingsKey)
	if err != nil || !ok {
		return models.DefaultSettings(), err
	}
	settings := models.DefaultSettings()
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return models.AppSettings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// SaveSettings persists the owner's settings.
func (s *SQLiteStore) SaveSettings(ctx context.Context, ownerID string, settings models.AppSettings) error {
	value, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return s.putValue(ctx, ownerID, settingsKey, string(value))
}

// LoadTheme returns the persisted dark mode flag, false when never saved.
func (s *SQLiteStore) LoadTheme(ctx context.Context, ownerID string) (bool, error) {
	value, ok, err := s.getValue(ctx, ownerID, themeKey)
	if err != nil || !ok {
		return false, err
	}
	var dark bool
	if err := json.Unmarshal([]byte(value), &dark); err != nil {
		return false, fmt.Errorf("decode theme preference: %w", err)
	}
	return dark, nil
}

// SaveTheme persists the dark mode flag as a JSON boolean.
func (s *SQLiteStore) SaveTheme(ctx context.Context, ownerID string, dark bool) error {
	value, _ := json.Marshal(dark)
	return s.putValue(ctx, ownerID, themeKey, string(value))
}

// DeleteSettings removes every key of the owner, theme included.
func (s *SQLiteStore) DeleteSettings(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE owner_id = ?`, ownerID)
	return err
}

const userColumns = `id, username, email, password_hash, role, first_name, last_name,
	is_active, last_login, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user                 models.User
		id, role             string
		lastLogin            sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&id, &user.Username, &user.Email, &user.PasswordHash, &role,
		&user.FirstName, &user.LastName, &user.IsActive, &lastLogin, &createdAt, &updatedAt)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	if user.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("decode user id: %w", err)
	}
	user.Role = models.Role(role)
	user.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	user.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	if lastLogin.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, lastLogin.String); err == nil {
			user.LastLogin = &ts
		}
	}
	return &user, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// InsertUser inserts a new user into the database
func (s *SQLiteStore) InsertUser(ctx context.Context, user models.User) error {
	now := time.Now()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, 1, NULL, ?, ?)`,
		user.ID.Hex(), user.Username, user.Email, user.PasswordHash, string(user.Role),
		user.FirstName, user.LastName, formatTime(now), formatTime(now))
	return err
}

func (s *SQLiteStore) findUser(ctx context.Context, column, value string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value)
	return scanUser(row)
}

// FindUserByID finds a user by their ID
func (s *SQLiteStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "id", id)
}

// FindUserByUsername finds a user by their username
func (s *SQLiteStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, "username", username)
}

// FindUserByEmail finds a user by their email
func (s *SQLiteStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email", email)
}

// FindUsers lists every user
func (s *SQLiteStore) FindUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateUser updates a user in the database
func (s *SQLiteStore) UpdateUser(ctx context.Context, id string, user models.User) error {
	var lastLogin any
	if user.LastLogin != nil {
		lastLogin = formatTime(*user.LastLogin)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, password_hash = ?, role = ?, first_name = ?,
		 last_name = ?, is_active = ?, last_login = ?, updated_at = ? WHERE id = ?`,
		user.Username, user.Email, user.PasswordHash, string(user.Role), user.FirstName,
		user.LastName, user.IsActive, lastLogin, formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteUser deletes a user from the database
func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// UpdateLastLogin updates the last login time for a user
func (s *SQLiteStore) UpdateLastLogin(ctx context.Context, id string) error {
	now := formatTime(time.Now())
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?`, now, now, id)
	return err
}

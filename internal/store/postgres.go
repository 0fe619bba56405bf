package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventcert/api/internal/model"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Users ---

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, full_name, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// --- Events ---

func (s *PostgresStore) CreateEvent(ctx context.Context, event *model.Event) error {
	event.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO events (id, name, description, event_date, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.Name, event.Description, event.EventDate, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var e model.Event
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, description, event_date, created_at FROM events WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Name, &e.Description, &e.EventDate, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

func (s *PostgresStore) ListEvents(ctx context.Context) ([]*model.Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, event_date, created_at FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.EventDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (s *PostgresStore) UpdateEvent(ctx context.Context, event *model.Event) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE events SET name = $2, description = $3, event_date = $4 WHERE id = $1`,
		event.ID, event.Name, event.Description, event.EventDate)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Templates ---

func (s *PostgresStore) CreateTemplate(ctx context.Context, tmpl *model.Template) error {
	tmpl.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO templates (id, event_id, name, svg_content, variables, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		tmpl.ID, tmpl.EventID, tmpl.Name, tmpl.SVGContent, tmpl.Variables, tmpl.CreatedAt)
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTemplate(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	var t model.Template
	err := s.pool.QueryRow(ctx,
		`SELECT id, event_id, name, svg_content, variables, created_at FROM templates WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.EventID, &t.Name, &t.SVGContent, &t.Variables, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) ListTemplates(ctx context.Context) ([]*model.Template, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, event_id, name, svg_content, variables, created_at
		 FROM templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []*model.Template
	for rows.Next() {
		var t model.Template
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.SVGContent, &t.Variables, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

func (s *PostgresStore) UpdateTemplate(ctx context.Context, tmpl *model.Template) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE templates SET name = $2, svg_content = $3, variables = $4 WHERE id = $1`,
		tmpl.ID, tmpl.Name, tmpl.SVGContent, tmpl.Variables)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Generation logs ---

func (s *PostgresStore) CreateGenerationLog(ctx context.Context, logRec *model.GenerationLog) error {
	now := time.Now().UTC()
	logRec.CreatedAt = now
	logRec.UpdatedAt = now

	var mapping []byte
	if logRec.ColumnMapping != nil {
		var err error
		mapping, err = json.Marshal(logRec.ColumnMapping)
		if err != nil {
			return fmt.Errorf("marshal column mapping: %w", err)
		}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO generation_log
		   (id, template_id, google_sheet_url, drive_folder_id, column_mapping,
		    status, total_records, processed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		logRec.ID, logRec.TemplateID, logRec.SheetURL, logRec.DriveFolderID, mapping,
		logRec.Status, logRec.TotalRecords, logRec.Processed, logRec.CreatedAt, logRec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create generation log: %w", err)
	}
	return nil
}

func (s *PostgresStore) scanGenerationLog(row pgx.Row) (*model.GenerationLog, error) {
	var l model.GenerationLog
	var mapping []byte
	err := row.Scan(&l.ID, &l.TemplateID, &l.SheetURL, &l.DriveFolderID, &mapping,
		&l.Status, &l.TotalRecords, &l.Processed, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan generation log: %w", err)
	}
	if len(mapping) > 0 {
		if err := json.Unmarshal(mapping, &l.ColumnMapping); err != nil {
			return nil, fmt.Errorf("unmarshal column mapping: %w", err)
		}
	}
	return &l, nil
}

const generationLogColumns = `id, template_id, google_sheet_url, drive_folder_id, column_mapping,
	status, total_records, processed, created_at, updated_at`

func (s *PostgresStore) GetGenerationLog(ctx context.Context, id uuid.UUID) (*model.GenerationLog, error) {
	return s.scanGenerationLog(s.pool.QueryRow(ctx,
		`SELECT `+generationLogColumns+` FROM generation_log WHERE id = $1`, id))
}

func (s *PostgresStore) ListGenerationLogs(ctx context.Context) ([]*model.GenerationLog, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+generationLogColumns+` FROM generation_log ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list generation logs: %w", err)
	}
	defer rows.Close()

	var logs []*model.GenerationLog
	for rows.Next() {
		l, err := s.scanGenerationLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *PostgresStore) UpdateGenerationLogStatus(ctx context.Context, id uuid.UUID, status model.JobStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE generation_log SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("update generation log status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetGenerationLogTotals(ctx context.Context, id uuid.UUID, total, processed int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE generation_log SET total_records = $2, processed = $3, updated_at = NOW() WHERE id = $1`,
		id, total, processed)
	if err != nil {
		return fmt.Errorf("set generation log totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementProcessed advances the progress counter by one as a single atomic
// statement, so sequential per-participant commits never lose an update.
func (s *PostgresStore) IncrementProcessed(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE generation_log SET processed = processed + 1, updated_at = NOW() WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("increment processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Generated assets ---

func (s *PostgresStore) CreateAsset(ctx context.Context, asset *model.GeneratedAsset) error {
	asset.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO generated_assets
		   (id, generation_log_id, participant_name, participant_email, email_status, drive_file_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		asset.ID, asset.GenerationLogID, asset.ParticipantName, asset.ParticipantEmail,
		asset.EmailStatus, asset.DriveFileID, asset.CreatedAt)
	if err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

const assetColumns = `id, generation_log_id, participant_name, participant_email,
	email_status, drive_file_id, created_at`

func (s *PostgresStore) scanAsset(row pgx.Row) (*model.GeneratedAsset, error) {
	var a model.GeneratedAsset
	err := row.Scan(&a.ID, &a.GenerationLogID, &a.ParticipantName, &a.ParticipantEmail,
		&a.EmailStatus, &a.DriveFileID, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan asset: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) GetAsset(ctx context.Context, id uuid.UUID) (*model.GeneratedAsset, error) {
	return s.scanAsset(s.pool.QueryRow(ctx,
		`SELECT `+assetColumns+` FROM generated_assets WHERE id = $1`, id))
}

func (s *PostgresStore) ListAssets(ctx context.Context) ([]*model.GeneratedAsset, error) {
	return s.queryAssets(ctx,
		`SELECT `+assetColumns+` FROM generated_assets ORDER BY created_at ASC`)
}

func (s *PostgresStore) ListAssetsByLog(ctx context.Context, logID uuid.UUID) ([]*model.GeneratedAsset, error) {
	return s.queryAssets(ctx,
		`SELECT `+assetColumns+` FROM generated_assets WHERE generation_log_id = $1 ORDER BY created_at ASC`,
		logID)
}

func (s *PostgresStore) queryAssets(ctx context.Context, query string, args ...any) ([]*model.GeneratedAsset, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []*model.GeneratedAsset
	for rows.Next() {
		a, err := s.scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (s *PostgresStore) UpdateAssetStatus(ctx context.Context, id uuid.UUID, status model.EmailStatus, driveFileID *string) error {
	var tag pgconn.CommandTag
	var err error
	if driveFileID != nil {
		tag, err = s.pool.Exec(ctx,
			`UPDATE generated_assets SET email_status = $2, drive_file_id = $3 WHERE id = $1`,
			id, status, *driveFileID)
	} else {
		tag, err = s.pool.Exec(ctx,
			`UPDATE generated_assets SET email_status = $2 WHERE id = $1`,
			id, status)
	}
	if err != nil {
		return fmt.Errorf("update asset status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

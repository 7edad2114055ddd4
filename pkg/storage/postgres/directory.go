package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

func newDirectoryStore(db sqlx.ExtContext) *directoryStore {
	return &directoryStore{
		db: db,
	}
}

type directoryStore struct {
	db sqlx.ExtContext
}

type sqlDataUser struct {
	ID                   string    `db:"id"`
	Email                string    `db:"email"`
	Name                 string    `db:"name"`
	Timezone             string    `db:"timezone"`
	CalendarRefreshToken string    `db:"calendar_refresh_token"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

func (d *sqlDataUser) Model() *model.User {
	return &model.User{
		ID:                   d.ID,
		Email:                d.Email,
		Name:                 d.Name,
		Timezone:             d.Timezone,
		CalendarRefreshToken: d.CalendarRefreshToken,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

type sqlDataOrganization struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type sqlDataPulse struct {
	ID             string    `db:"id"`
	OrganizationID string    `db:"organization_id"`
	Name           string    `db:"name"`
	Category       string    `db:"category"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (s *directoryStore) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	d := sqlDataUser{}
	if err := sqlx.GetContext(ctx, s.db, &d, "SELECT * FROM users WHERE id=$1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find user")
	}
	return d.Model(), nil
}

func (s *directoryStore) FindUsersByEmails(ctx context.Context, emails []string) (map[string]model.User, error) {
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(e)))
	}

	rows := make([]sqlDataUser, 0)
	query := "SELECT * FROM users WHERE lower(email) = ANY($1)"
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, pq.Array(normalized)); err != nil {
		return nil, errors.Wrap(err, "failed to find users by email")
	}

	models := make(map[string]model.User, len(rows))
	for _, d := range rows {
		models[strings.ToLower(d.Email)] = *d.Model()
	}
	return models, nil
}

func (s *directoryStore) FindOrganizationByID(ctx context.Context, id string) (*model.Organization, error) {
	d := sqlDataOrganization{}
	if err := sqlx.GetContext(ctx, s.db, &d, "SELECT * FROM organizations WHERE id=$1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find organization")
	}
	return &model.Organization{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}, nil
}

func (s *directoryStore) FindPulseByID(ctx context.Context, id string) (*model.Pulse, error) {
	d := sqlDataPulse{}
	if err := sqlx.GetContext(ctx, s.db, &d, "SELECT * FROM pulses WHERE id=$1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find pulse")
	}
	return &model.Pulse{
		ID:             d.ID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Category:       d.Category,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

func (s *directoryStore) IsOrganizationMember(ctx context.Context, organizationID, userID string) (bool, error) {
	return s.exists(ctx, "SELECT EXISTS (SELECT 1 FROM memberships WHERE organization_id=$1 AND user_id=$2)", organizationID, userID)
}

func (s *directoryStore) IsPulseMember(ctx context.Context, pulseID, userID string) (bool, error) {
	return s.exists(ctx, "SELECT EXISTS (SELECT 1 FROM memberships WHERE pulse_id=$1 AND pulse_id <> '' AND user_id=$2)", pulseID, userID)
}

func (s *directoryStore) PulseOwner(ctx context.Context, pulseID string) (*model.User, error) {
	d := sqlDataUser{}
	query := `SELECT u.* FROM users u
		JOIN memberships m ON m.user_id = u.id
		WHERE m.pulse_id=$1 AND m.role=$2
		LIMIT 1`
	if err := sqlx.GetContext(ctx, s.db, &d, query, pulseID, model.RoleOwner); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find pulse owner")
	}
	return d.Model(), nil
}

func (s *directoryStore) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var ok bool
	if err := sqlx.GetContext(ctx, s.db, &ok, query, args...); err != nil {
		return false, errors.Wrap(err, "failed to check membership")
	}
	return ok, nil
}

func (s *directoryStore) CreateUser(ctx context.Context, m *model.User) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().Round(time.Second).UTC()
	d := sqlDataUser{
		ID:                   m.ID,
		Email:                m.Email,
		Name:                 m.Name,
		Timezone:             m.Timezone,
		CalendarRefreshToken: m.CalendarRefreshToken,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	query := `INSERT INTO users (id, email, name, timezone, calendar_refresh_token, created_at, updated_at)
		VALUES (:id, :email, :name, :timezone, :calendar_refresh_token, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, s.db, query, d); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return errors.Wrap(err, "failed to create user")
	}
	m.CreatedAt, m.UpdatedAt = now, now

	return nil
}

func (s *directoryStore) CreateOrganization(ctx context.Context, m *model.Organization) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().Round(time.Second).UTC()
	d := sqlDataOrganization{ID: m.ID, Name: m.Name, CreatedAt: now, UpdatedAt: now}

	query := `INSERT INTO organizations (id, name, created_at, updated_at)
		VALUES (:id, :name, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, s.db, query, d); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return errors.Wrap(err, "failed to create organization")
	}
	m.CreatedAt, m.UpdatedAt = now, now

	return nil
}

func (s *directoryStore) CreatePulse(ctx context.Context, m *model.Pulse) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().Round(time.Second).UTC()
	d := sqlDataPulse{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Category:       m.Category,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	query := `INSERT INTO pulses (id, organization_id, name, category, created_at, updated_at)
		VALUES (:id, :organization_id, :name, :category, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, s.db, query, d); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return errors.Wrap(err, "failed to create pulse")
	}
	m.CreatedAt, m.UpdatedAt = now, now

	return nil
}

func (s *directoryStore) AddMembership(ctx context.Context, m model.Membership) error {
	query := `INSERT INTO memberships (user_id, organization_id, pulse_id, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, organization_id, pulse_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, m.UserID, m.OrganizationID, m.PulseID, m.Role); err != nil {
		return errors.Wrap(err, "failed to add membership")
	}
	return nil
}

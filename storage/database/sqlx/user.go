package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core/user"
)

const userColumns = `id, name, email, role, profile_picture, password_hash, created_at, last_active`

type userRow struct {
	ID             int            `db:"id"`
	Name           string         `db:"name"`
	Email          string         `db:"email"`
	Role           string         `db:"role"`
	ProfilePicture sql.NullString `db:"profile_picture"`
	PasswordHash   []byte         `db:"password_hash"`
	CreatedAt      time.Time      `db:"created_at"`
	LastActive     *time.Time     `db:"last_active"`
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo userRepository) toRow(usr user.User) userRow {
	row := userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Email:        usr.Email,
		Role:         usr.Role,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt.UTC(),
	}
	if usr.ProfilePicture != nil {
		row.ProfilePicture = sql.NullString{String: *usr.ProfilePicture, Valid: true}
	}
	if !usr.LastActive.IsZero() {
		lastActive := usr.LastActive.UTC()
		row.LastActive = &lastActive
	}
	return row
}

func (repo userRepository) fromRow(row userRow) user.User {
	usr := user.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Role:         row.Role,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
	}
	if row.ProfilePicture.Valid {
		pic := row.ProfilePicture.String
		usr.ProfilePicture = &pic
	}
	if row.LastActive != nil {
		usr.LastActive = row.LastActive.UTC()
	}
	return usr
}

func trapNoRowsErr(err error) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...int) error {
	query := `SELECT COUNT(*) FROM "user" WHERE email = ?`
	args := []interface{}{email}
	if len(excludedIDs) > 0 {
		var (
			inQuery string
			inArgs  []interface{}
			err     error
		)
		if inQuery, inArgs, err = sqlx.In(` AND id NOT IN (?)`, excludedIDs); err != nil {
			return errors.Wrap(err, "building query")
		}
		query += inQuery
		args = append(args, inArgs...)
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "counting users")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	query := `INSERT INTO "user" (name, email, role, profile_picture, password_hash, created_at, last_active)
		VALUES (:name, :email, :role, :profile_picture, :password_hash, :created_at, COALESCE(:last_active, now()))
		RETURNING ` + userColumns

	rows, err := repo.db.NamedQueryContext(ctx, query, repo.toRow(usr))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	defer func() { _ = rows.Close() }()

	var row userRow
	if !rows.Next() {
		return user.User{}, errors.New("inserting user: no row returned")
	}
	if err = rows.StructScan(&row); err != nil {
		return user.User{}, errors.Wrap(err, "scanning user")
	}
	return repo.fromRow(row), nil
}

func (repo userRepository) QueryUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT `+userColumns+` FROM "user" ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, repo.fromRow(row))
	}
	return users, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.ID != 0 {
		where = append(where, "id = ?")
		args = append(args, filter.ID)
	}
	if filter.Email != "" {
		where = append(where, "email = ?")
		args = append(args, filter.Email)
	}
	if len(where) == 0 {
		return user.User{}, user.ErrNotFound
	}

	query := repo.db.Rebind(`SELECT ` + userColumns + ` FROM "user" WHERE ` + strings.Join(where, " AND ") + ` LIMIT 1`)
	var row userRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, trapNoRowsErr(err)
	}
	return repo.fromRow(row), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	// only save set fields
	query := `UPDATE "user" SET
			name = :name,
			email = :email,
			profile_picture = :profile_picture,
			role = COALESCE(NULLIF(:role, ''), role),
			password_hash = COALESCE(:password_hash, password_hash),
			last_active = COALESCE(:last_active, last_active)
		WHERE id = :id
		RETURNING ` + userColumns

	rows, err := repo.db.NamedQueryContext(ctx, query, repo.toRow(usr))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	defer func() { _ = rows.Close() }()

	var row userRow
	if !rows.Next() {
		return user.User{}, user.ErrNotFound
	}
	if err = rows.StructScan(&row); err != nil {
		return user.User{}, errors.Wrap(err, "scanning user")
	}
	return repo.fromRow(row), nil
}

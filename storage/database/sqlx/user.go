package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/scsit/ges/core"
	"github.com/scsit/ges/core/user"
)

const userColumns = `id, first_name, middle_name, last_name, email, username, role, student_id, gender,
	address, contact_number, avatar, program_id, is_active, password_hash, created_at, updated_at, last_login`

// userRow mirrors the users table; nullable columns use null types.
type userRow struct {
	ID            int         `db:"id"`
	FirstName     string      `db:"first_name"`
	MiddleName    string      `db:"middle_name"`
	LastName      string      `db:"last_name"`
	Email         string      `db:"email"`
	Username      string      `db:"username"`
	Role          string      `db:"role"`
	StudentID     null.String `db:"student_id"`
	Gender        string      `db:"gender"`
	Address       string      `db:"address"`
	ContactNumber string      `db:"contact_number"`
	Avatar        string      `db:"avatar"`
	ProgramID     null.Int    `db:"program_id"`
	IsActive      bool        `db:"is_active"`
	PasswordHash  null.Bytes  `db:"password_hash"`
	CreatedAt     null.Time   `db:"created_at"`
	UpdatedAt     null.Time   `db:"updated_at"`
	LastLogin     null.Time   `db:"last_login"`
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func toUserRow(usr user.User) userRow {
	return userRow{
		ID:            usr.ID,
		FirstName:     usr.FirstName,
		MiddleName:    usr.MiddleName,
		LastName:      usr.LastName,
		Email:         usr.Email,
		Username:      usr.Username,
		Role:          usr.Role,
		StudentID:     null.NewString(usr.StudentID, usr.StudentID != ""),
		Gender:        usr.Gender,
		Address:       usr.Address,
		ContactNumber: usr.ContactNumber,
		Avatar:        usr.Avatar,
		ProgramID:     null.IntFromPtr(usr.ProgramID),
		IsActive:      usr.IsActive,
		PasswordHash:  null.NewBytes(usr.PasswordHash, len(usr.PasswordHash) > 0),
		CreatedAt:     null.NewTime(usr.CreatedAt.UTC(), !usr.CreatedAt.IsZero()),
		UpdatedAt:     null.NewTime(usr.UpdatedAt.UTC(), !usr.UpdatedAt.IsZero()),
		LastLogin:     null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func (row userRow) user() user.User {
	return user.User{
		ID:            row.ID,
		FirstName:     row.FirstName,
		MiddleName:    row.MiddleName,
		LastName:      row.LastName,
		Email:         row.Email,
		Username:      row.Username,
		Role:          row.Role,
		StudentID:     row.StudentID.String,
		Gender:        row.Gender,
		Address:       row.Address,
		ContactNumber: row.ContactNumber,
		Avatar:        row.Avatar,
		ProgramID:     row.ProgramID.Ptr(),
		IsActive:      row.IsActive,
		PasswordHash:  row.PasswordHash.Bytes,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
		LastLogin:     row.LastLogin.Time,
	}
}

// trapNoRowsErr maps "no rows" to the repository's notFound error.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if cause := errors.Cause(err); cause == sql.ErrNoRows || cause == notFound {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo *userRepository) CheckUniqueness(ctx context.Context, username, email, studentID string, excludedUsers ...user.User) error {
	ids := []int{0}
	for _, u := range excludedUsers {
		ids = append(ids, u.ID)
	}
	q, args, err := sqlx.In(
		`SELECT username, email, COALESCE(student_id, '') FROM users
		WHERE (username = ? OR email = ? OR (student_id IS NOT NULL AND student_id = ?)) AND id NOT IN (?)
		LIMIT 1`,
		username, email, studentID, ids,
	)
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}

	var foundUsername, foundEmail, foundStudentID string
	err = repo.db.QueryRowxContext(ctx, repo.db.Rebind(q), args...).Scan(&foundUsername, &foundEmail, &foundStudentID)
	switch {
	case err == sql.ErrNoRows:
		return nil
	case err != nil:
		return errors.Wrap(err, "checking user uniqueness")
	case username != "" && foundUsername == username:
		return user.ErrUsernameExists
	case email != "" && foundEmail == email:
		return user.ErrEmailExists
	default:
		return user.ErrStudentIDExists
	}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `INSERT INTO users (first_name, middle_name, last_name, email, username, role, student_id, gender,
		address, contact_number, avatar, program_id, is_active, password_hash, created_at, updated_at, last_login)
	VALUES (:first_name, :middle_name, :last_name, :email, :username, :role, :student_id, :gender,
		:address, :contact_number, :avatar, :program_id, :is_active, :password_hash, :created_at, :updated_at, :last_login)
	RETURNING id`
	stmt, err := repo.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return user.User{}, errors.Wrap(err, "preparing user insert")
	}
	defer func() { _ = stmt.Close() }()

	if err = stmt.GetContext(ctx, &usr.ID, toUserRow(usr)); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Search != "" {
		// users with a name, username, email or student ID matching the keyword
		val := "%" + filter.Search + "%"
		where = append(where, `(first_name || ' ' || last_name ILIKE ? OR username ILIKE ? OR email ILIKE ? OR student_id ILIKE ?)`)
		args = append(args, val, val, val, val)
	}
	if len(filter.Roles) > 0 {
		where = append(where, "role IN (?)")
		args = append(args, filter.Roles)
	}
	if filter.ProgramID != nil {
		where = append(where, "program_id = ?")
		args = append(args, *filter.ProgramID)
	}

	q := "SELECT " + userColumns + " FROM users"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	ordering = core.FilterOrderings(ordering, "first_name", "last_name", "student_id", "email", "username")
	q += core.OrderByClause(ordering, "id")

	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "building users query")
	}
	var rows []userRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.user())
	}
	return users, nil
}

func (repo *userRepository) getBy(ctx context.Context, cond string, args ...interface{}) (user.User, error) {
	var row userRow
	q := "SELECT " + userColumns + " FROM users WHERE " + cond + " LIMIT 1"
	if err := repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user")
	}
	return row.user(), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	return repo.getBy(ctx, "id = $1", id)
}

func (repo *userRepository) GetUserByStudentID(ctx context.Context, studentID string) (user.User, error) {
	if studentID == "" {
		return user.User{}, user.ErrNotFound
	}
	return repo.getBy(ctx, "student_id = $1", studentID)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getBy(ctx, "email = $1", email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	return repo.getBy(ctx, "username = $1 OR email = $1", username)
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `UPDATE users SET first_name = :first_name, middle_name = :middle_name, last_name = :last_name,
		email = :email, username = :username, role = :role, student_id = :student_id, gender = :gender,
		address = :address, contact_number = :contact_number, avatar = :avatar, program_id = :program_id,
		is_active = :is_active, password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
	WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, toUserRow(usr))
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM users WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}

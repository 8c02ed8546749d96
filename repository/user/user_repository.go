package user

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
)

// ErrDuplicateEmail is returned by Create when the unique email index rejects the row.
var ErrDuplicateEmail = stderrors.New("duplicate email")

type SQL struct {
	conn *sqlx.DB
}

type UserRepository interface {
	Create(ctx context.Context, req *model.UserEntity) (*model.UserEntity, error)
	Get(ctx context.Context, filter *model.UserFilter) (*model.UserEntity, error)
	ListByRoleTx(ctx context.Context, tx *sqlx.Tx, role constant.Role) ([]model.UserEntity, error)
	UpdateProfile(ctx context.Context, id uint64, req *model.ProfileUpdate) error
}

func NewUserRepository(conn *sqlx.DB) UserRepository {
	return &SQL{conn: conn}
}

const (
	userColumns     = `id, name, email, password_hash, role, phone, location, member_since, profile_picture, created_at, updated_at`
	insertUserQuery = `INSERT INTO user (name, email, password_hash, role, phone, location, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	getUserBase     = `SELECT ` + userColumns + ` FROM user WHERE true`
	listByRoleQuery = `SELECT ` + userColumns + ` FROM user WHERE role = ? ORDER BY id`
)

const mysqlDuplicateEntry = 1062

func (s *SQL) Create(ctx context.Context, data *model.UserEntity) (*model.UserEntity, error) {
	result, err := s.conn.ExecContext(ctx, insertUserQuery, data.Name, data.Email, data.PasswordHash, data.Role, data.Phone, data.Location, data.CreatedAt)
	if err != nil {
		var myErr *mysql.MySQLError
		if stderrors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	data.ID = uint64(lastID)
	return data, nil
}

func (s *SQL) Get(ctx context.Context, filter *model.UserFilter) (*model.UserEntity, error) {
	query := getUserBase
	args := make([]any, 0, 2)

	if filter.ID != 0 {
		query += " AND id = ?"
		args = append(args, filter.ID)
	}
	if filter.Email != "" {
		query += " AND email = ?"
		args = append(args, filter.Email)
	}

	var entity model.UserEntity
	if err := s.conn.QueryRowxContext(ctx, query, args...).StructScan(&entity); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// ListByRoleTx returns users of a role in creation order.
func (s *SQL) ListByRoleTx(ctx context.Context, tx *sqlx.Tx, role constant.Role) ([]model.UserEntity, error) {
	users := make([]model.UserEntity, 0)
	if err := tx.SelectContext(ctx, &users, listByRoleQuery, role); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *SQL) UpdateProfile(ctx context.Context, id uint64, req *model.ProfileUpdate) error {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)

	if req.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *req.Phone)
	}
	if req.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *req.Location)
	}
	if req.SetMemberSince {
		sets = append(sets, "member_since = ?")
		args = append(args, req.MemberSince)
	}
	if req.ProfilePicture != nil {
		sets = append(sets, "profile_picture = ?")
		args = append(args, *req.ProfilePicture)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	query := "UPDATE user SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

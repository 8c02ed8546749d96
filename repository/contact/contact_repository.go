package contact

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
)

type SQL struct {
	conn *sqlx.DB
}

type ContactRepository interface {
	Create(ctx context.Context, req *model.ContactEntity) (*model.ContactEntity, error)
	GetByID(ctx context.Context, id uint64) (*model.ContactEntity, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.ContactEntity, error)
	Update(ctx context.Context, id, ownerID uint64, req *model.ContactUpdate) error
	Delete(ctx context.Context, id, ownerID uint64) error
	CountByOwnerTx(ctx context.Context, tx *sqlx.Tx, dayStart, dayEnd time.Time) ([]model.OwnerContactCounts, error)
}

func NewContactRepository(conn *sqlx.DB) ContactRepository {
	return &SQL{conn: conn}
}

const (
	contactColumns     = `id, owner_id, name, phone, remark, status, follow_up_date, called, called_at, created_at, updated_at`
	insertContactQuery = `INSERT INTO contact (owner_id, name, phone, remark, status, follow_up_date, called, called_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	getContactQuery    = `SELECT ` + contactColumns + ` FROM contact WHERE id = ?`
	listContactsQuery  = `SELECT ` + contactColumns + ` FROM contact WHERE owner_id = ? ORDER BY created_at DESC, id DESC`
	deleteContactQuery = `DELETE FROM contact WHERE id = ? AND owner_id = ?`

	countByOwnerQuery = `SELECT owner_id,
	COALESCE(SUM(called = 1 AND called_at >= ? AND called_at < ?), 0) AS called_today,
	COALESCE(SUM(status = ?), 0) AS rejected,
	COALESCE(SUM(status = ?), 0) AS leads,
	COALESCE(SUM(status = ?), 0) AS later
FROM contact
GROUP BY owner_id
ORDER BY owner_id`
)

func (s *SQL) Create(ctx context.Context, data *model.ContactEntity) (*model.ContactEntity, error) {
	result, err := s.conn.ExecContext(ctx, insertContactQuery,
		data.OwnerID, data.Name, data.Phone, data.Remark, data.Status, data.FollowUpDate,
		data.Called, data.CalledAt, data.CreatedAt, data.UpdatedAt)
	if err != nil {
		return nil, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	data.ID = uint64(lastID)
	return data, nil
}

func (s *SQL) GetByID(ctx context.Context, id uint64) (*model.ContactEntity, error) {
	var entity model.ContactEntity
	if err := s.conn.QueryRowxContext(ctx, getContactQuery, id).StructScan(&entity); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (s *SQL) ListByOwner(ctx context.Context, ownerID uint64) ([]model.ContactEntity, error) {
	rows, err := s.conn.QueryxContext(ctx, listContactsQuery, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ContactEntity, 0)
	for rows.Next() {
		var it model.ContactEntity
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update writes only the fields present in req. The owner guard makes a row
// that changed hands between read and write count as missing.
func (s *SQL) Update(ctx context.Context, id, ownerID uint64, req *model.ContactUpdate) error {
	sets := make([]string, 0, 9)
	args := make([]any, 0, 11)

	if req.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *req.Phone)
	}
	if req.Remark != nil {
		sets = append(sets, "remark = ?")
		args = append(args, *req.Remark)
	}
	if req.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *req.Status)
	}
	if req.SetFollowUpDate {
		sets = append(sets, "follow_up_date = ?")
		args = append(args, req.FollowUpDate)
	}
	if req.Called != nil {
		sets = append(sets, "called = ?")
		args = append(args, *req.Called)
	}
	if req.SetCalledAt {
		sets = append(sets, "called_at = ?")
		args = append(args, req.CalledAt)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, req.UpdatedAt)

	query := "UPDATE contact SET " + strings.Join(sets, ", ") + " WHERE id = ? AND owner_id = ?"
	args = append(args, id, ownerID)

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

func (s *SQL) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := s.conn.ExecContext(ctx, deleteContactQuery, id, ownerID)
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

// CountByOwnerTx aggregates every owner's contacts; called_today counts
// contacts marked called within [dayStart, dayEnd).
func (s *SQL) CountByOwnerTx(ctx context.Context, tx *sqlx.Tx, dayStart, dayEnd time.Time) ([]model.OwnerContactCounts, error) {
	counts := make([]model.OwnerContactCounts, 0)
	err := tx.SelectContext(ctx, &counts, countByOwnerQuery,
		dayStart, dayEnd,
		constant.ContactStatusRejected, constant.ContactStatusLead, constant.ContactStatusFuture)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

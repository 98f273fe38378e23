package repository

import (
	"database/sql"
	"fmt"

	"improvemycity/internal/model"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type ComplaintRepository struct {
	db *sql.DB
}

func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

const complaintColumns = `
	c.id, c.owner_id, c.title, c.description, c.category, c.image_url,
	c.lat, c.lng, c.address, c.status, c.admin_comment, c.created_at, c.updated_at,
	u.name, u.email
`

func (r *ComplaintRepository) Create(complaint *model.Complaint) error {
	query := `
		INSERT INTO complaints (id, owner_id, title, description, category, image_url,
			lat, lng, address, status, admin_comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(query,
		complaint.ID,
		complaint.OwnerID,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.ImageURL,
		complaint.Location.Lat,
		complaint.Location.Lng,
		complaint.Location.Address,
		complaint.Status,
		complaint.AdminComment,
		complaint.CreatedAt,
		complaint.UpdatedAt,
	)
	return err
}

func (r *ComplaintRepository) FindByID(id uuid.UUID) (*model.Complaint, error) {
	query := `
		SELECT ` + complaintColumns + `
		FROM complaints c
		JOIN users u ON c.owner_id = u.id
		WHERE c.id = $1
	`
	complaint, err := scanComplaint(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoRows
		}
		return nil, err
	}
	return complaint, nil
}

// FindAll returns every complaint newest first with owner name/email joined.
func (r *ComplaintRepository) FindAll() ([]model.Complaint, error) {
	query := `
		SELECT ` + complaintColumns + `
		FROM complaints c
		JOIN users u ON c.owner_id = u.id
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanComplaints(rows)
}

// FindByOwnerID returns the owner's complaints newest first.
func (r *ComplaintRepository) FindByOwnerID(ownerID uuid.UUID) ([]model.Complaint, error) {
	query := `
		SELECT ` + complaintColumns + `
		FROM complaints c
		JOIN users u ON c.owner_id = u.id
		WHERE c.owner_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanComplaints(rows)
}

// UpdateFields applies whichever of status/adminComment are non-nil. Omitted
// fields keep their stored values.
func (r *ComplaintRepository) UpdateFields(id uuid.UUID, status *model.ComplaintStatus, adminComment *string) error {
	query := `UPDATE complaints SET updated_at = NOW()`
	args := []interface{}{}
	argIndex := 1

	if status != nil {
		query += fmt.Sprintf(", status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}
	if adminComment != nil {
		query += fmt.Sprintf(", admin_comment = $%d", argIndex)
		args = append(args, *adminComment)
		argIndex++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argIndex)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNoRows
	}

	return nil
}

func (r *ComplaintRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNoRows
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComplaint(row rowScanner) (*model.Complaint, error) {
	complaint := &model.Complaint{}
	var imageURL sql.NullString
	var ownerName, ownerEmail sql.NullString

	err := row.Scan(
		&complaint.ID,
		&complaint.OwnerID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&imageURL,
		&complaint.Location.Lat,
		&complaint.Location.Lng,
		&complaint.Location.Address,
		&complaint.Status,
		&complaint.AdminComment,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&ownerName,
		&ownerEmail,
	)
	if err != nil {
		return nil, err
	}

	if imageURL.Valid {
		complaint.ImageURL = &imageURL.String
	}
	if ownerName.Valid {
		complaint.OwnerName = &ownerName.String
	}
	if ownerEmail.Valid {
		complaint.OwnerEmail = &ownerEmail.String
	}

	return complaint, nil
}

func scanComplaints(rows *sql.Rows) ([]model.Complaint, error) {
	var complaints []model.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		complaints = append(complaints, *complaint)
	}
	return complaints, rows.Err()
}

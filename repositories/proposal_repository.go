package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/frbcapl/league-system/models"
	"github.com/lib/pq"
)

var ErrProposalNotFound = errors.New("proposal not found")

// ProposalFilter narrows List results. Nil fields mean "no filter".
type ProposalFilter struct {
	Division  *string
	Status    *models.ProposalStatus
	Completed *bool
	Limit     int
}

type ProposalRepository interface {
	// Create inserts a new proposal and fills ID and CreatedAt.
	Create(ctx context.Context, proposal *models.Proposal) error

	GetByID(ctx context.Context, id int) (*models.Proposal, error)

	// GetByIDForUpdate locks the proposal row for the duration of the
	// surrounding transaction. Status transitions go through this so that
	// concurrent confirms serialize per proposal.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Proposal, error)

	List(ctx context.Context, filter ProposalFilter) ([]*models.Proposal, error)

	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ProposalStatus, statusNote *string) error

	// SetCompleted mirrors the completion flag of the derived match back onto
	// the proposal, for readers of the old API shape.
	SetCompleted(ctx context.Context, exec SQLExecutor, id int, completed bool) error

	// Delete removes a proposal and reports whether a row existed. Unknown
	// ids are not an error so cleanup tooling can re-run safely.
	Delete(ctx context.Context, id int) (bool, error)
}

type postgresProposalRepository struct {
	db *sql.DB
}

func NewPostgresProposalRepository(db *sql.DB) ProposalRepository {
	return &postgresProposalRepository{db: db}
}

const proposalColumns = `id, sender_name, receiver_name, divisions, type, phase, status, date,
       location, notes, status_note, completed, created_at`

func scanProposal(row interface{ Scan(...interface{}) error }) (*models.Proposal, error) {
	p := &models.Proposal{}
	err := row.Scan(
		&p.ID,
		&p.SenderName,
		&p.ReceiverName,
		&p.Divisions,
		&p.Type,
		&p.Phase,
		&p.Status,
		&p.Date,
		&p.Location,
		&p.Notes,
		&p.StatusNote,
		&p.Completed,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresProposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	query := `
		INSERT INTO proposals
			(sender_name, receiver_name, divisions, type, phase, status, date, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		proposal.SenderName,
		proposal.ReceiverName,
		pq.Array(proposal.Divisions),
		proposal.Type,
		proposal.Phase,
		proposal.Status,
		proposal.Date,
		proposal.Location,
		proposal.Notes,
	).Scan(&proposal.ID, &proposal.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert proposal: %w", err)
	}
	return nil
}

func (r *postgresProposalRepository) GetByID(ctx context.Context, id int) (*models.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`

	proposal, err := scanProposal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to scan proposal %d: %w", id, err)
	}
	return proposal, nil
}

func (r *postgresProposalRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1 FOR UPDATE`

	proposal, err := scanProposal(exec.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to lock proposal %d: %w", id, err)
	}
	return proposal, nil
}

func (r *postgresProposalRepository) List(ctx context.Context, filter ProposalFilter) ([]*models.Proposal, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + proposalColumns + ` FROM proposals WHERE TRUE`)

	args := []interface{}{}
	placeholder := 1

	if filter.Division != nil {
		queryBuilder.WriteString(" AND divisions @> ARRAY[$" + strconv.Itoa(placeholder) + "]")
		args = append(args, *filter.Division)
		placeholder++
	}
	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(placeholder))
		args = append(args, *filter.Status)
		placeholder++
	}
	if filter.Completed != nil {
		queryBuilder.WriteString(" AND completed = $" + strconv.Itoa(placeholder))
		args = append(args, *filter.Completed)
		placeholder++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(placeholder))
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query proposals: %w", err)
	}
	defer rows.Close()

	proposals := make([]*models.Proposal, 0)
	for rows.Next() {
		proposal, scanErr := scanProposal(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan proposal row: %w", scanErr)
		}
		proposals = append(proposals, proposal)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during proposal rows iteration: %w", err)
	}
	return proposals, nil
}

func (r *postgresProposalRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ProposalStatus, statusNote *string) error {
	query := `UPDATE proposals SET status = $1, status_note = COALESCE($2, status_note) WHERE id = $3`

	result, err := exec.ExecContext(ctx, query, status, statusNote, id)
	if err != nil {
		return fmt.Errorf("failed to update proposal %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrProposalNotFound)
}

func (r *postgresProposalRepository) SetCompleted(ctx context.Context, exec SQLExecutor, id int, completed bool) error {
	query := `UPDATE proposals SET completed = $1 WHERE id = $2`

	result, err := exec.ExecContext(ctx, query, completed, id)
	if err != nil {
		return fmt.Errorf("failed to set proposal %d completed flag: %w", id, err)
	}
	return checkAffectedRows(result, ErrProposalNotFound)
}

func (r *postgresProposalRepository) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete proposal %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return rowsAffected > 0, nil
}

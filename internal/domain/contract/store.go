package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"laborcontract/internal/domain/validation"
	"laborcontract/internal/platform/crypto"
	"laborcontract/internal/platform/querier"
)

// Store is the Postgres row store. Signature blobs are sealed with the
// configured key before they reach the database.
type Store struct {
	DB     querier.Querier
	Sealer *crypto.Sealer
}

func NewStore(db querier.Querier, sealer *crypto.Sealer) *Store {
	return &Store{DB: db, Sealer: sealer}
}

const contractColumns = `
    id, employer_id, COALESCE(worker_id, ''), COALESCE(folder_id, ''),
    employer_name, worker_name, wage_type, hourly_wage, monthly_wage,
    include_weekly_holiday_pay, is_comprehensive_wage, COALESCE(business_size, ''), comprehensive_wage_details,
    to_char(start_date, 'YYYY-MM-DD'), COALESCE(to_char(end_date, 'YYYY-MM-DD'), ''), no_end_date,
    work_days, work_days_per_week, work_start_time, work_end_time, break_time_minutes,
    work_location, COALESCE(business_name, ''), payment_day, COALESCE(payment_month, ''), payment_end_of_month,
    COALESCE(job_description, ''), status, employer_signature, worker_signature, created_at, updated_at`

const folderColumns = `id, owner_id, name, color, created_at`

func (s *Store) Ping(ctx context.Context) error {
	var one int
	return s.DB.QueryRow(ctx, `SELECT 1`).Scan(&one)
}

func (s *Store) scanContract(row pgx.Row) (Contract, error) {
	var (
		c                      Contract
		wageType, businessSize string
		paymentMonth, status   string
		monthly                *int64
		comprehensive          bool
		details                []byte
		employerSig, workerSig []byte
	)
	if err := row.Scan(
		&c.ID, &c.EmployerID, &c.WorkerID, &c.FolderID,
		&c.EmployerName, &c.WorkerName, &wageType, &c.Wage.HourlyWage, &monthly,
		&c.Wage.IncludeWeeklyHolidayPay, &comprehensive, &businessSize, &details,
		&c.StartDate, &c.EndDate, &c.NoEndDate,
		&c.WorkDays, &c.WorkDaysPerWeek, &c.WorkStartTime, &c.WorkEndTime, &c.BreakTimeMinutes,
		&c.WorkLocation, &c.BusinessName, &c.Payment.Day, &paymentMonth, &c.Payment.EndOfMonth,
		&c.JobDescription, &status, &employerSig, &workerSig, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return Contract{}, err
	}

	if WageType(wageType) == WageMonthly && monthly != nil {
		c.Wage.Monthly = &MonthlyTerms{MonthlyWage: *monthly}
	}
	if comprehensive {
		terms := &ComprehensiveTerms{BusinessSize: BusinessSize(businessSize)}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &terms.Details); err != nil {
				return Contract{}, fmt.Errorf("decode comprehensive wage details: %w", err)
			}
		}
		c.Wage.Comprehensive = terms
	}
	c.Payment.Month = PaymentMonth(paymentMonth)
	c.Status = Status(status)

	var err error
	if c.EmployerSignature, err = s.Sealer.Open(employerSig, c.ID); err != nil {
		return Contract{}, fmt.Errorf("open employer signature: %w", err)
	}
	if c.WorkerSignature, err = s.Sealer.Open(workerSig, c.ID); err != nil {
		return Contract{}, fmt.Errorf("open worker signature: %w", err)
	}
	return c, nil
}

func (s *Store) scanContracts(rows pgx.Rows) ([]Contract, error) {
	defer rows.Close()
	var out []Contract
	for rows.Next() {
		c, err := s.scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// termArgs returns the positional arguments for the contract terms columns,
// in the order used by InsertContract and UpdateTerms.
func termArgs(c Contract) ([]any, error) {
	var monthly *int64
	if c.Wage.Monthly != nil {
		value := c.Wage.Monthly.MonthlyWage
		monthly = &value
	}
	var businessSize *string
	var details []byte
	if c.Wage.Comprehensive != nil {
		size := string(c.Wage.Comprehensive.BusinessSize)
		businessSize = &size
		payload, err := json.Marshal(c.Wage.Comprehensive.Details)
		if err != nil {
			return nil, err
		}
		details = payload
	}
	start, err := time.Parse(validation.DateLayout, c.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	var end *time.Time
	if c.EndDate != "" {
		parsed, err := time.Parse(validation.DateLayout, c.EndDate)
		if err != nil {
			return nil, fmt.Errorf("end date: %w", err)
		}
		end = &parsed
	}
	return []any{
		c.EmployerName, c.WorkerName, string(c.Wage.Type()), c.Wage.HourlyWage, monthly,
		c.Wage.IncludeWeeklyHolidayPay, c.Wage.Comprehensive != nil, businessSize, details,
		start, end, c.NoEndDate,
		c.WorkDays, c.WorkDaysPerWeek, c.WorkStartTime, c.WorkEndTime, c.BreakTimeMinutes,
		c.WorkLocation, nullString(c.BusinessName), c.Payment.Day, nullString(string(c.Payment.Month)), c.Payment.EndOfMonth,
		nullString(c.JobDescription),
	}, nil
}

func nullString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func (s *Store) InsertContract(ctx context.Context, c Contract) (Contract, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	args, err := termArgs(c)
	if err != nil {
		return Contract{}, err
	}
	employerSig, err := s.Sealer.Seal(c.EmployerSignature, c.ID)
	if err != nil {
		return Contract{}, err
	}
	workerSig, err := s.Sealer.Seal(c.WorkerSignature, c.ID)
	if err != nil {
		return Contract{}, err
	}
	args = append(args, c.ID, c.EmployerID, nullString(c.WorkerID), nullString(c.FolderID), string(c.Status), employerSig, workerSig)

	return s.scanContract(s.DB.QueryRow(ctx, `
    INSERT INTO contracts (
      employer_name, worker_name, wage_type, hourly_wage, monthly_wage,
      include_weekly_holiday_pay, is_comprehensive_wage, business_size, comprehensive_wage_details,
      start_date, end_date, no_end_date,
      work_days, work_days_per_week, work_start_time, work_end_time, break_time_minutes,
      work_location, business_name, payment_day, payment_month, payment_end_of_month,
      job_description,
      id, employer_id, worker_id, folder_id, status, employer_signature, worker_signature
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30)
    RETURNING `+contractColumns, args...))
}

func (s *Store) UpdateTerms(ctx context.Context, c Contract) (Contract, error) {
	args, err := termArgs(c)
	if err != nil {
		return Contract{}, err
	}
	args = append(args, c.ID)
	updated, err := s.scanContract(s.DB.QueryRow(ctx, `
    UPDATE contracts SET
      employer_name = $1, worker_name = $2, wage_type = $3, hourly_wage = $4, monthly_wage = $5,
      include_weekly_holiday_pay = $6, is_comprehensive_wage = $7, business_size = $8, comprehensive_wage_details = $9,
      start_date = $10, end_date = $11, no_end_date = $12,
      work_days = $13, work_days_per_week = $14, work_start_time = $15, work_end_time = $16, break_time_minutes = $17,
      work_location = $18, business_name = $19, payment_day = $20, payment_month = $21, payment_end_of_month = $22,
      job_description = $23, updated_at = now()
    WHERE id = $24
    RETURNING `+contractColumns, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contract{}, contractNotFound(c.ID)
	}
	return updated, err
}

func (s *Store) UpdateSigning(ctx context.Context, id string, apply func(Contract) (Contract, error)) (Contract, error) {
	var updated Contract
	err := querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		current, err := s.scanContract(tx.QueryRow(ctx, `
      SELECT `+contractColumns+`
      FROM contracts WHERE id = $1
      FOR UPDATE
    `, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return contractNotFound(id)
		}
		if err != nil {
			return err
		}
		c, err := apply(current)
		if err != nil {
			return err
		}
		employerSig, err := s.Sealer.Seal(c.EmployerSignature, id)
		if err != nil {
			return err
		}
		workerSig, err := s.Sealer.Seal(c.WorkerSignature, id)
		if err != nil {
			return err
		}
		updated, err = s.scanContract(tx.QueryRow(ctx, `
      UPDATE contracts
      SET employer_signature = $2, worker_signature = $3, worker_id = $4, status = $5, updated_at = now()
      WHERE id = $1
      RETURNING `+contractColumns, id, employerSig, workerSig, nullString(c.WorkerID), string(c.Status)))
		return err
	})
	if err != nil {
		return Contract{}, err
	}
	return updated, nil
}

// UpdateStatus moves the contract only if it is still in from.
func (s *Store) UpdateStatus(ctx context.Context, id string, from, to Status) (Contract, error) {
	updated, err := s.scanContract(s.DB.QueryRow(ctx, `
    UPDATE contracts SET status = $3, updated_at = now()
    WHERE id = $1 AND status = $2
    RETURNING `+contractColumns, id, string(from), string(to)))
	if !errors.Is(err, pgx.ErrNoRows) {
		return updated, err
	}
	current, err := s.GetContract(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	return Contract{}, &TransitionError{From: current.Status, To: to}
}

func (s *Store) GetContract(ctx context.Context, id string) (Contract, error) {
	c, err := s.scanContract(s.DB.QueryRow(ctx, `
    SELECT `+contractColumns+`
    FROM contracts
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contract{}, contractNotFound(id)
	}
	return c, err
}

func (s *Store) ListByStatus(ctx context.Context, status Status) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+contractColumns+`
    FROM contracts
    WHERE status = $1
    ORDER BY created_at DESC, id
  `, string(status))
	if err != nil {
		return nil, err
	}
	return s.scanContracts(rows)
}

func (s *Store) ListByWorker(ctx context.Context, workerID string) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+contractColumns+`
    FROM contracts
    WHERE worker_id = $1
    ORDER BY created_at DESC, id
  `, workerID)
	if err != nil {
		return nil, err
	}
	return s.scanContracts(rows)
}

func (s *Store) ListByEmployer(ctx context.Context, employerID string, status Status, limit, offset int) ([]Contract, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM contracts
    WHERE employer_id = $1 AND ($2 = '' OR status = $2)
  `, employerID, string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.DB.Query(ctx, `
    SELECT `+contractColumns+`
    FROM contracts
    WHERE employer_id = $1 AND ($2 = '' OR status = $2)
    ORDER BY created_at DESC, id
    LIMIT $3 OFFSET $4
  `, employerID, string(status), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.scanContracts(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// DeleteContracts removes the whole id set or nothing.
func (s *Store) DeleteContracts(ctx context.Context, workerID string, ids []string) (int, error) {
	var removed int
	err := querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
      DELETE FROM contracts
      WHERE worker_id = $1 AND id = ANY($2)
    `, workerID, ids)
		if err != nil {
			return err
		}
		if int(tag.RowsAffected()) != len(ids) {
			return &NotFoundError{Resource: "contract", ID: fmt.Sprintf("set of %d", len(ids))}
		}
		removed = int(tag.RowsAffected())
		return nil
	})
	return removed, err
}

// SetFolder files the id set under folderID, or unfiles it when folderID is
// empty.
func (s *Store) SetFolder(ctx context.Context, workerID string, ids []string, folderID string) (int, error) {
	var moved int
	err := querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		if folderID != "" {
			var exists bool
			if err := tx.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM contract_folders WHERE id = $1 AND owner_id = $2)
      `, folderID, workerID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return folderNotFound(folderID)
			}
		}
		tag, err := tx.Exec(ctx, `
      UPDATE contracts SET folder_id = $3, updated_at = now()
      WHERE worker_id = $1 AND id = ANY($2)
    `, workerID, ids, nullString(folderID))
		if err != nil {
			return err
		}
		if int(tag.RowsAffected()) != len(ids) {
			return &NotFoundError{Resource: "contract", ID: fmt.Sprintf("set of %d", len(ids))}
		}
		moved = int(tag.RowsAffected())
		return nil
	})
	return moved, err
}

func scanFolder(row pgx.Row) (Folder, error) {
	var f Folder
	var color string
	if err := row.Scan(&f.ID, &f.OwnerID, &f.Name, &color, &f.CreatedAt); err != nil {
		return Folder{}, err
	}
	f.Color = FolderColor(color)
	return f, nil
}

func (s *Store) ListFolders(ctx context.Context, ownerID string) ([]Folder, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+folderColumns+`
    FROM contract_folders
    WHERE owner_id = $1
    ORDER BY created_at, id
  `, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (s *Store) GetFolder(ctx context.Context, ownerID, folderID string) (Folder, error) {
	f, err := scanFolder(s.DB.QueryRow(ctx, `
    SELECT `+folderColumns+`
    FROM contract_folders
    WHERE id = $1 AND owner_id = $2
  `, folderID, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Folder{}, folderNotFound(folderID)
	}
	return f, err
}

func (s *Store) InsertFolder(ctx context.Context, f Folder) (Folder, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return scanFolder(s.DB.QueryRow(ctx, `
    INSERT INTO contract_folders (id, owner_id, name, color)
    VALUES ($1,$2,$3,$4)
    RETURNING `+folderColumns, f.ID, f.OwnerID, f.Name, string(f.Color)))
}

func (s *Store) UpdateFolder(ctx context.Context, f Folder) (Folder, error) {
	updated, err := scanFolder(s.DB.QueryRow(ctx, `
    UPDATE contract_folders SET name = $3, color = $4
    WHERE id = $1 AND owner_id = $2
    RETURNING `+folderColumns, f.ID, f.OwnerID, f.Name, string(f.Color)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Folder{}, folderNotFound(f.ID)
	}
	return updated, err
}

// DeleteFolder unfiles every contract in the folder and removes it in one
// transaction, returning the number of contracts detached.
func (s *Store) DeleteFolder(ctx context.Context, ownerID, folderID string) (int, error) {
	var detached int
	err := querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		var id string
		if err := tx.QueryRow(ctx, `
      SELECT id FROM contract_folders
      WHERE id = $1 AND owner_id = $2
      FOR UPDATE
    `, folderID, ownerID).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return folderNotFound(folderID)
			}
			return err
		}
		tag, err := tx.Exec(ctx, `
      UPDATE contracts SET folder_id = NULL, updated_at = now()
      WHERE folder_id = $1
    `, folderID)
		if err != nil {
			return err
		}
		detached = int(tag.RowsAffected())
		_, err = tx.Exec(ctx, `DELETE FROM contract_folders WHERE id = $1`, folderID)
		return err
	})
	return detached, err
}

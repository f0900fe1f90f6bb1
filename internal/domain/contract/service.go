package contract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"laborcontract/internal/domain/audit"
	"laborcontract/internal/domain/validation"
	"laborcontract/internal/domain/wage"
)

type Service struct {
	Store StoreAPI
	Wages wage.Schedule
	Audit audit.Recorder
}

func NewService(store StoreAPI, wages wage.Schedule, recorder audit.Recorder) *Service {
	if wages == nil {
		wages = wage.DefaultTable()
	}
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{Store: store, Wages: wages, Audit: recorder}
}

func (s *Service) record(ctx context.Context, actorID, action, entityType, entityID string, before, after any) {
	if err := s.Audit.Record(ctx, actorID, action, entityType, entityID, before, after); err != nil {
		zap.L().Warn("audit "+action+" failed", zap.String("entity_id", entityID), zap.Error(err))
	}
}

// checkCompliance compares the hourly wage with the floor in force for the
// contract's start year.
func (s *Service) checkCompliance(c Contract) error {
	base := s.Wages.BaseFor(c.StartYear())
	return wage.CheckCompliance(c.Wage.HourlyWage, base.Hourly, c.Wage.IncludeWeeklyHolidayPay)
}

func (s *Service) prepare(d Draft) (Contract, error) {
	c, err := FromDraft(d)
	if err != nil {
		return Contract{}, err
	}
	if err := s.checkCompliance(c); err != nil {
		return Contract{}, err
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, employerID string, d Draft) (Contract, error) {
	c, err := s.prepare(d)
	if err != nil {
		return Contract{}, err
	}
	c.EmployerID = employerID
	c.Status = StatusDraft
	created, err := s.Store.InsertContract(ctx, c)
	if err != nil {
		return Contract{}, storeErr("insert contract", err)
	}
	s.record(ctx, employerID, actionCreate, audit.EntityContract, created.ID, nil, created.ToDraft())
	return created, nil
}

// ownedBy loads a contract and hides it from anyone but its employer.
func (s *Service) ownedBy(ctx context.Context, employerID, id string) (Contract, error) {
	c, err := s.Store.GetContract(ctx, id)
	if err != nil {
		return Contract{}, storeErr("get contract", err)
	}
	if c.EmployerID != employerID {
		return Contract{}, contractNotFound(id)
	}
	return c, nil
}

// Owned returns a contract only to the employer who issued it.
func (s *Service) Owned(ctx context.Context, employerID, id string) (Contract, error) {
	return s.ownedBy(ctx, employerID, id)
}

// Update replaces the terms of a draft contract.
func (s *Service) Update(ctx context.Context, employerID, id string, d Draft) (Contract, error) {
	next, err := s.prepare(d)
	if err != nil {
		return Contract{}, err
	}
	current, err := s.ownedBy(ctx, employerID, id)
	if err != nil {
		return Contract{}, err
	}
	if current.Status != StatusDraft {
		return Contract{}, ErrNotEditable
	}
	next.ID = id
	updated, err := s.Store.UpdateTerms(ctx, next)
	if err != nil {
		return Contract{}, storeErr("update contract", err)
	}
	s.record(ctx, employerID, actionUpdate, audit.EntityContract, id, current.ToDraft(), updated.ToDraft())
	return updated, nil
}

// Get returns a contract to its employer, its assigned worker, or anyone
// holding the link while it awaits a signature.
func (s *Service) Get(ctx context.Context, userID, id string) (Contract, error) {
	c, err := s.Store.GetContract(ctx, id)
	if err != nil {
		return Contract{}, storeErr("get contract", err)
	}
	if c.EmployerID == userID || (c.WorkerID != "" && c.WorkerID == userID) || c.Status == StatusPending {
		return c, nil
	}
	return Contract{}, contractNotFound(id)
}

func (s *Service) ListIssued(ctx context.Context, employerID, status string, limit, offset int) (ListResult, error) {
	var filter Status
	if strings.TrimSpace(status) != "" {
		parsed, ok := ParseStatus(status)
		if !ok {
			return ListResult{}, validation.Single("status", "must be one of draft, pending, signed, completed")
		}
		filter = parsed
	}
	items, total, err := s.Store.ListByEmployer(ctx, employerID, filter, limit, offset)
	if err != nil {
		return ListResult{}, storeErr("list contracts", err)
	}
	return ListResult{Items: Records(items), Total: total}, nil
}

// Share sends a draft to the worker for signature.
func (s *Service) Share(ctx context.Context, employerID, id string) (Contract, error) {
	return s.Transition(ctx, employerID, id, StatusPending)
}

func (s *Service) Transition(ctx context.Context, employerID, id string, to Status) (Contract, error) {
	current, err := s.ownedBy(ctx, employerID, id)
	if err != nil {
		return Contract{}, err
	}
	if err := checkTransition(current.Status, to); err != nil {
		return Contract{}, err
	}
	updated, err := s.Store.UpdateStatus(ctx, id, current.Status, to)
	if err != nil {
		return Contract{}, storeErr("update status", err)
	}
	action := actionStatus
	if to == StatusPending {
		action = actionShare
	}
	s.record(ctx, employerID, action, audit.EntityContract, id,
		map[string]Status{"status": current.Status}, map[string]Status{"status": updated.Status})
	return updated, nil
}

// RecordSignature stores a party's signature. A worker signature claims the
// contract for that worker. Once both parties have signed a shared contract
// it is completed; a worker signature alone moves it to signed.
func (s *Service) RecordSignature(ctx context.Context, userID string, party Party, id, signature string) (Contract, error) {
	if strings.TrimSpace(signature) == "" {
		return Contract{}, validation.Single("signature", "is required")
	}
	var (
		from     Status
		applyErr error
	)
	updated, err := s.Store.UpdateSigning(ctx, id, func(current Contract) (Contract, error) {
		from = current.Status
		next, err := applySignature(current, userID, party, signature)
		applyErr = err
		return next, err
	})
	if applyErr != nil {
		return Contract{}, applyErr
	}
	if err != nil {
		return Contract{}, storeErr("record signature", err)
	}
	s.record(ctx, userID, actionSign, audit.EntityContract, id,
		map[string]any{"status": from},
		map[string]any{"status": updated.Status, "party": party})
	return updated, nil
}

// applySignature sets one party's signature on current and derives the
// status the contract moves to.
func applySignature(current Contract, userID string, party Party, signature string) (Contract, error) {
	id := current.ID
	next := current
	switch party {
	case PartyEmployer:
		if current.EmployerID != userID {
			return Contract{}, contractNotFound(id)
		}
		if current.Status == StatusCompleted {
			return Contract{}, &TransitionError{From: current.Status, To: current.Status}
		}
		next.EmployerSignature = signature
	case PartyWorker:
		if current.WorkerID != "" && current.WorkerID != userID {
			return Contract{}, contractNotFound(id)
		}
		if current.Status != StatusPending && current.Status != StatusSigned {
			if current.WorkerID == "" {
				return Contract{}, contractNotFound(id)
			}
			return Contract{}, &TransitionError{From: current.Status, To: StatusSigned}
		}
		next.WorkerSignature = signature
		next.WorkerID = userID
	default:
		return Contract{}, validation.Single("party", "must be employer or worker")
	}

	if next.Status == StatusPending || next.Status == StatusSigned {
		target := next.Status
		switch {
		case next.FullySigned():
			target = StatusCompleted
		case next.WorkerSignature != "":
			target = StatusSigned
		}
		if target != next.Status {
			if err := checkTransition(next.Status, target); err != nil {
				return Contract{}, err
			}
			next.Status = target
		}
	}
	return next, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// selectForBulk loads the worker's contracts for ids into a Selection. Every
// id must exist, belong to the worker and be completed.
func (s *Service) selectForBulk(ctx context.Context, workerID string, ids []string) (*Selection, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, validation.Single("ids", "must include at least one contract id")
	}
	selection := NewSelection()
	v := validation.New()
	for _, id := range ids {
		c, err := s.Store.GetContract(ctx, id)
		if err != nil {
			return nil, storeErr("get contract", err)
		}
		if c.WorkerID != workerID {
			return nil, contractNotFound(id)
		}
		if !selection.Select(c) {
			v.Add("ids", fmt.Sprintf("contract %s is %s; only completed contracts can be moved or deleted", id, c.Status))
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return selection, nil
}

// BulkDelete removes the worker's completed contracts in one transaction and
// returns how many were removed.
func (s *Service) BulkDelete(ctx context.Context, workerID string, ids []string) (int, error) {
	selection, err := s.selectForBulk(ctx, workerID, ids)
	if err != nil {
		return 0, err
	}
	selected := selection.IDs()
	removed, err := s.Store.DeleteContracts(ctx, workerID, selected)
	if err != nil {
		return 0, storeErr("delete contracts", err)
	}
	s.record(ctx, workerID, actionBulkDelete, audit.EntityContract, strings.Join(selected, ","), nil, map[string]int{"count": removed})
	return removed, nil
}

// BulkMove files the worker's completed contracts under folderID, or back to
// the unfiled list when folderID is nil.
func (s *Service) BulkMove(ctx context.Context, workerID string, ids []string, folderID *string) (MoveResult, error) {
	selection, err := s.selectForBulk(ctx, workerID, ids)
	if err != nil {
		return MoveResult{}, err
	}
	destination := AllContractsLabel
	target := ""
	if folderID != nil && strings.TrimSpace(*folderID) != "" {
		target = strings.TrimSpace(*folderID)
		folder, err := s.Store.GetFolder(ctx, workerID, target)
		if err != nil {
			return MoveResult{}, storeErr("get folder", err)
		}
		destination = folder.Name
	}
	selected := selection.IDs()
	moved, err := s.Store.SetFolder(ctx, workerID, selected, target)
	if err != nil {
		return MoveResult{}, storeErr("move contracts", err)
	}
	s.record(ctx, workerID, actionBulkMove, audit.EntityContract, strings.Join(selected, ","), nil,
		map[string]any{"count": moved, "folderId": target})
	return MoveResult{
		Count:       moved,
		FolderID:    target,
		Destination: destination,
		Message:     fmt.Sprintf("Moved %d contract(s) to '%s'", moved, destination),
	}, nil
}

// Dashboard builds the worker's view: every contract awaiting a signature
// plus the worker's own, de-duplicated and filtered for the view.
func (s *Service) Dashboard(ctx context.Context, workerID string, view View) (Dashboard, error) {
	var (
		active            *Folder
		pending, assigned []Contract
		folders           []Folder
	)
	g, gctx := errgroup.WithContext(ctx)
	if !view.IsUnfiled() {
		g.Go(func() error {
			folder, err := s.Store.GetFolder(gctx, workerID, view.FolderID)
			if err != nil {
				return storeErr("get folder", err)
			}
			active = &folder
			return nil
		})
	}
	g.Go(func() error {
		var err error
		pending, err = s.Store.ListByStatus(gctx, StatusPending)
		return storeErr("list pending contracts", err)
	})
	g.Go(func() error {
		var err error
		assigned, err = s.Store.ListByWorker(gctx, workerID)
		return storeErr("list worker contracts", err)
	})
	g.Go(func() error {
		var err error
		folders, err = s.Store.ListFolders(gctx, workerID)
		return storeErr("list folders", err)
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	visible := Filter(MergeUnique(pending, assigned), view)
	out := Dashboard{
		View:      view,
		Pending:   []Record{},
		Completed: []Record{},
		Folders:   folders,
		Folder:    active,
		contracts: visible,
	}
	if out.Folders == nil {
		out.Folders = []Folder{}
	}
	for _, c := range visible {
		if c.Status == StatusCompleted {
			out.Completed = append(out.Completed, c.ToRecord())
		} else {
			out.Pending = append(out.Pending, c.ToRecord())
		}
	}
	return out, nil
}

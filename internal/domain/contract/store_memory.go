package contract

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps contracts and folders in process. It backs the
// STORE_DRIVER=memory mode and service tests.
type MemoryStore struct {
	mu        sync.RWMutex
	contracts map[string]Contract
	folders   map[string]Folder
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		contracts: make(map[string]Contract),
		folders:   make(map[string]Folder),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

// tick keeps creation order strictly increasing even within one clock tick.
func (m *MemoryStore) tick(last time.Time) time.Time {
	now := m.now()
	if !now.After(last) {
		now = last.Add(time.Microsecond)
	}
	return now
}

func (m *MemoryStore) latestCreated() time.Time {
	var latest time.Time
	for _, c := range m.contracts {
		if c.CreatedAt.After(latest) {
			latest = c.CreatedAt
		}
	}
	return latest
}

func (m *MemoryStore) InsertContract(_ context.Context, c Contract) (Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := m.contracts[c.ID]; exists {
		return Contract{}, fmt.Errorf("contract %s already exists", c.ID)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.tick(m.latestCreated())
	}
	c.UpdatedAt = c.CreatedAt
	c.WorkDays = append([]string(nil), c.WorkDays...)
	m.contracts[c.ID] = c
	return c, nil
}

func (m *MemoryStore) UpdateTerms(_ context.Context, c Contract) (Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.contracts[c.ID]
	if !ok {
		return Contract{}, contractNotFound(c.ID)
	}
	c.EmployerID = current.EmployerID
	c.WorkerID = current.WorkerID
	c.FolderID = current.FolderID
	c.Status = current.Status
	c.EmployerSignature = current.EmployerSignature
	c.WorkerSignature = current.WorkerSignature
	c.CreatedAt = current.CreatedAt
	c.UpdatedAt = m.now()
	c.WorkDays = append([]string(nil), c.WorkDays...)
	m.contracts[c.ID] = c
	return c, nil
}

func (m *MemoryStore) UpdateSigning(_ context.Context, id string, apply func(Contract) (Contract, error)) (Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.contracts[id]
	if !ok {
		return Contract{}, contractNotFound(id)
	}
	current.WorkDays = append([]string(nil), current.WorkDays...)
	c, err := apply(current)
	if err != nil {
		return Contract{}, err
	}
	current.EmployerSignature = c.EmployerSignature
	current.WorkerSignature = c.WorkerSignature
	current.WorkerID = c.WorkerID
	current.Status = c.Status
	current.UpdatedAt = m.now()
	m.contracts[id] = current
	return current, nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id string, from, to Status) (Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.contracts[id]
	if !ok {
		return Contract{}, contractNotFound(id)
	}
	if current.Status != from {
		return Contract{}, &TransitionError{From: current.Status, To: to}
	}
	current.Status = to
	current.UpdatedAt = m.now()
	m.contracts[id] = current
	return current, nil
}

func (m *MemoryStore) GetContract(_ context.Context, id string) (Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.contracts[id]
	if !ok {
		return Contract{}, contractNotFound(id)
	}
	return c, nil
}

func (m *MemoryStore) collect(match func(Contract) bool) []Contract {
	var out []Contract
	for _, c := range m.contracts {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *MemoryStore) ListByStatus(_ context.Context, status Status) ([]Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(c Contract) bool { return c.Status == status }), nil
}

func (m *MemoryStore) ListByWorker(_ context.Context, workerID string) ([]Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(c Contract) bool { return c.WorkerID == workerID }), nil
}

func (m *MemoryStore) ListByEmployer(_ context.Context, employerID string, status Status, limit, offset int) ([]Contract, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.collect(func(c Contract) bool {
		return c.EmployerID == employerID && (status == "" || c.Status == status)
	})
	total := len(all)
	if offset >= total {
		return []Contract{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (m *MemoryStore) DeleteContracts(_ context.Context, workerID string, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		c, ok := m.contracts[id]
		if !ok || c.WorkerID != workerID {
			return 0, contractNotFound(id)
		}
	}
	for _, id := range ids {
		delete(m.contracts, id)
	}
	return len(ids), nil
}

func (m *MemoryStore) SetFolder(_ context.Context, workerID string, ids []string, folderID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if folderID != "" {
		if f, ok := m.folders[folderID]; !ok || f.OwnerID != workerID {
			return 0, folderNotFound(folderID)
		}
	}
	for _, id := range ids {
		c, ok := m.contracts[id]
		if !ok || c.WorkerID != workerID {
			return 0, contractNotFound(id)
		}
	}
	now := m.now()
	for _, id := range ids {
		c := m.contracts[id]
		c.FolderID = folderID
		c.UpdatedAt = now
		m.contracts[id] = c
	}
	return len(ids), nil
}

func (m *MemoryStore) ListFolders(_ context.Context, ownerID string) ([]Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Folder
	for _, f := range m.folders {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) GetFolder(_ context.Context, ownerID, folderID string) (Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.folders[folderID]
	if !ok || f.OwnerID != ownerID {
		return Folder{}, folderNotFound(folderID)
	}
	return f, nil
}

func (m *MemoryStore) InsertFolder(_ context.Context, f Folder) (Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		var latest time.Time
		for _, existing := range m.folders {
			if existing.CreatedAt.After(latest) {
				latest = existing.CreatedAt
			}
		}
		f.CreatedAt = m.tick(latest)
	}
	m.folders[f.ID] = f
	return f, nil
}

func (m *MemoryStore) UpdateFolder(_ context.Context, f Folder) (Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.folders[f.ID]
	if !ok || current.OwnerID != f.OwnerID {
		return Folder{}, folderNotFound(f.ID)
	}
	current.Name = f.Name
	current.Color = f.Color
	m.folders[f.ID] = current
	return current, nil
}

func (m *MemoryStore) DeleteFolder(_ context.Context, ownerID, folderID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.folders[folderID]
	if !ok || f.OwnerID != ownerID {
		return 0, folderNotFound(folderID)
	}
	detached := 0
	now := m.now()
	for id, c := range m.contracts {
		if c.FolderID == folderID {
			c.FolderID = ""
			c.UpdatedAt = now
			m.contracts[id] = c
			detached++
		}
	}
	delete(m.folders, folderID)
	return detached, nil
}

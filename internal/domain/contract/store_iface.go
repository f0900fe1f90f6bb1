package contract

import "context"

// StoreAPI is the row store behind the service. Lists are ordered by
// creation time, newest first.
type StoreAPI interface {
	Ping(ctx context.Context) error

	InsertContract(ctx context.Context, c Contract) (Contract, error)
	UpdateTerms(ctx context.Context, c Contract) (Contract, error)
	// UpdateSigning locks the contract, passes it to apply and stores the
	// signatures, worker and status apply returns. An error from apply
	// aborts the update and is returned unchanged.
	UpdateSigning(ctx context.Context, id string, apply func(current Contract) (Contract, error)) (Contract, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) (Contract, error)
	GetContract(ctx context.Context, id string) (Contract, error)
	ListByStatus(ctx context.Context, status Status) ([]Contract, error)
	ListByWorker(ctx context.Context, workerID string) ([]Contract, error)
	ListByEmployer(ctx context.Context, employerID string, status Status, limit, offset int) ([]Contract, int, error)
	DeleteContracts(ctx context.Context, workerID string, ids []string) (int, error)
	SetFolder(ctx context.Context, workerID string, ids []string, folderID string) (int, error)

	ListFolders(ctx context.Context, ownerID string) ([]Folder, error)
	GetFolder(ctx context.Context, ownerID, folderID string) (Folder, error)
	InsertFolder(ctx context.Context, f Folder) (Folder, error)
	UpdateFolder(ctx context.Context, f Folder) (Folder, error)
	DeleteFolder(ctx context.Context, ownerID, folderID string) (int, error)
}

package contract

import (
	"context"
	"strings"
	"unicode/utf8"

	"laborcontract/internal/domain/audit"
	"laborcontract/internal/domain/validation"
)

type FolderInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (in FolderInput) validate() (string, FolderColor, error) {
	v := validation.New()
	name := strings.TrimSpace(in.Name)
	v.Required("name", name, "is required")
	if utf8.RuneCountInString(name) > MaxFolderNameLength {
		v.Add("name", "must be at most 50 characters")
	}
	color := FolderColor(strings.ToLower(strings.TrimSpace(in.Color)))
	if color == "" {
		color = ColorGray
	}
	v.Enum("color", string(color), folderColorValues, "must be one of gray, blue, green, yellow, purple, red")
	if err := v.Err(); err != nil {
		return "", "", err
	}
	return name, color, nil
}

func (s *Service) ListFolders(ctx context.Context, ownerID string) ([]Folder, error) {
	folders, err := s.Store.ListFolders(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list folders", err)
	}
	if folders == nil {
		folders = []Folder{}
	}
	return folders, nil
}

func (s *Service) CreateFolder(ctx context.Context, ownerID string, in FolderInput) (Folder, error) {
	name, color, err := in.validate()
	if err != nil {
		return Folder{}, err
	}
	folder, err := s.Store.InsertFolder(ctx, Folder{OwnerID: ownerID, Name: name, Color: color})
	if err != nil {
		return Folder{}, storeErr("insert folder", err)
	}
	s.record(ctx, ownerID, actionFolderCreate, audit.EntityFolder, folder.ID, nil, folder)
	return folder, nil
}

func (s *Service) UpdateFolder(ctx context.Context, ownerID, folderID string, in FolderInput) (Folder, error) {
	name, color, err := in.validate()
	if err != nil {
		return Folder{}, err
	}
	folder, err := s.Store.UpdateFolder(ctx, Folder{ID: folderID, OwnerID: ownerID, Name: name, Color: color})
	if err != nil {
		return Folder{}, storeErr("update folder", err)
	}
	s.record(ctx, ownerID, actionFolderUpdate, audit.EntityFolder, folder.ID, nil, folder)
	return folder, nil
}

// DeleteFolder removes the folder and unfiles its contracts. When the folder
// was the active view the caller is sent back to the unfiled list.
func (s *Service) DeleteFolder(ctx context.Context, ownerID, folderID string, active View) (FolderDeleteResult, error) {
	detached, err := s.Store.DeleteFolder(ctx, ownerID, folderID)
	if err != nil {
		return FolderDeleteResult{}, storeErr("delete folder", err)
	}
	next := active
	if active.FolderID == folderID {
		next = Unfiled()
	}
	s.record(ctx, ownerID, actionFolderDelete, audit.EntityFolder, folderID, nil, map[string]int{"detached": detached})
	return FolderDeleteResult{Detached: detached, NextView: next}, nil
}

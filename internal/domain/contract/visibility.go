package contract

import "sort"

// View is the worker dashboard context: the unfiled list, or one folder.
type View struct {
	FolderID string `json:"folderId,omitempty"`
}

func Unfiled() View {
	return View{}
}

func InFolder(folderID string) View {
	return View{FolderID: folderID}
}

func (v View) IsUnfiled() bool {
	return v.FolderID == ""
}

// VisibleInUnfiled: pending contracts always show in the unfiled list, even
// when tagged with a folder.
func VisibleInUnfiled(c Contract) bool {
	return c.Status == StatusPending || c.FolderID == ""
}

// VisibleInFolder: only completed contracts show inside a folder.
func VisibleInFolder(c Contract, folderID string) bool {
	return folderID != "" && c.FolderID == folderID && c.Status == StatusCompleted
}

func (v View) Includes(c Contract) bool {
	if v.IsUnfiled() {
		return VisibleInUnfiled(c)
	}
	return VisibleInFolder(c, v.FolderID)
}

func Filter(contracts []Contract, view View) []Contract {
	out := make([]Contract, 0, len(contracts))
	for _, c := range contracts {
		if view.Includes(c) {
			out = append(out, c)
		}
	}
	return out
}

// MergeUnique concatenates the lists, keeping the first occurrence of each id.
func MergeUnique(lists ...[]Contract) []Contract {
	seen := make(map[string]struct{})
	var out []Contract
	for _, list := range lists {
		for _, c := range list {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func Selectable(c Contract) bool {
	return c.Status == StatusCompleted
}

// Selection is the set of contract ids picked for a bulk operation. Only
// completed contracts can be selected.
type Selection struct {
	ids map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Select adds c. Selecting twice is a no-op. It reports whether c is in the
// selection afterwards.
func (s *Selection) Select(c Contract) bool {
	if !Selectable(c) {
		return false
	}
	s.ids[c.ID] = struct{}{}
	return true
}

func (s *Selection) Deselect(id string) {
	delete(s.ids, id)
}

func (s *Selection) Toggle(c Contract) {
	if s.Has(c.ID) {
		s.Deselect(c.ID)
		return
	}
	s.Select(c)
}

// ToggleAll selects every selectable contract in visible, or clears the
// selection when all of them are already selected.
func (s *Selection) ToggleAll(visible []Contract) {
	selectable := 0
	allSelected := true
	for _, c := range visible {
		if !Selectable(c) {
			continue
		}
		selectable++
		if !s.Has(c.ID) {
			allSelected = false
		}
	}
	if selectable > 0 && allSelected && selectable == s.Len() {
		s.Clear()
		return
	}
	s.Clear()
	for _, c := range visible {
		s.Select(c)
	}
}

func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

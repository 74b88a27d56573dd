package ledger

import (
	"fmt"

	"github.com/theirongolddev/fsplan/internal/log"
	"github.com/theirongolddev/fsplan/internal/model"
)

// CreateCustomGroup appends a custom group with the default item set.
// It fails with ErrGroupLimitReached once MaxCustomGroups are live.
func (l *Ledger) CreateCustomGroup() (Result, error) {
	if l.customCount >= model.MaxCustomGroups {
		return Result{}, ErrGroupLimitReached
	}
	g := model.NewCustomGroup(l.nextSeq)
	l.nextSeq++
	l.customCount++
	l.groups = append(l.groups, g)

	l.logger.Debug("custom group created", log.FieldGroupID, g.ID)
	r := l.settle("create_custom_group", false)
	r.GroupID = g.ID
	return r, nil
}

// DeleteCustomGroup removes a custom group and its budget from the total.
func (l *Ledger) DeleteCustomGroup(groupID string) (Result, error) {
	gi, err := l.customGroup(groupID)
	if err != nil {
		return Result{}, err
	}
	l.groups = append(l.groups[:gi], l.groups[gi+1:]...)
	l.customCount--

	l.logger.Debug("custom group deleted", log.FieldGroupID, groupID)
	return l.settle("delete_custom_group", false), nil
}

// ResizeGroup sets a custom group's item count, clamped to
// [MinItemsPerGroup, MaxItemsPerGroup]. Shrinking discards the trailing
// items; growing appends default items.
func (l *Ledger) ResizeGroup(groupID string, n int) (Result, error) {
	gi, err := l.customGroup(groupID)
	if err != nil {
		return Result{}, err
	}
	clamped := min(max(n, model.MinItemsPerGroup), model.MaxItemsPerGroup)

	g := &l.groups[gi]
	list, ok := g.Items.(*model.ListStore)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrNotOrderedGroup, groupID)
	}
	list.Resize(clamped, func(i int) model.Item {
		return model.NewDefaultItem(model.CustomItemName(i))
	})
	g.NumItems = clamped

	l.logger.Debug("group resized", log.FieldGroupID, groupID, "num_items", clamped)
	r := l.settle("resize_group", false)
	r.Clamped = clamped != n
	return r, nil
}

// RenameGroup renames a custom group. Blank names are rejected and leave
// the group unchanged.
func (l *Ledger) RenameGroup(groupID, name string) (Result, error) {
	gi, err := l.customGroup(groupID)
	if err != nil {
		return Result{}, err
	}
	n, err := trimName(name)
	if err != nil {
		return Result{}, err
	}
	l.groups[gi].Name = n
	return Result{Total: l.total, Limit: l.limit}, nil
}

// ToggleExpanded flips a group's expanded flag and returns the new value.
func (l *Ledger) ToggleExpanded(groupID string) (bool, error) {
	gi, err := l.find(groupID)
	if err != nil {
		return false, err
	}
	l.groups[gi].Expanded = !l.groups[gi].Expanded
	return l.groups[gi].Expanded, nil
}

func (l *Ledger) customGroup(groupID string) (int, error) {
	gi, err := l.find(groupID)
	if err != nil {
		return -1, err
	}
	if !l.groups[gi].IsCustom() {
		return -1, fmt.Errorf("%w: %q", ErrNotCustomGroup, groupID)
	}
	return gi, nil
}

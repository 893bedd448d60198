package editor

import "slices"

// EntityKind identifies what an EditTarget points at.
type EntityKind string

const (
	KindSegment EntityKind = "segment"
	KindWakeup  EntityKind = "wakeup"
)

// EditTarget is the entity currently open in an editor form.
type EditTarget struct {
	Stage string
	Kind  EntityKind
	ID    string
}

// ViewState is UI-adjacent state: which stages are expanded and what is being edited.
// It is owned by the caller and never part of an exported document.
type ViewState struct {
	expanded []string
	editing  *EditTarget
}

// IsExpanded reports whether the stage is expanded.
func (v *ViewState) IsExpanded(name string) bool {
	return slices.Contains(v.expanded, name)
}

// Expanded returns the expanded stage names in the order they were opened.
func (v *ViewState) Expanded() []string {
	return slices.Clone(v.expanded)
}

func (v *ViewState) Expand(name string) {
	if !v.IsExpanded(name) {
		v.expanded = append(v.expanded, name)
	}
}

func (v *ViewState) Collapse(name string) {
	v.expanded = slices.DeleteFunc(v.expanded, func(n string) bool { return n == name })
}

// ToggleStage flips the stage's membership in the expanded set.
func (v *ViewState) ToggleStage(name string) {
	if v.IsExpanded(name) {
		v.Collapse(name)
	} else {
		v.Expand(name)
	}
}

// BeginEdit makes target the entity being edited.
func (v *ViewState) BeginEdit(target EditTarget) {
	v.editing = &target
}

// EndEdit clears the edit target.
func (v *ViewState) EndEdit() {
	v.editing = nil
}

// Editing returns the current edit target, if any.
func (v *ViewState) Editing() (EditTarget, bool) {
	if v.editing == nil {
		return EditTarget{}, false
	}
	return *v.editing, true
}

// ForgetStage drops every reference to a stage that no longer exists.
func (v *ViewState) ForgetStage(name string) {
	v.Collapse(name)
	if v.editing != nil && v.editing.Stage == name {
		v.editing = nil
	}
}

// RenameStage keeps view references pointing at a renamed stage.
func (v *ViewState) RenameStage(from, to string) {
	for i, n := range v.expanded {
		if n == from {
			v.expanded[i] = to
		}
	}
	if v.editing != nil && v.editing.Stage == from {
		v.editing.Stage = to
	}
}

// Reset clears all view state.
func (v *ViewState) Reset() {
	v.expanded = nil
	v.editing = nil
}

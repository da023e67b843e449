package manager

import "fmt"

// PanelKind is what one level of the drill-down shows.
type PanelKind int

const (
	PanelIdle PanelKind = iota
	PanelListing
	PanelAdding
	PanelEditing
	PanelViewing
)

// Panel is the state of one level. ID is set for PanelEditing and PanelViewing only.
type Panel struct {
	Kind PanelKind
	ID   int
}

func IdlePanel() Panel        { return Panel{Kind: PanelIdle} }
func ListPanel() Panel        { return Panel{Kind: PanelListing} }
func AddPanel() Panel         { return Panel{Kind: PanelAdding} }
func EditPanel(id int) Panel  { return Panel{Kind: PanelEditing, ID: id} }
func ViewPanel(id int) Panel  { return Panel{Kind: PanelViewing, ID: id} }
func (p Panel) IsForm() bool  { return p.Kind == PanelAdding || p.Kind == PanelEditing }
func (p Panel) Viewing() bool { return p.Kind == PanelViewing }

func (p Panel) String() string {
	switch p.Kind {
	case PanelListing:
		return "listing"
	case PanelAdding:
		return "adding"
	case PanelEditing:
		return fmt.Sprintf("editing(%d)", p.ID)
	case PanelViewing:
		return fmt.Sprintf("viewing(%d)", p.ID)
	default:
		return "idle"
	}
}

// Level is a depth in the program > subject > schedule hierarchy.
type Level int

const (
	LevelProgram Level = iota
	LevelSubject
	LevelSchedule
	levelCount
)

func (l Level) String() string {
	return [...]string{"program", "subject", "schedule"}[l]
}

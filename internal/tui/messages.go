package tui

import "github.com/rgehrsitz/sgprop/internal/tui/tuimsg"

// Scene represents different screens in the TUI
type Scene int

const (
	ScenePortfolio Scene = iota
	SceneProperty
	SceneHelp
)

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// Scene messages shared with the scenes package
type (
	PortfolioLoadedMsg     = tuimsg.PortfolioLoadedMsg
	ErrorMsg               = tuimsg.ErrorMsg
	PropertySelectedMsg    = tuimsg.PropertySelectedMsg
	AppreciationChangedMsg = tuimsg.AppreciationChangedMsg
	SummaryReadyMsg        = tuimsg.SummaryReadyMsg
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case ScenePortfolio:
		return "Portfolio"
	case SceneProperty:
		return "Property"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/sgprop/internal/calculation"
	"github.com/rgehrsitz/sgprop/internal/config"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/internal/tui/scenes"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Portfolio and its evaluation
	portfolioPath string
	portfolio     *domain.Portfolio
	engine        *calculation.Engine
	summary       *domain.PortfolioSummary
	selected      int

	portfolioModel *scenes.PortfolioModel
	propertyModel  *scenes.PropertyModel

	keys KeyMap
	help help.Model

	// Error state
	err error

	// Loading state
	loading        bool
	loadingMessage string
}

// NewModel creates a new application model. A nil engine uses the wall clock.
func NewModel(portfolioPath string, engine *calculation.Engine) Model {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	return Model{
		currentScene:   ScenePortfolio,
		portfolioPath:  portfolioPath,
		engine:         engine,
		portfolioModel: scenes.NewPortfolioModel(),
		propertyModel:  scenes.NewPropertyModel(),
		keys:           DefaultKeyMap(),
		help:           help.New(),
		loading:        true,
		loadingMessage: "Loading portfolio...",
		width:          100,
		height:         30,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadPortfolioCmd(m.portfolioPath)
}

// loadPortfolioCmd returns a command that parses and validates the portfolio file
func loadPortfolioCmd(path string) tea.Cmd {
	return func() tea.Msg {
		portfolio, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return PortfolioLoadedMsg{Portfolio: portfolio}
	}
}

// recalculateCmd summarizes one property at a new appreciation rate on the
// portfolio's evaluation date
func recalculateCmd(engine *calculation.Engine, index int, property domain.Property, rate decimal.Decimal, summary *domain.PortfolioSummary) tea.Cmd {
	asOf := summary.AsOf
	return func() tea.Msg {
		e := *engine
		e.Assumptions.AppreciationRate = rate
		return SummaryReadyMsg{Index: index, Summary: e.SummarizeAt(property, asOf)}
	}
}

package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/sgprop/internal/calculation"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
)

func testPortfolio() *domain.Portfolio {
	return &domain.Portfolio{
		Properties: []domain.Property{
			{
				ID:                   1,
				Name:                 "Tampines Condo",
				Address:              "1 Tampines Street 86",
				Type:                 domain.PropertyTypeCondo,
				PurchasePrice:        decimal.NewFromInt(450000),
				PurchaseDate:         dateutil.Date(2022, 6, 15),
				CPFAmount:            decimal.NewFromInt(150000),
				CurrentValue:         decimal.NewFromInt(480000),
				MortgageAmount:       decimal.NewFromInt(360000),
				MortgageInterestRate: decimal.NewFromFloat(2.75),
				MortgageTenureYears:  25,
			},
			{
				ID:            2,
				Name:          "Bishan HDB",
				Address:       "Blk 123 Bishan Street 12",
				Type:          domain.PropertyTypeHDB,
				PurchasePrice: decimal.NewFromInt(620000),
				PurchaseDate:  dateutil.Date(2018, 3, 1),
			},
		},
		Assumptions: domain.DefaultAssumptions(),
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	engine := calculation.NewEngine().AsOf(dateutil.Date(2024, 6, 15))
	m, cmd := update(t, NewModel("portfolio.yaml", engine), PortfolioLoadedMsg{Portfolio: testPortfolio()})
	assert.Nil(t, cmd)
	return m
}

func keyMsg(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runeMsg(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func TestNewModel(t *testing.T) {
	m := NewModel("portfolio.yaml", nil)

	assert.Equal(t, ScenePortfolio, m.currentScene)
	assert.True(t, m.loading)
	assert.NotNil(t, m.engine)
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Loading portfolio...")
}

func TestLoadPortfolioCmd(t *testing.T) {
	msg := loadPortfolioCmd("../config/testdata/portfolio.yaml")()
	loaded, ok := msg.(PortfolioLoadedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Len(t, loaded.Portfolio.Properties, 2)

	msg = loadPortfolioCmd("does-not-exist.yaml")()
	errMsg, ok := msg.(ErrorMsg)
	require.True(t, ok, "got %T", msg)
	assert.Contains(t, errMsg.Err.Error(), "failed to read file")
}

func TestPortfolioLoaded(t *testing.T) {
	m := loadedModel(t)

	require.NotNil(t, m.summary)
	assert.False(t, m.loading)
	assert.Len(t, m.summary.Properties, 2)
	assert.Equal(t, dateutil.Date(2024, 6, 15), m.summary.AsOf)

	view := m.View()
	assert.Contains(t, view, "Tampines Condo")
	assert.Contains(t, view, "Bishan HDB")
	assert.Contains(t, view, "as of 15/06/2024")
}

func TestSelectPropertyAndAdjustAppreciation(t *testing.T) {
	m := loadedModel(t)

	m, _ = update(t, m, keyMsg(tea.KeyDown))
	m, _ = update(t, m, keyMsg(tea.KeyUp))
	m, cmd := update(t, m, keyMsg(tea.KeyEnter))
	require.NotNil(t, cmd)
	selected, ok := cmd().(PropertySelectedMsg)
	require.True(t, ok)
	assert.Equal(t, 0, selected.Index)

	m, _ = update(t, m, selected)
	assert.Equal(t, SceneProperty, m.currentScene)
	assert.Contains(t, m.View(), "Tampines Condo (Condo)")
	original := m.propertyModel.Summary()
	require.NotNil(t, original)

	m, cmd = update(t, m, keyMsg(tea.KeyRight))
	require.NotNil(t, cmd)
	changed, ok := cmd().(AppreciationChangedMsg)
	require.True(t, ok)
	assert.True(t, changed.Rate.Equal(decimal.NewFromFloat(3.5)), "got %s", changed.Rate)

	m, cmd = update(t, m, changed)
	require.NotNil(t, cmd)
	ready, ok := cmd().(SummaryReadyMsg)
	require.True(t, ok)
	assert.Equal(t, 0, ready.Index)
	assert.Equal(t, m.summary.AsOf, ready.Summary.AsOf)

	m, _ = update(t, m, ready)
	recalculated := m.propertyModel.Summary()
	assert.True(t, recalculated.AppreciationRate.Equal(decimal.NewFromFloat(3.5)))
	assert.True(t, recalculated.Scenarios[1].ProjectedNetProceeds.GreaterThan(original.Scenarios[1].ProjectedNetProceeds),
		"faster appreciation raises the hold-1-year proceeds")
	// the recommendation stays on the fixed rate
	assert.Equal(t, original.Recommendation, recalculated.Recommendation)

	m, _ = update(t, m, keyMsg(tea.KeyEsc))
	assert.Equal(t, ScenePortfolio, m.currentScene)
}

func TestSummaryReady_IgnoresOtherProperty(t *testing.T) {
	m := loadedModel(t)
	m, _ = update(t, m, PropertySelectedMsg{Index: 1})
	before := m.propertyModel.Summary()

	m, _ = update(t, m, SummaryReadyMsg{Index: 0, Summary: &m.summary.Properties[0]})
	assert.Same(t, before, m.propertyModel.Summary())
}

func TestPropertySelected_OutOfRange(t *testing.T) {
	m := loadedModel(t)
	m, _ = update(t, m, PropertySelectedMsg{Index: 5})
	assert.Equal(t, ScenePortfolio, m.currentScene)
}

func TestHelpToggle(t *testing.T) {
	m := loadedModel(t)

	m, cmd := update(t, m, runeMsg('?'))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, SceneHelp, m.currentScene)
	assert.Contains(t, m.View(), "opportunity cost")

	m, _ = update(t, m, runeMsg('?'))
	assert.Equal(t, ScenePortfolio, m.currentScene)
}

func TestErrorDismissedByAnyKey(t *testing.T) {
	m := loadedModel(t)

	m, _ = update(t, m, ErrorMsg{Err: errors.New("boom")})
	assert.Contains(t, m.View(), "Error: boom")

	m, cmd := update(t, m, runeMsg('x'))
	assert.Nil(t, cmd)
	assert.NoError(t, m.err)
	assert.NotContains(t, m.View(), "boom")
}

func TestQuit(t *testing.T) {
	m := loadedModel(t)
	_, cmd := update(t, m, runeMsg('q'))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestWindowSize(t *testing.T) {
	m := loadedModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	assert.Equal(t, 140, m.width)
	assert.Equal(t, 140, m.help.Width)
}

func TestSceneString(t *testing.T) {
	assert.Equal(t, "Portfolio", ScenePortfolio.String())
	assert.Equal(t, "Property", SceneProperty.String())
	assert.Equal(t, "Help", SceneHelp.String())
	assert.Equal(t, "Unknown", Scene(42).String())
}

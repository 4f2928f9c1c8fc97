package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolatedDB points the database commands at a fresh database and returns
// an env file path that does not exist
func isolatedDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SGPROP_DB_PATH", filepath.Join(dir, "sgprop.db"))
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	return filepath.Join(dir, "missing.env")
}

func writePortfolio(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const futurePurchase = `properties:
  - name: Future Condo
    address: 1 Future Road
    type: Condo
    purchase_price: 800000
    purchase_date: 2025-01-01
`

func TestSummaryCommand_PurchaseAfterEvaluationDate(t *testing.T) {
	path := writePortfolio(t, futurePurchase)

	_, err := execute(t, "summary", path, "--as-of", "2024-06-15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be after today (2024-06-15)")

	_, err = execute(t, "validate", path, "--as-of", "2024-06-15")
	require.Error(t, err)

	_, err = execute(t, "summary", path, "--as-of", "2025-06-01", "--brief")
	require.NoError(t, err)
}

func TestImportCommand_UnnumberedFilesAddProperties(t *testing.T) {
	envFile := isolatedDB(t)

	first := writePortfolio(t, `properties:
  - name: Old Flat
    address: 10 Jurong West
    type: HDB
    purchase_price: 400000
    purchase_date: 2020-01-01
    target_profit_percentage: 5
`)
	second := writePortfolio(t, `properties:
  - name: New Condo
    address: 20 Bedok North
    type: Condo
    purchase_price: 900000
    purchase_date: 2023-01-01
    target_profit_percentage: 10
`)

	_, err := execute(t, "import", first, "--env", envFile)
	require.NoError(t, err)
	_, err = execute(t, "import", second, "--env", envFile)
	require.NoError(t, err)

	out, err := execute(t, "property", "list", "-f", "json", "--env", envFile)
	require.NoError(t, err)
	var properties []domain.Property
	require.NoError(t, json.Unmarshal([]byte(out), &properties))
	require.Len(t, properties, 2)
	assert.Equal(t, "Old Flat", properties[0].Name)
	assert.Equal(t, "New Condo", properties[1].Name)
	assert.NotEqual(t, properties[0].ID, properties[1].ID)
}

func TestPropertyAndRefinanceCommands(t *testing.T) {
	envFile := isolatedDB(t)

	out, err := execute(t, "property", "list", "--env", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "No stored properties.")

	_, err = execute(t, "summary", "--db", "--env", envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no properties stored")

	out, err = execute(t, "property", "add", "--env", envFile, "--as-of", "2024-06-15",
		"--name", "Tampines Condo", "--address", "1 Tampines Street 86", "--type", "Condo",
		"--price", "450000", "--date", "2022-06-15", "--value", "480000",
		"--mortgage", "360000", "--rate", "2.75", "--tenure", "25", "--target", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "Added property 1 (Tampines Condo)")

	_, err = execute(t, "property", "add", "--env", envFile, "--as-of", "2024-06-15",
		"--name", "Too Early", "--address", "2 Somewhere", "--type", "HDB",
		"--price", "450000", "--date", "2025-01-01")
	require.Error(t, err, "purchase after the evaluation date")

	_, err = execute(t, "property", "add", "--env", envFile, "--name", "Missing Flags")
	require.Error(t, err)

	out, err = execute(t, "property", "list", "-f", "json", "--env", envFile)
	require.NoError(t, err)
	var properties []domain.Property
	require.NoError(t, json.Unmarshal([]byte(out), &properties))
	require.Len(t, properties, 1)
	assert.Equal(t, "8100", properties[0].StampDuty.String(), "stamp duty defaults to the BSD on the price")

	out, err = execute(t, "property", "set", "1", "--value", "520000", "--env", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Updated property 1")

	out, err = execute(t, "refinance", "add", "1", "--env", envFile,
		"--date", "2024-01-02", "--amount", "345000", "--rate", "3.1", "--tenure", "23", "--description", "repricing")
	require.NoError(t, err)
	assert.Contains(t, out, "Added refinance 1 to property 1")

	_, err = execute(t, "refinance", "add", "1", "--env", envFile,
		"--date", "2021-01-01", "--amount", "345000", "--rate", "3.1", "--tenure", "23")
	require.Error(t, err, "refinance before the purchase")

	out, err = execute(t, "refinance", "list", "1", "--env", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "REFINANCES: Tampines Condo")
	assert.Contains(t, out, "repricing")

	out, err = execute(t, "summary", "--db", "--env", envFile, "--as-of", "2024-06-15", "-f", "json")
	require.NoError(t, err)
	var summary domain.PortfolioSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.Len(t, summary.Properties, 1)
	assert.Equal(t, "520000", summary.Properties[0].EffectiveValue.String())
	assert.Len(t, summary.Properties[0].Property.Refinances, 1)

	out, err = execute(t, "recommend", "--db", "--env", envFile, "--as-of", "2024-06-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Tampines Condo")

	_, err = execute(t, "summary", portfolioFile, "--db", "--env", envFile)
	require.Error(t, err, "--db takes no file argument")

	out, err = execute(t, "refinance", "delete", "1", "--env", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted refinance 1")

	out, err = execute(t, "property", "delete", "1", "--env", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted property 1")

	_, err = execute(t, "property", "delete", "1", "--env", envFile)
	require.Error(t, err)
	_, err = execute(t, "property", "set", "abc", "--env", envFile)
	require.Error(t, err)
}

func TestPropertySet_TargetChangeRearmsProfitAlert(t *testing.T) {
	var sent atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sent.Add(1)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer server.Close()

	envFile := isolatedDB(t)
	t.Setenv("TELEGRAM_API_BASE", server.URL)

	_, err := execute(t, "import", alertsFile, "--env", envFile)
	require.NoError(t, err)

	out, err := execute(t, "alerts", "run", "profit", "--env", envFile, "--as-of", "2024-06-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Profit check: checked 1, sent 1")

	_, err = execute(t, "property", "set", "1", "--target", "20", "--env", envFile)
	require.NoError(t, err)

	out, err = execute(t, "alerts", "run", "profit", "--env", envFile, "--as-of", "2024-06-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Profit check: checked 1, sent 1")
	assert.Equal(t, int32(2), sent.Load())
}

func TestSettingsTelegramCommands(t *testing.T) {
	var (
		sent atomic.Int32
		path atomic.Value
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sent.Add(1)
		path.Store(r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":9}}`))
	}))
	defer server.Close()

	envFile := isolatedDB(t)
	t.Setenv("TELEGRAM_API_BASE", server.URL)

	_, err := execute(t, "settings", "telegram", "test", "--env", envFile)
	require.Error(t, err, "nothing configured")

	out, err := execute(t, "settings", "telegram", "set", "--token", "123456:ABC", "--chat", "98765", "--env", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "chat 98765, alerts enabled: true")

	out, err = execute(t, "settings", "telegram", "show", "--env", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Source:    database")
	assert.Contains(t, out, "Bot token: ***:ABC")
	assert.NotContains(t, out, "123456")

	out, err = execute(t, "settings", "telegram", "test", "--env", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Test message sent to chat 98765")
	assert.Equal(t, int32(1), sent.Load())
	assert.Equal(t, "/bot123456:ABC/sendMessage", path.Load())

	out, err = execute(t, "settings", "telegram", "set", "--enabled=false", "--env", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "chat 98765, alerts enabled: false")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "(unset)", maskToken(""))
	assert.Equal(t, "***", maskToken("abcd"))
	assert.Equal(t, "***:ABC", maskToken("123456:ABC"))
}

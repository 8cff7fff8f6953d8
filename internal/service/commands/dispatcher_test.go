package commands

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
	"github.com/mamadbah2/rabbitry/internal/export"
	"github.com/mamadbah2/rabbitry/internal/repository/sqlite"
	"github.com/mamadbah2/rabbitry/internal/service/reporting"
)

const testChatID int64 = 42

var testClock = func() time.Time {
	return time.Date(2024, 5, 15, 8, 0, 0, 0, time.UTC)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *sqlite.Repository) {
	t.Helper()
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	reports := reporting.NewService(repo, nil)
	exporter := export.NewExporter(repo, t.TempDir(), nil)
	return NewDispatcher(repo, reports, exporter, nil, nil).WithClock(testClock), repo
}

func send(t *testing.T, d *Dispatcher, text string) models.Reply {
	t.Helper()
	return d.Dispatch(context.Background(), testChatID, models.ParseCommand(text))
}

func TestAddRabbitAndList(t *testing.T) {
	d, _ := newTestDispatcher(t)

	reply := send(t, d, "/addrabbit Daisy F")
	assert.Equal(t, models.ReplyText, reply.Kind)
	assert.Contains(t, reply.Text, "Added doe Daisy")

	reply = send(t, d, "/addrabbit Buck m")
	assert.Contains(t, reply.Text, "Added buck Buck")

	reply = send(t, d, "/rabbits")
	assert.Contains(t, reply.Text, "All rabbits (2)")
	assert.Contains(t, reply.Text, "Daisy (F)")
	assert.Contains(t, reply.Text, "Buck (M)")
}

func TestAddRabbitRejectsBadSex(t *testing.T) {
	d, _ := newTestDispatcher(t)

	reply := send(t, d, "/addrabbit Daisy X")
	assert.Contains(t, reply.Text, "sex must be F or M")
}

func TestAddRabbitDuplicate(t *testing.T) {
	d, _ := newTestDispatcher(t)

	send(t, d, "/addrabbit Daisy F")
	reply := send(t, d, "/addrabbit Daisy F")
	assert.Contains(t, reply.Text, "already exists")
}

func TestUnknownRabbitName(t *testing.T) {
	d, _ := newTestDispatcher(t)

	reply := send(t, d, "/weight Nobody 1.5")
	assert.Contains(t, reply.Text, "Nothing found")
}

func TestBreedRecordsMatingWithDueDate(t *testing.T) {
	d, _ := newTestDispatcher(t)

	send(t, d, "/addrabbit Rose F")
	send(t, d, "/addrabbit Buck M")

	reply := send(t, d, "/breed Rose Buck 2024-05-01")
	assert.Contains(t, reply.Text, "Recorded Rose x Buck on 2024-05-01")
	assert.Contains(t, reply.Text, "Expected kindling: 2024-06-01")
}

func TestBreedEnforcesRoles(t *testing.T) {
	d, _ := newTestDispatcher(t)

	send(t, d, "/addrabbit Rose F")
	send(t, d, "/addrabbit Clover F")

	reply := send(t, d, "/breed Rose Clover")
	assert.Contains(t, reply.Text, "Clover is not a buck")
}

func TestBreedBlocksDangerUnlessForced(t *testing.T) {
	d, _ := newTestDispatcher(t)

	send(t, d, "/addrabbit Granny F")
	send(t, d, "/addrabbit Gramps M")
	send(t, d, "/addrabbit Rose F")
	send(t, d, "/addrabbit Thorn M")
	send(t, d, "/setparents Rose Granny Gramps")
	send(t, d, "/setparents Thorn Granny Gramps")

	reply := send(t, d, "/breed Rose Thorn")
	assert.Contains(t, reply.Text, "full siblings")
	assert.Contains(t, reply.Text, "force")

	reply = send(t, d, "/breed Rose Thorn 2024-05-01 force")
	assert.Contains(t, reply.Text, "Recorded Rose x Thorn")
	assert.Contains(t, reply.Text, "Forced past a dangerous pairing")
}

func TestKindlingClosesLatestOpenBreeding(t *testing.T) {
	d, repo := newTestDispatcher(t)
	ctx := context.Background()

	send(t, d, "/addrabbit Rose F")
	send(t, d, "/addrabbit Buck M")
	send(t, d, "/breed Rose Buck 2024-05-01")

	reply := send(t, d, "/kindling Rose 7 2024-06-02")
	assert.Contains(t, reply.Text, "Rose kindled 7 kits on 2024-06-02")
	assert.Contains(t, reply.Text, "Weaning due: 2024-07-07")
	assert.Contains(t, reply.Text, "Achievement unlocked: First litter")

	// No open breeding remains.
	reply = send(t, d, "/kindling Rose 5")
	assert.Contains(t, reply.Text, "No open breeding")

	rose, err := repo.RabbitByName(ctx, "Rose")
	require.NoError(t, err)
	litters, kits, err := repo.LitterStats(ctx, rose.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, litters)
	assert.EqualValues(t, 7, kits)
}

func TestLitterNameTargetsLatestClosed(t *testing.T) {
	d, _ := newTestDispatcher(t)

	send(t, d, "/addrabbit Rose F")
	send(t, d, "/addrabbit Buck M")
	send(t, d, "/breed Rose Buck 2024-04-01")
	send(t, d, "/kindling Rose 6 2024-05-02")

	reply := send(t, d, "/littername Rose Spring Stars")
	assert.Contains(t, reply.Text, `named "Spring Stars"`)

	reply = send(t, d, "/litters Rose")
	assert.Contains(t, reply.Text, "2024-05-02: 6 kits (Spring Stars)")
}

func TestCheckPairSafe(t *testing.T) {
	d, _ := newTestDispatcher(t)

	send(t, d, "/addrabbit Rose F")
	send(t, d, "/addrabbit Buck M")

	reply := send(t, d, "/checkpair Rose Buck")
	assert.Contains(t, reply.Text, "safe")
}

func TestCheckPairIgnoresSexRoles(t *testing.T) {
	d, _ := newTestDispatcher(t)

	send(t, d, "/addrabbit Hazel F")
	send(t, d, "/addrabbit Bruno M")
	send(t, d, "/addrabbit Rose F")
	send(t, d, "/addrabbit Lily F")
	send(t, d, "/setparents Rose Hazel Bruno")
	send(t, d, "/setparents Lily Hazel Bruno")

	// Two does: /checkpair still classifies them instead of rejecting the
	// pair for its sexes.
	reply := send(t, d, "/checkpair Rose Lily")
	assert.Contains(t, reply.Text, "danger")
	assert.Contains(t, reply.Text, "full siblings")
}

func TestWeightGrowthFlow(t *testing.T) {
	d, _ := newTestDispatcher(t)

	send(t, d, "/addrabbit Daisy F")
	send(t, d, "/weight Daisy 1.0 2024-05-01")
	send(t, d, "/weight Daisy 1.2 2024-05-11")

	reply := send(t, d, "/growth Daisy")
	assert.Contains(t, reply.Text, "20 g/day")

	reply = send(t, d, "/weightlog Daisy")
	assert.Contains(t, reply.Text, "2024-05-11: 1.20 kg")
}

func TestHealthFlow(t *testing.T) {
	d, _ := newTestDispatcher(t)

	send(t, d, "/addrabbit Daisy F")
	reply := send(t, d, "/health Daisy ear mites treated")
	assert.Contains(t, reply.Text, "Health note for Daisy")

	reply = send(t, d, "/healthlog Daisy")
	assert.Contains(t, reply.Text, "2024-05-15: ear mites treated")
}

func TestSellMarksRabbitSold(t *testing.T) {
	d, repo := newTestDispatcher(t)

	send(t, d, "/addrabbit Daisy F")
	reply := send(t, d, "/sell Daisy 25.50 market")
	assert.Contains(t, reply.Text, "Daisy sold for 25.50 to market")
	assert.Contains(t, reply.Text, "Achievement unlocked: First sale")

	rabbit, err := repo.RabbitByName(context.Background(), "Daisy")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSold, rabbit.Status)
}

func TestExpenseAndElectric(t *testing.T) {
	d, _ := newTestDispatcher(t)

	reply := send(t, d, "/expense hay 40 winter stock")
	assert.Contains(t, reply.Text, "hay 40.00")

	reply = send(t, d, "/electric 12.5")
	assert.Contains(t, reply.Text, "electricity 12.50")

	reply = send(t, d, "/profit month")
	assert.Contains(t, reply.Text, "Profit (2024-05)")
	assert.Contains(t, reply.Text, "Net: -52.50")
}

func TestProfitAliasImpliesPeriod(t *testing.T) {
	d, _ := newTestDispatcher(t)

	reply := send(t, d, "/profitmonth")
	assert.Contains(t, reply.Text, "Profit (2024-05)")

	reply = send(t, d, "/profityear")
	assert.Contains(t, reply.Text, "Profit (2024)")

	reply = send(t, d, "/profit")
	assert.Contains(t, reply.Text, "Profit (all time)")
}

func TestFeedFlow(t *testing.T) {
	d, _ := newTestDispatcher(t)

	reply := send(t, d, "/feed 10 15 pellets")
	assert.Contains(t, reply.Text, "Logged 10.0 kg of feed for 15.00")

	reply = send(t, d, "/feedmonth")
	assert.Contains(t, reply.Text, "Feed (2024-05)")
	assert.Contains(t, reply.Text, "Used: 10.0 kg")
}

func TestTaskFlow(t *testing.T) {
	d, _ := newTestDispatcher(t)

	reply := send(t, d, "/remind 2024-05-20 clean cages")
	assert.Contains(t, reply.Text, "Reminder #1 set for 2024-05-20")

	reply = send(t, d, "/tasklist")
	assert.Contains(t, reply.Text, "clean cages")

	reply = send(t, d, "/donetask 1")
	assert.Contains(t, reply.Text, "Task #1 done")

	reply = send(t, d, "/donetask 1")
	assert.Contains(t, reply.Text, "No open task #1")
}

func TestTemperatureStoresAndClassifies(t *testing.T) {
	d, repo := newTestDispatcher(t)

	reply := send(t, d, "/temp 33")
	assert.Contains(t, reply.Text, "high heat risk")

	value, err := repo.Setting(context.Background(), models.SettingLastTemperature)
	require.NoError(t, err)
	assert.Equal(t, "33", value)
}

func TestExportProducesDocument(t *testing.T) {
	d, _ := newTestDispatcher(t)

	send(t, d, "/addrabbit Daisy F")
	reply := send(t, d, "/export rabbits")
	assert.Equal(t, models.ReplyDocument, reply.Kind)
	assert.Equal(t, "rabbits.csv", filepath.Base(reply.FilePath))
}

func TestExportUnknownTable(t *testing.T) {
	d, _ := newTestDispatcher(t)

	reply := send(t, d, "/export aliens")
	assert.Contains(t, reply.Text, "unknown table")
}

func TestBackupReturnsDatabaseFile(t *testing.T) {
	d, repo := newTestDispatcher(t)

	reply := send(t, d, "/backup")
	assert.Equal(t, models.ReplyDocument, reply.Kind)
	assert.Equal(t, repo.Path(), reply.FilePath)
}

func TestSubscribeFlow(t *testing.T) {
	d, _ := newTestDispatcher(t)

	reply := send(t, d, "/subscribe")
	assert.Contains(t, reply.Text, "Subscribed")

	reply = send(t, d, "/subscribe")
	assert.Contains(t, reply.Text, "Already subscribed")

	reply = send(t, d, "/unsubscribe")
	assert.Contains(t, reply.Text, "Unsubscribed")

	reply = send(t, d, "/unsubscribe")
	assert.Contains(t, reply.Text, "not subscribed")
}

func TestMarkDeadWithDateAndReason(t *testing.T) {
	d, repo := newTestDispatcher(t)

	send(t, d, "/addrabbit Daisy F")
	reply := send(t, d, "/markdead Daisy 2024-05-10 heat stroke")
	assert.Contains(t, reply.Text, "Daisy marked dead on 2024-05-10")

	rabbit, err := repo.RabbitByName(context.Background(), "Daisy")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDead, rabbit.Status)
	assert.Equal(t, "heat stroke", rabbit.DeathReason)
}

func TestInfoCard(t *testing.T) {
	d, _ := newTestDispatcher(t)

	send(t, d, "/addrabbit Daisy F")
	send(t, d, "/setcage Daisy A3 north")
	send(t, d, "/weight Daisy 1.5 2024-05-10")

	reply := send(t, d, "/info Daisy")
	assert.Contains(t, reply.Text, "Daisy (#1)")
	assert.Contains(t, reply.Text, "Cage: A3 (section north)")
	assert.Contains(t, reply.Text, "Last weight: 1.50 kg on 2024-05-10")
	assert.Contains(t, reply.Text, "Parents: unknown")
}

func TestInfoCardShowsNextDueAndSale(t *testing.T) {
	d, _ := newTestDispatcher(t)

	send(t, d, "/addrabbit Rose F")
	send(t, d, "/addrabbit Buck M")
	send(t, d, "/breed Rose Buck 2024-05-01")
	send(t, d, "/health Rose vaccinated")

	reply := send(t, d, "/info Rose")
	assert.Contains(t, reply.Text, "Next due: 2024-06-01")
	assert.Contains(t, reply.Text, "Last health note: vaccinated (2024-05-15)")

	send(t, d, "/sell Buck 30")
	reply = send(t, d, "/info Buck")
	assert.Contains(t, reply.Text, "Sold: 2024-05-15 for 30.00")
}

func TestAttachPhoto(t *testing.T) {
	d, repo := newTestDispatcher(t)

	send(t, d, "/addrabbit Daisy F")
	reply := d.AttachPhoto(context.Background(), "Daisy", "file-abc")
	assert.Contains(t, reply.Text, "Photo attached to Daisy")

	rabbit, err := repo.RabbitByName(context.Background(), "Daisy")
	require.NoError(t, err)
	assert.Equal(t, "file-abc", rabbit.PhotoRef)

	reply = d.AttachPhoto(context.Background(), "Nobody", "file-abc")
	assert.Contains(t, reply.Text, "No rabbit named")
}

func TestUnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)

	reply := send(t, d, "/teleport Daisy")
	assert.Contains(t, reply.Text, "Unknown command")
}

func TestHelp(t *testing.T) {
	d, _ := newTestDispatcher(t)

	reply := send(t, d, "/help")
	assert.Contains(t, reply.Text, "/addrabbit")
	assert.Contains(t, reply.Text, "/suggest")
}

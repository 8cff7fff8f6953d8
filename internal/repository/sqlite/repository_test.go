package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustRabbit(t *testing.T, repo *Repository, name, sex string) *models.Rabbit {
	t.Helper()
	rabbit, err := repo.CreateRabbit(context.Background(), name, sex)
	require.NoError(t, err)
	return rabbit
}

func TestCreateRabbitDuplicateName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustRabbit(t, repo, "Daisy", models.SexFemale)
	_, err := repo.CreateRabbit(ctx, "Daisy", models.SexMale)
	assert.ErrorIs(t, err, models.ErrDuplicateName)
}

func TestRabbitByNameIsExact(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustRabbit(t, repo, "Daisy", models.SexFemale)

	found, err := repo.RabbitByName(ctx, "Daisy")
	require.NoError(t, err)
	assert.Equal(t, "Daisy", found.Name)

	_, err = repo.RabbitByName(ctx, "Nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListRabbitsActiveFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustRabbit(t, repo, "Daisy", models.SexFemale)
	mustRabbit(t, repo, "Clover", models.SexFemale)
	require.NoError(t, repo.MarkDead(ctx, "Clover", "2024-05-01", "age"))

	all, err := repo.ListRabbits(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Clover", all[0].Name) // alphabetical

	active, err := repo.ListRabbits(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Daisy", active[0].Name)
}

func TestSetParentsAndOffspringCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mother := mustRabbit(t, repo, "Rose", models.SexFemale)
	father := mustRabbit(t, repo, "Thorn", models.SexMale)
	mustRabbit(t, repo, "Daisy", models.SexFemale)

	require.NoError(t, repo.SetParents(ctx, "Daisy", "Rose", "Thorn"))

	child, err := repo.RabbitByName(ctx, "Daisy")
	require.NoError(t, err)
	require.NotNil(t, child.MotherID)
	require.NotNil(t, child.FatherID)
	assert.Equal(t, mother.ID, *child.MotherID)
	assert.Equal(t, father.ID, *child.FatherID)

	count, err := repo.OffspringCount(ctx, father.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	assert.ErrorIs(t, repo.SetParents(ctx, "Daisy", "Rose", "Nobody"), models.ErrNotFound)
}

func TestBreedingLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doe := mustRabbit(t, repo, "Rose", models.SexFemale)
	buck := mustRabbit(t, repo, "Buck", models.SexMale)

	breeding := &models.Breeding{
		DoeID:           doe.ID,
		BuckID:          buck.ID,
		MatingDate:      "2024-05-01",
		ExpectedDueDate: "2024-06-01",
	}
	require.NoError(t, repo.CreateBreeding(ctx, breeding))

	open, err := repo.LatestOpenBreeding(ctx, doe.ID)
	require.NoError(t, err)
	assert.Equal(t, breeding.ID, open.ID)
	assert.True(t, open.Open())

	require.NoError(t, repo.CloseBreeding(ctx, open.ID, "2024-06-02", 7, "2024-07-07", ""))

	// Closing consumed the open breeding.
	_, err = repo.LatestOpenBreeding(ctx, doe.ID)
	assert.ErrorIs(t, err, models.ErrNoOpenBreeding)

	closed, err := repo.LatestClosedBreeding(ctx, doe.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.KindlingDate)
	assert.Equal(t, "2024-06-02", *closed.KindlingDate)
	require.NotNil(t, closed.LitterSize)
	assert.Equal(t, 7, *closed.LitterSize)

	require.NoError(t, repo.RenameLitter(ctx, closed.ID, "Summer"))
	renamed, err := repo.LatestClosedBreeding(ctx, doe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer", renamed.LitterName)

	litters, kits, err := repo.LitterStats(ctx, doe.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, litters)
	assert.EqualValues(t, 7, kits)
}

func TestLatestOpenBreedingPicksNewestMating(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doe := mustRabbit(t, repo, "Rose", models.SexFemale)
	buck := mustRabbit(t, repo, "Buck", models.SexMale)

	older := &models.Breeding{DoeID: doe.ID, BuckID: buck.ID, MatingDate: "2024-04-01", ExpectedDueDate: "2024-05-02"}
	newer := &models.Breeding{DoeID: doe.ID, BuckID: buck.ID, MatingDate: "2024-05-01", ExpectedDueDate: "2024-06-01"}
	require.NoError(t, repo.CreateBreeding(ctx, older))
	require.NoError(t, repo.CreateBreeding(ctx, newer))

	open, err := repo.LatestOpenBreeding(ctx, doe.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, open.ID)

	next, err := repo.NextDueForDoe(ctx, doe.ID)
	require.NoError(t, err)
	assert.Equal(t, older.ID, next.ID) // earliest due date wins
}

func TestDoeNamesDueAndWeaningOn(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rose := mustRabbit(t, repo, "Rose", models.SexFemale)
	clover := mustRabbit(t, repo, "Clover", models.SexFemale)
	buck := mustRabbit(t, repo, "Buck", models.SexMale)

	require.NoError(t, repo.CreateBreeding(ctx, &models.Breeding{
		DoeID: rose.ID, BuckID: buck.ID, MatingDate: "2024-05-01", ExpectedDueDate: "2024-06-01",
	}))
	cloverBreeding := &models.Breeding{DoeID: clover.ID, BuckID: buck.ID, MatingDate: "2024-04-01", ExpectedDueDate: "2024-05-02"}
	require.NoError(t, repo.CreateBreeding(ctx, cloverBreeding))
	require.NoError(t, repo.CloseBreeding(ctx, cloverBreeding.ID, "2024-05-03", 6, "2024-06-07", ""))

	due, err := repo.DoeNamesDueOn(ctx, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rose"}, due)

	weaning, err := repo.DoeNamesWeaningOn(ctx, "2024-06-07")
	require.NoError(t, err)
	assert.Equal(t, []string{"Clover"}, weaning)

	none, err := repo.DoeNamesDueOn(ctx, "2030-01-01")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHealthAndWeightLogsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rabbit := mustRabbit(t, repo, "Daisy", models.SexFemale)

	for _, day := range []string{"2024-05-01", "2024-05-03", "2024-05-02"} {
		require.NoError(t, repo.AddHealthRecord(ctx, &models.HealthRecord{RabbitID: rabbit.ID, Date: day, Note: "check " + day}))
	}

	log, err := repo.HealthLog(ctx, rabbit.ID, 2)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, "2024-05-03", log[0].Date)
	assert.Equal(t, "2024-05-02", log[1].Date)

	require.NoError(t, repo.AddWeightRecord(ctx, &models.WeightRecord{RabbitID: rabbit.ID, Date: "2024-05-01", WeightKg: 1.0}))
	require.NoError(t, repo.AddWeightRecord(ctx, &models.WeightRecord{RabbitID: rabbit.ID, Date: "2024-05-11", WeightKg: 1.2}))

	weights, err := repo.WeightLog(ctx, rabbit.ID, 5)
	require.NoError(t, err)
	require.Len(t, weights, 2)
	assert.Equal(t, "2024-05-11", weights[0].Date)

	series, err := repo.WeightSeries(ctx, rabbit.ID)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "2024-05-01", series[0].Date) // insertion order
}

func TestRecordSaleFlipsStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rabbit := mustRabbit(t, repo, "Daisy", models.SexFemale)

	price := 25.0
	sale := &models.Sale{RabbitID: rabbit.ID, Date: "2024-05-10", Price: &price, Buyer: "market"}
	require.NoError(t, repo.RecordSale(ctx, sale))

	sold, err := repo.RabbitByID(ctx, rabbit.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSold, sold.Status)

	latest, err := repo.LatestSale(ctx, rabbit.ID)
	require.NoError(t, err)
	require.NotNil(t, latest.Price)
	assert.InDelta(t, 25.0, *latest.Price, 0.001)
}

func TestMoneyAggregationsWithPeriodPrefix(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rabbit := mustRabbit(t, repo, "Daisy", models.SexFemale)

	may := 100.0
	june := 50.0
	require.NoError(t, repo.RecordSale(ctx, &models.Sale{RabbitID: rabbit.ID, Date: "2024-05-10", Price: &may}))
	require.NoError(t, repo.RecordSale(ctx, &models.Sale{RabbitID: rabbit.ID, Date: "2024-06-10", Price: &june}))
	require.NoError(t, repo.AddExpense(ctx, &models.Expense{Date: "2024-05-12", Category: "hay", Amount: 40}))

	feedCost := 15.0
	require.NoError(t, repo.AddFeedLog(ctx, &models.FeedLog{Date: "2024-05-20", AmountKg: 10, Cost: &feedCost}))
	require.NoError(t, repo.AddFeedLog(ctx, &models.FeedLog{Date: "2025-01-05", AmountKg: 5}))

	income, err := repo.SumSales(ctx, "2024-05")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, income, 0.001)

	incomeYear, err := repo.SumSales(ctx, "2024")
	require.NoError(t, err)
	assert.InDelta(t, 150.0, incomeYear, 0.001)

	incomeAll, err := repo.SumSales(ctx, "")
	require.NoError(t, err)
	assert.InDelta(t, 150.0, incomeAll, 0.001)

	expenses, err := repo.SumExpenses(ctx, "2024-05")
	require.NoError(t, err)
	assert.InDelta(t, 40.0, expenses, 0.001)

	kg, cost, err := repo.FeedTotals(ctx, "2024")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, kg, 0.001)
	assert.InDelta(t, 15.0, cost, 0.001)

	kgAll, _, err := repo.FeedTotals(ctx, "")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, kgAll, 0.001)

	// An unmatched prefix selects nothing rather than erroring.
	none, err := repo.SumSales(ctx, "1999")
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestFarmStatsCounters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doe := mustRabbit(t, repo, "Rose", models.SexFemale)
	buck := mustRabbit(t, repo, "Buck", models.SexMale)
	sold := mustRabbit(t, repo, "Daisy", models.SexFemale)

	breeding := &models.Breeding{DoeID: doe.ID, BuckID: buck.ID, MatingDate: "2024-05-01", ExpectedDueDate: "2024-06-01"}
	require.NoError(t, repo.CreateBreeding(ctx, breeding))
	require.NoError(t, repo.CloseBreeding(ctx, breeding.ID, "2024-06-02", 7, "2024-07-07", ""))
	require.NoError(t, repo.RecordSale(ctx, &models.Sale{RabbitID: sold.ID, Date: "2024-06-10"}))

	stats, err := repo.FarmStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalRabbits)
	assert.EqualValues(t, 2, stats.ActiveRabbits)
	assert.EqualValues(t, 2, stats.Does)
	assert.EqualValues(t, 1, stats.Bucks)
	assert.EqualValues(t, 1, stats.Breedings)
	assert.EqualValues(t, 1, stats.Litters)
	assert.EqualValues(t, 7, stats.Kits)
	assert.EqualValues(t, 1, stats.Sales)
}

func TestTaskLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := &models.Task{Date: "2024-05-10", Title: "clean cages"}
	require.NoError(t, repo.AddTask(ctx, task))
	require.NoError(t, repo.AddTask(ctx, &models.Task{Date: "2024-05-12", Title: "order feed"}))

	today, err := repo.TasksOn(ctx, "2024-05-10")
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "clean cages", today[0].Title)

	upcoming, err := repo.UpcomingTasks(ctx, "2024-05-10", 10)
	require.NoError(t, err)
	assert.Len(t, upcoming, 2)

	done, err := repo.MarkTaskDone(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, done)

	// Done tasks drop out of the day view; closing again reports false.
	today, err = repo.TasksOn(ctx, "2024-05-10")
	require.NoError(t, err)
	assert.Empty(t, today)

	done, err = repo.MarkTaskDone(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestSettingUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Setting(ctx, models.SettingLastTemperature)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, repo.UpsertSetting(ctx, models.SettingLastTemperature, "28.5"))
	require.NoError(t, repo.UpsertSetting(ctx, models.SettingLastTemperature, "31.0"))

	value, err := repo.Setting(ctx, models.SettingLastTemperature)
	require.NoError(t, err)
	assert.Equal(t, "31.0", value)
}

func TestUnlockAchievementIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.UnlockAchievement(ctx, "first_litter", "2024-05-01")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.UnlockAchievement(ctx, "first_litter", "2024-06-01")
	require.NoError(t, err)
	assert.False(t, created)

	unlocked, err := repo.Achievements(ctx)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	// The original unlock date is preserved.
	assert.Equal(t, "2024-05-01", unlocked[0].UnlockedAt)
}

func TestSubscribeIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Subscribe(ctx, 42, "2024-05-01")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Subscribe(ctx, 42, "2024-05-02")
	require.NoError(t, err)
	assert.False(t, created)

	subs, err := repo.Subscribers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, subs)

	removed, err := repo.Unsubscribe(ctx, 42)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Unsubscribe(ctx, 42)
	require.NoError(t, err)
	assert.False(t, removed)
}

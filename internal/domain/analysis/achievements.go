package analysis

import "github.com/mamadbah2/rabbitry/internal/domain/models"

// AchievementDef describes one milestone.
type AchievementDef struct {
	Key   string
	Title string
}

// Totals aggregates everything achievement thresholds look at.
type Totals struct {
	models.FarmStats
	Profit float64
	FeedKg float64
}

var achievementDefs = []struct {
	def AchievementDef
	met func(Totals) bool
}{
	{AchievementDef{"first_litter", "First litter recorded"}, func(t Totals) bool { return t.Litters >= 1 }},
	{AchievementDef{"ten_litters", "Ten litters recorded"}, func(t Totals) bool { return t.Litters >= 10 }},
	{AchievementDef{"fifty_kits", "Fifty kits born"}, func(t Totals) bool { return t.Kits >= 50 }},
	{AchievementDef{"two_hundred_kits", "Two hundred kits born"}, func(t Totals) bool { return t.Kits >= 200 }},
	{AchievementDef{"first_sale", "First sale"}, func(t Totals) bool { return t.Sales >= 1 }},
	{AchievementDef{"in_the_black", "Profit above zero"}, func(t Totals) bool { return t.Profit > 0 }},
	{AchievementDef{"profit_500", "Profit above 500"}, func(t Totals) bool { return t.Profit > 500 }},
	{AchievementDef{"feed_100", "100 kg of feed logged"}, func(t Totals) bool { return t.FeedKg >= 100 }},
	{AchievementDef{"twenty_rabbits", "Twenty rabbits on the farm"}, func(t Totals) bool { return t.TotalRabbits >= 20 }},
}

// Definitions returns every milestone in evaluation order.
func Definitions() []AchievementDef {
	defs := make([]AchievementDef, 0, len(achievementDefs))
	for _, entry := range achievementDefs {
		defs = append(defs, entry.def)
	}
	return defs
}

// Unlocked evaluates every achievement threshold against the current totals
// and returns the reached ones in a fixed order. Thresholds are inclusive
// unless the title says otherwise.
func Unlocked(t Totals) []AchievementDef {
	var unlocked []AchievementDef
	for _, entry := range achievementDefs {
		if entry.met(t) {
			unlocked = append(unlocked, entry.def)
		}
	}
	return unlocked
}

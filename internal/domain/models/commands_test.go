package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommandBasics(t *testing.T) {
	cmd := ParseCommand("/addrabbit Daisy F")
	assert.Equal(t, CommandAddRabbit, cmd.Type)
	assert.Equal(t, []string{"Daisy", "F"}, cmd.Args)
}

func TestParseCommandKeepsArgumentCase(t *testing.T) {
	cmd := ParseCommand("/WEIGHT DaIsY 1.5")
	assert.Equal(t, CommandWeight, cmd.Type)
	assert.Equal(t, "DaIsY", cmd.Args[0])
}

func TestParseCommandStripsBotMention(t *testing.T) {
	cmd := ParseCommand("/stats@rabbitry_bot")
	assert.Equal(t, CommandStats, cmd.Type)
	assert.Empty(t, cmd.Args)
}

func TestParseCommandWithoutSlash(t *testing.T) {
	cmd := ParseCommand("rabbits")
	assert.Equal(t, CommandRabbits, cmd.Type)
}

func TestParseCommandAliases(t *testing.T) {
	assert.Equal(t, CommandStart, ParseCommand("/help").Type)
	assert.Equal(t, CommandProfit, ParseCommand("/profitmonth").Type)
	assert.Equal(t, CommandProfit, ParseCommand("/profityear").Type)
	assert.Equal(t, CommandFeedStats, ParseCommand("/feedmonth").Type)
}

func TestParseCommandUnknown(t *testing.T) {
	assert.Equal(t, CommandUnknown, ParseCommand("/fly Daisy").Type)
	assert.Equal(t, CommandUnknown, ParseCommand("   ").Type)
}

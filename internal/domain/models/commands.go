package models

import "strings"

// CommandType enumerates supported chat command categories.
type CommandType string

const (
	CommandStart        CommandType = "start"
	CommandAddRabbit    CommandType = "addrabbit"
	CommandRabbits      CommandType = "rabbits"
	CommandActive       CommandType = "active"
	CommandSetCage      CommandType = "setcage"
	CommandSetParents   CommandType = "setparents"
	CommandSetPhoto     CommandType = "setphoto"
	CommandCheckPair    CommandType = "checkpair"
	CommandMarkDead     CommandType = "markdead"
	CommandBreed        CommandType = "breed"
	CommandKindling     CommandType = "kindling"
	CommandLitters      CommandType = "litters"
	CommandLitterName   CommandType = "littername"
	CommandNextDue      CommandType = "nextdue"
	CommandToday        CommandType = "today"
	CommandWeaning      CommandType = "weaning"
	CommandHealth       CommandType = "health"
	CommandHealthLog    CommandType = "healthlog"
	CommandWeight       CommandType = "weight"
	CommandWeightLog    CommandType = "weightlog"
	CommandGrowth       CommandType = "growth"
	CommandGrowthChart  CommandType = "growthchart"
	CommandSell         CommandType = "sell"
	CommandExpense      CommandType = "expense"
	CommandElectric     CommandType = "electric"
	CommandFeed         CommandType = "feed"
	CommandProfit       CommandType = "profit"
	CommandFeedStats    CommandType = "feedstats"
	CommandRemind       CommandType = "remind"
	CommandTaskList     CommandType = "tasklist"
	CommandDoneTask     CommandType = "donetask"
	CommandTemp         CommandType = "temp"
	CommandSuggest      CommandType = "suggest"
	CommandAchievements CommandType = "achievements"
	CommandStats        CommandType = "stats"
	CommandInfo         CommandType = "info"
	CommandFarmSummary  CommandType = "farmsummary"
	CommandExport       CommandType = "export"
	CommandBackup       CommandType = "backup"
	CommandSubscribe    CommandType = "subscribe"
	CommandUnsubscribe  CommandType = "unsubscribe"
	CommandUnknown      CommandType = "unknown"
)

var commandsByName = map[string]CommandType{
	"start":        CommandStart,
	"help":         CommandStart,
	"addrabbit":    CommandAddRabbit,
	"rabbits":      CommandRabbits,
	"active":       CommandActive,
	"setcage":      CommandSetCage,
	"setparents":   CommandSetParents,
	"setphoto":     CommandSetPhoto,
	"checkpair":    CommandCheckPair,
	"markdead":     CommandMarkDead,
	"breed":        CommandBreed,
	"kindling":     CommandKindling,
	"litters":      CommandLitters,
	"littername":   CommandLitterName,
	"nextdue":      CommandNextDue,
	"today":        CommandToday,
	"weaning":      CommandWeaning,
	"health":       CommandHealth,
	"healthlog":    CommandHealthLog,
	"weight":       CommandWeight,
	"weightlog":    CommandWeightLog,
	"growth":       CommandGrowth,
	"growthchart":  CommandGrowthChart,
	"sell":         CommandSell,
	"expense":      CommandExpense,
	"electric":     CommandElectric,
	"feed":         CommandFeed,
	"profit":       CommandProfit,
	"profitmonth":  CommandProfit,
	"profityear":   CommandProfit,
	"feedstats":    CommandFeedStats,
	"feedmonth":    CommandFeedStats,
	"remind":       CommandRemind,
	"tasklist":     CommandTaskList,
	"donetask":     CommandDoneTask,
	"temp":         CommandTemp,
	"suggest":      CommandSuggest,
	"achievements": CommandAchievements,
	"stats":        CommandStats,
	"info":         CommandInfo,
	"farmsummary":  CommandFarmSummary,
	"export":       CommandExport,
	"backup":       CommandBackup,
	"subscribe":    CommandSubscribe,
	"unsubscribe":  CommandUnsubscribe,
}

// Command represents a parsed operator instruction extracted from chat text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from a message. The command word is matched
// case-insensitively (with an optional leading "/" and "@botname" suffix);
// arguments keep their original case because rabbit names are matched exactly.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(strings.TrimSpace(message))
	if len(tokens) == 0 {
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}

	if t, ok := commandsByName[head]; ok {
		cmd.Type = t
	}
	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}

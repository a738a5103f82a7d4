package llm

// AgentTools are the tools the chat agent may call.
var AgentTools = []Tool{
	{
		Name:        "get_time",
		Description: "Get the current date and time, in UTC and in the given IANA timezone (default America/Vancouver).",
		Parameters: obj(map[string]any{
			"timezone": prop("string", "IANA timezone name, e.g. Europe/Helsinki"),
		}),
	},
	{
		Name:        "get_quit_stats",
		Description: "Get the quit-smoking statistics: days without smoking, cigarettes not smoked, packs not bought and money saved.",
		Parameters:  obj(nil),
	},
	{
		Name:        "list_reminders",
		Description: "List the scheduled reminders with their cron schedule, timezone and next fire time.",
		Parameters: obj(map[string]any{
			"family": prop("string", "Only reminders whose id contains this word: smoking, water, medicine, french"),
		}),
	},
}

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func obj(properties map[string]any) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

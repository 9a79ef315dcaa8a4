package indicator

type messages struct {
	listening string
	errorText string
}

// displayed strings are English-only
func defaultMessages() messages {
	return messages{
		listening: "Listening…",
		errorText: "Speech recognition error",
	}
}

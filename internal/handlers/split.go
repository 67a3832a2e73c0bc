package handlers

// Telegram rejects messages over 4096 characters; chunk safely below that.
const maxMessageLength = 4000

// splitMessage chunks s into rune-safe pieces of at most limit runes.
func splitMessage(s string, limit int) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return []string{s}
	}
	chunks := make([]string, 0, len(runes)/limit+1)
	for len(runes) > 0 {
		n := limit
		if len(runes) < n {
			n = len(runes)
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}

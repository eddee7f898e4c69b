package webhook

// Cloud API webhook delivery payload. Only the fields the gateway reads are
// declared; everything else in the notification is ignored.
type payload struct {
	Object string  `json:"object"`
	Entry  []entry `json:"entry"`
}

type entry struct {
	ID      string   `json:"id"`
	Changes []change `json:"changes"`
}

type change struct {
	Field string `json:"field"`
	Value value  `json:"value"`
}

type value struct {
	MessagingProduct string    `json:"messaging_product"`
	Messages         []message `json:"messages"`
}

type message struct {
	From string `json:"from"`
	ID   string `json:"id"`
	Type string `json:"type"`
	Text *text  `json:"text"`
}

type text struct {
	Body string `json:"body"`
}

// firstMessage walks entry[0].changes[0].value.messages[0] and reports
// whether a text message was present. Status-only notifications (delivery
// receipts, read markers) have no messages array and are not an error.
func (p payload) firstMessage() (from, body string, ok bool) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return "", "", false
	}
	msgs := p.Entry[0].Changes[0].Value.Messages
	if len(msgs) == 0 {
		return "", "", false
	}
	m := msgs[0]
	if m.From == "" || m.Text == nil {
		return "", "", false
	}
	return m.From, m.Text.Body, true
}

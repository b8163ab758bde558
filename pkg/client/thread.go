package client

// InitialMessagePrefix marks the pseudo-message built from a contact request.
const InitialMessagePrefix = "initial-"

// BuildThread returns the conversation as a reader sees it: the contact
// request's own message first, followed by the stored thread. The opening
// message is only synthesized when the request carries text and no client
// message in the thread already repeats it.
func BuildThread(req ContactRequest, msgs []Message) []Message {
	out := make([]Message, 0, len(msgs)+1)
	if req.Message != "" && !hasClientText(msgs, req.Message) {
		out = append(out, Message{
			ID:               InitialMessagePrefix + req.ID,
			ContactRequestID: req.ID,
			SenderID:         req.ClientID,
			SenderName:       req.ClientName,
			SenderRole:       "CLIENT",
			Text:             req.Message,
			CreatedAt:        req.CreatedAt,
		})
	}
	return append(out, msgs...)
}

func hasClientText(msgs []Message, text string) bool {
	for _, m := range msgs {
		if m.SenderRole == "CLIENT" && m.Text == text {
			return true
		}
	}
	return false
}

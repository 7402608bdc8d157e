package domain

// TelegramUpdate is the subset of a Bot API update this service consumes.
type TelegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *TelegramMessage `json:"message,omitempty"`
}

type TelegramMessage struct {
	MessageID int64         `json:"message_id"`
	From      *TelegramUser `json:"from,omitempty"`
	Chat      TelegramChat  `json:"chat"`
	Text      string        `json:"text,omitempty"`
}

type TelegramUser struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

type TelegramChat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

const (
	ChatPrivate    = "private"
	ChatGroup      = "group"
	ChatSupergroup = "supergroup"
)

// IsGroup reports whether the chat can be linked to a company.
func (c TelegramChat) IsGroup() bool {
	return c.Type == ChatGroup || c.Type == ChatSupergroup
}

// LinkButton is an inline keyboard button that opens a URL.
type LinkButton struct {
	Text string
	URL  string
}

// OutboundMessage is a bot message waiting to be delivered.
type OutboundMessage struct {
	ChatID  int64
	Text    string
	Buttons []LinkButton
}

package domain

// FormID identifies one recruitment form; edits and roster groups are
// keyed by it in the store.
type FormID string

const GroupSize = 10

// EditAction is a single mutation against a form document.
type EditAction struct {
	Type        string          `json:"type"`
	Row         *int            `json:"row,omitempty"`
	Col         *int            `json:"col,omitempty"`
	Value       *string         `json:"value,omitempty"`
	CellAddress string          `json:"cellAddress,omitempty"`
	Timestamp   int64           `json:"timestamp,omitempty"`
	Content     *string         `json:"content,omitempty"`
	Formatting  *CellFormatting `json:"formatting,omitempty"`
}

type CellFormatting struct {
	TextColor      string `json:"textColor,omitempty"`
	BgColor        string `json:"bgColor,omitempty"`
	FontWeight     string `json:"fontWeight,omitempty"`
	FontStyle      string `json:"fontStyle,omitempty"`
	TextDecoration string `json:"textDecoration,omitempty"`
	FontSize       string `json:"fontSize,omitempty"`
	TextAlign      string `json:"textAlign,omitempty"`
}

// Edit is a persisted, attributed edit. PseudonymHash never leaves
// the server.
type Edit struct {
	ID            string     `json:"id"`
	FormID        FormID     `json:"formId"`
	DisplayName   string     `json:"displayName"`
	PseudonymHash string     `json:"pseudonym_hash,omitempty"`
	Action        EditAction `json:"action"`
	CreatedAt     string     `json:"created_at"`
}

type GroupMember struct {
	Name       string  `json:"name"`
	Profession string  `json:"profession"`
	Weapon     string  `json:"weapon"`
	GearScore  float64 `json:"gearScore"`
}

// GroupEntry is one submitted roster of GroupSize members.
type GroupEntry struct {
	ID            string        `json:"id"`
	FormID        FormID        `json:"formId"`
	DisplayName   string        `json:"displayName,omitempty"`
	PseudonymHash string        `json:"pseudonym_hash,omitempty"`
	Members       []GroupMember `json:"members"`
	CreatedAt     string        `json:"created_at"`
}

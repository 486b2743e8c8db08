package notion

// Page is the boundary representation of a Notion database row. Every
// property is optional; the normalizer in internal/tasks converts this shape
// into the strict internal task type and it must not leak further.
type Page struct {
	ID         string     `json:"id"`
	URL        string     `json:"url,omitempty"`
	Properties Properties `json:"properties"`
}

// Properties carries the subset of page properties the widget reads.
// Pointers distinguish "absent" from "present but empty".
type Properties struct {
	Name      *TitleProperty    `json:"Name,omitempty"`
	Due       *DateProperty     `json:"Due,omitempty"`
	Course    *SelectProperty   `json:"Course,omitempty"`
	Grade     *NumberProperty   `json:"Grade,omitempty"`
	Type      *SelectProperty   `json:"Type,omitempty"`
	Completed *CheckboxProperty `json:"Completed,omitempty"`
}

// TitleProperty holds a title rich-text list.
type TitleProperty struct {
	Title []RichText `json:"title"`
}

// RichText is a single rich-text fragment.
type RichText struct {
	Text *TextContent `json:"text,omitempty"`
}

// TextContent is the plain content of a rich-text fragment.
type TextContent struct {
	Content string `json:"content"`
}

// DateProperty holds a date value.
type DateProperty struct {
	Date *DateValue `json:"date,omitempty"`
}

// DateValue is a calendar date, optionally with a time component.
type DateValue struct {
	Start string `json:"start"`
}

// SelectProperty holds a select value.
type SelectProperty struct {
	Select *SelectValue `json:"select,omitempty"`
}

// SelectValue is a selected option with its palette color.
type SelectValue struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// NumberProperty holds a numeric value.
type NumberProperty struct {
	Number *float64 `json:"number,omitempty"`
}

// CheckboxProperty holds a checkbox value.
type CheckboxProperty struct {
	Checkbox bool `json:"checkbox"`
}

// QueryResponse is a database query result page.
type QueryResponse struct {
	Object     string `json:"object"`
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// Database is the reduced projection of a database returned by the gateway's
// listing endpoint.
type Database struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	CreatedTime    string `json:"created_time"`
	LastEditedTime string `json:"last_edited_time"`
}

// searchResponse is the upstream search result shape.
type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID             string     `json:"id"`
	URL            string     `json:"url"`
	CreatedTime    string     `json:"created_time"`
	LastEditedTime string     `json:"last_edited_time"`
	Title          []RichText `json:"title"`
	Object         string     `json:"object"`
}

// TokenResult is the reduced OAuth exchange response passed back to clients.
type TokenResult struct {
	AccessToken   string `json:"access_token"`
	WorkspaceID   string `json:"workspace_id"`
	WorkspaceName string `json:"workspace_name"`
}

package llmprovider

// Role constants for conversation turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Part type constants
const (
	PartTypeText  = "text"
	PartTypeImage = "image"
)

// Part is a single content part within a conversation turn.
// A part is either text or an image reference; image bytes travel
// base64-encoded and are rendered as a data URI on the wire.
type Part struct {
	// Type indicates the part type
	// Values: "text", "image"
	Type string `json:"type"`

	// Text contains the text for text parts
	Text string `json:"text,omitempty"`

	// ImageMIME is the MIME type for image parts (e.g. "image/png")
	ImageMIME string `json:"image_mime,omitempty"`

	// ImageData contains base64-encoded image bytes for image parts
	ImageData string `json:"image_data,omitempty"`
}

// NewTextPart creates a text content part.
func NewTextPart(text string) Part {
	return Part{Type: PartTypeText, Text: text}
}

// NewImagePart creates an image content part from base64-encoded bytes.
func NewImagePart(mime, base64Data string) Part {
	return Part{Type: PartTypeImage, ImageMIME: mime, ImageData: base64Data}
}

// IsText returns true if this is a text part
func (p *Part) IsText() bool {
	return p.Type == PartTypeText
}

// IsImage returns true if this is an image part
func (p *Part) IsImage() bool {
	return p.Type == PartTypeImage
}

// Turn represents a single turn in the conversation.
type Turn struct {
	// Role is "user", "assistant", or "system"
	Role string `json:"role"`

	// Parts is the ordered list of content parts for this turn
	Parts []Part `json:"parts"`
}

// NewTextTurn creates a turn with a single text part.
func NewTextTurn(role, text string) Turn {
	return Turn{Role: role, Parts: []Part{NewTextPart(text)}}
}

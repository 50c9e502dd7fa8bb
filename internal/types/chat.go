package types

import "strings"

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Normalize maps anything that is not user onto assistant
func (r Role) Normalize() Role {
	if strings.EqualFold(string(r), string(RoleUser)) {
		return RoleUser
	}
	return RoleAssistant
}

// ChatMessage is one turn of the health chat. Assistant content may carry
// embedded recipes between RECIPE_START and RECIPE_END markers.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Image is the decoded upload passed to a vision backend
type Image struct {
	Data      []byte
	MediaType string
}

// DefaultImageType is assumed when the client does not say otherwise
const DefaultImageType = "image/jpeg"

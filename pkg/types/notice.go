package types

import "github.com/satyam539813/farmappsample/pkg/enums"

// Notice is the short user-facing message attached to an operation outcome.
type Notice struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Variant     enums.NoticeVariant `json:"variant"`
}

// InfoNotice builds a default-variant notice.
func InfoNotice(title, description string) Notice {
	return Notice{Title: title, Description: description, Variant: enums.NoticeVariantDefault}
}

// DestructiveNotice builds a notice reporting a failure.
func DestructiveNotice(title, description string) Notice {
	return Notice{Title: title, Description: description, Variant: enums.NoticeVariantDestructive}
}

package dto

// Settings mirrors the backend's preference blob. The client never
// interprets these values beyond displaying and editing them.
type Settings struct {
	Theme                string
	LLMProvider          string
	NotificationEnabled  bool
	VoiceCommandsEnabled bool
}

// UpdateInput carries a partial update; nil fields are left untouched
// server-side. APIKey is write-only and never read back.
type UpdateInput struct {
	Theme                *string
	APIKey               *string
	LLMProvider          *string
	NotificationEnabled  *bool
	VoiceCommandsEnabled *bool
}

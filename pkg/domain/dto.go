package domain

// SettingsDTO is the settings payload exchanged with the web UI.
// No range is enforced on Confidence, the detector decides how to interpret it.
type SettingsDTO struct {
	Confidence float64 `json:"confidence" jsonschema:"description=Confidence threshold for detections"`
}

// ExampleDTO demonstrates how a backend response maps onto a typed value on the frontend.
// The server uses it for the optional banner message.
type ExampleDTO struct {
	TextValue string `json:"textValue" jsonschema:"description=Free text value"`
}

// DefaultSettings returns settings with default values
func DefaultSettings() SettingsDTO {
	return SettingsDTO{Confidence: DefaultConfidence}
}

package types

// Settings mirrors the backend settings object.
type Settings struct {
	ModelVersion string  `json:"model_version,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
}

// UpdateSettingsResponse is the backend reply to PUT /api/settings.
type UpdateSettingsResponse struct {
	Success  bool     `json:"success"`
	Settings Settings `json:"settings"`
}

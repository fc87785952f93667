package domain

// Theme selects the colour scheme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

// ViewMode selects how link collections are laid out.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

func (v ViewMode) Valid() bool {
	return v == ViewGrid || v == ViewList
}

// Settings is the singleton preferences record.
type Settings struct {
	Theme    Theme    `json:"theme"`
	ViewMode ViewMode `json:"viewMode"`
}

// DefaultSettings is used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{Theme: ThemeSystem, ViewMode: ViewGrid}
}

// Normalize fills empty or unknown fields with defaults, for data read back from storage.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if !s.Theme.Valid() {
		s.Theme = def.Theme
	}
	if !s.ViewMode.Valid() {
		s.ViewMode = def.ViewMode
	}
	return s
}

// SettingsPatch is a shallow partial update.
type SettingsPatch struct {
	Theme    *Theme    `json:"theme,omitempty"`
	ViewMode *ViewMode `json:"viewMode,omitempty"`
}

// Validate rejects values outside their enumerations.
func (p SettingsPatch) Validate() error {
	if p.Theme != nil && !p.Theme.Valid() {
		return ErrInvalidSettings
	}
	if p.ViewMode != nil && !p.ViewMode.Valid() {
		return ErrInvalidSettings
	}
	return nil
}

// Apply merges the patch into s.
func (p SettingsPatch) Apply(s *Settings) {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.ViewMode != nil {
		s.ViewMode = *p.ViewMode
	}
}

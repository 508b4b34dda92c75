package models

// Background modes
const (
	BackgroundModeAuto   = "auto"
	BackgroundModeManual = "manual"
)

// ManualBackground selects a fixed background when BackgroundMode is "manual"
type ManualBackground struct {
	TimeOfDay string `json:"timeOfDay"` // dawn|morning|day|afternoon|evening|dusk|night
	Weather   string `json:"weather"`   // sunny|cloudy|rainy|snowy
}

// CustomGreetings holds optional per-period greeting overrides (reserved)
type CustomGreetings struct {
	Morning   string `json:"morning,omitempty"`
	Afternoon string `json:"afternoon,omitempty"`
	Evening   string `json:"evening,omitempty"`
	Night     string `json:"night,omitempty"`
	Weekend   string `json:"weekend,omitempty"`
}

// UserProfile is the singleton per-user dashboard configuration.
// Visibility flags are pointers so that "absent" can be told apart from
// "explicitly false"; absent flags default to true.
type UserProfile struct {
	Nickname         string            `json:"nickname"`
	Avatar           string            `json:"avatar,omitempty"`
	CustomGreetings  *CustomGreetings  `json:"customGreetings,omitempty"`
	Timezone         string            `json:"timezone,omitempty"`
	DateFormat       string            `json:"dateFormat,omitempty"`
	ShowClock        *bool             `json:"showClock,omitempty"`
	ShowGreeting     *bool             `json:"showGreeting,omitempty"`
	ShowWeather      *bool             `json:"showWeather,omitempty"`
	Language         string            `json:"language,omitempty"`
	BackgroundMode   string            `json:"backgroundMode,omitempty"`
	ManualBackground *ManualBackground `json:"manualBackground,omitempty"`
	FunctionMode     *bool             `json:"functionMode,omitempty"`
	DarkMode         *bool             `json:"darkMode,omitempty"`
}

// DefaultUserProfile returns the first-run profile
func DefaultUserProfile() UserProfile {
	return UserProfile{
		Nickname:       "云螭",
		Language:       "zh-CN",
		ShowClock:      boolPtr(true),
		ShowGreeting:   boolPtr(true),
		ShowWeather:    boolPtr(true),
		BackgroundMode: BackgroundModeAuto,
		ManualBackground: &ManualBackground{
			TimeOfDay: "day",
			Weather:   "sunny",
		},
		FunctionMode: boolPtr(true),
		DarkMode:     boolPtr(false),
	}
}

// Normalize fills documented defaults for absent fields. The record is
// read-modify-written as a whole; callers merge before writing.
func (p *UserProfile) Normalize() {
	if p.ShowClock == nil {
		p.ShowClock = boolPtr(true)
	}
	if p.ShowGreeting == nil {
		p.ShowGreeting = boolPtr(true)
	}
	if p.ShowWeather == nil {
		p.ShowWeather = boolPtr(true)
	}
	if p.FunctionMode == nil {
		p.FunctionMode = boolPtr(true)
	}
	if p.DarkMode == nil {
		p.DarkMode = boolPtr(false)
	}
	if p.BackgroundMode == "" {
		p.BackgroundMode = BackgroundModeAuto
	}
}

func boolPtr(b bool) *bool { return &b }

package weather

// Open-Meteo WMO weather interpretation codes.
const (
	CodeClearSky            = 0
	CodeMainlyClear         = 1
	CodePartlyCloudy        = 2
	CodeOvercast            = 3
	CodeFog                 = 45
	CodeRimeFog             = 48
	CodeLightDrizzle        = 51
	CodeModerateDrizzle     = 53
	CodeDenseDrizzle        = 55
	CodeLightRain           = 61
	CodeModerateRain        = 63
	CodeHeavyRain           = 65
	CodeLightSnow           = 71
	CodeModerateSnow        = 73
	CodeHeavySnow           = 75
	CodeSnowGrains          = 77
	CodeLightRainShowers    = 80
	CodeModerateRainShowers = 81
	CodeHeavyRainShowers    = 82
	CodeLightSnowShowers    = 85
	CodeHeavySnowShowers    = 86
	CodeThunderstorm        = 95
	CodeThunderstormLtHail  = 96
	CodeThunderstormHvyHail = 99
)

var conditionText = map[int]string{
	CodeClearSky:            "Clear sky",
	CodeMainlyClear:         "Mainly clear",
	CodePartlyCloudy:        "Partly cloudy",
	CodeOvercast:            "Overcast",
	CodeFog:                 "Fog",
	CodeRimeFog:             "Depositing rime fog",
	CodeLightDrizzle:        "Light drizzle",
	CodeModerateDrizzle:     "Moderate drizzle",
	CodeDenseDrizzle:        "Dense drizzle",
	CodeLightRain:           "Light rain",
	CodeModerateRain:        "Moderate rain",
	CodeHeavyRain:           "Heavy rain",
	CodeLightSnow:           "Light snow",
	CodeModerateSnow:        "Moderate snow",
	CodeHeavySnow:           "Heavy snow",
	CodeSnowGrains:          "Snow grains",
	CodeLightRainShowers:    "Light rain showers",
	CodeModerateRainShowers: "Moderate rain showers",
	CodeHeavyRainShowers:    "Heavy rain showers",
	CodeLightSnowShowers:    "Light snow showers",
	CodeHeavySnowShowers:    "Heavy snow showers",
	CodeThunderstorm:        "Thunderstorm",
	CodeThunderstormLtHail:  "Thunderstorm with light hail",
	CodeThunderstormHvyHail: "Thunderstorm with heavy hail",
}

var conditionIcon = map[int]string{
	CodeClearSky:            "☀️",
	CodeMainlyClear:         "🌤️",
	CodePartlyCloudy:        "⛅",
	CodeOvercast:            "☁️",
	CodeFog:                 "🌫️",
	CodeRimeFog:             "🌫️",
	CodeLightDrizzle:        "🌦️",
	CodeModerateDrizzle:     "🌦️",
	CodeDenseDrizzle:        "🌧️",
	CodeLightRain:           "🌧️",
	CodeModerateRain:        "🌧️",
	CodeHeavyRain:           "⛈️",
	CodeLightSnow:           "❄️",
	CodeModerateSnow:        "❄️",
	CodeHeavySnow:           "❄️",
	CodeSnowGrains:          "🌨️",
	CodeLightRainShowers:    "🌦️",
	CodeModerateRainShowers: "🌧️",
	CodeHeavyRainShowers:    "⛈️",
	CodeLightSnowShowers:    "🌨️",
	CodeHeavySnowShowers:    "🌨️",
	CodeThunderstorm:        "⛈️",
	CodeThunderstormLtHail:  "⛈️",
	CodeThunderstormHvyHail: "⛈️",
}

// ConditionText returns the human description for a weather code. Unknown
// codes fall back to "Unknown".
func ConditionText(code int) string {
	if s, ok := conditionText[code]; ok {
		return s
	}
	return "Unknown"
}

// ConditionIcon returns the emoji for a weather code. Clear sky differs
// between day and night.
func ConditionIcon(code int, isDay bool) string {
	if code == CodeClearSky && !isDay {
		return "🌙"
	}
	if s, ok := conditionIcon[code]; ok {
		return s
	}
	return "🌤️"
}

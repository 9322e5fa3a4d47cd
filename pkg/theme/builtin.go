package theme

func registerBuiltins() {
	for _, t := range []Theme{
		parisNight(),
		daylight(),
		nord(),
		mono(),
	} {
		Register(t)
	}
}

// parisNight is the default: deep navy with warm gold digits, readable from
// across a room.
func parisNight() Theme {
	return Theme{
		Name:       "paris-night",
		Background: "#0f1724",
		Foreground: "#e6e9ef",
		Dim:        "#6b7689",
		Accent:     "#f2c14e",

		Border:      "#26324a",
		BorderFocus: "#f2c14e",
		Title:       "#9fb3d1",

		StatusOK:    "#5fd38d",
		StatusSync:  "#7aa2f7",
		StatusError: "#ff6b6b",

		ClockDigits:  "#f2c14e",
		ClockSeconds: "#9fb3d1",
		Date:         "#c8d1e0",

		Temperature: "#ffffff",
		WeatherIcon: "#f2c14e",

		Badge:     "#26324a",
		BadgeText: "#f2c14e",
		Link:      "#7aa2f7",
		Selected:  "#f2c14e",

		HelpKey:  "#f2c14e",
		HelpDesc: "#6b7689",
	}
}

// daylight is a light theme for bright lobbies.
func daylight() Theme {
	return Theme{
		Name:       "daylight",
		Background: "#f7f5f0",
		Foreground: "#1f2430",
		Dim:        "#7a7f8a",
		Accent:     "#1d4ed8",

		Border:      "#d6d3cc",
		BorderFocus: "#1d4ed8",
		Title:       "#4b5563",

		StatusOK:    "#15803d",
		StatusSync:  "#1d4ed8",
		StatusError: "#b91c1c",

		ClockDigits:  "#1f2430",
		ClockSeconds: "#7a7f8a",
		Date:         "#4b5563",

		Temperature: "#1f2430",
		WeatherIcon: "#d97706",

		Badge:     "#e5e7eb",
		BadgeText: "#1d4ed8",
		Link:      "#1d4ed8",
		Selected:  "#d97706",

		HelpKey:  "#1d4ed8",
		HelpDesc: "#7a7f8a",
	}
}

// nord is the arctic blue palette.
func nord() Theme {
	return Theme{
		Name:       "nord",
		Background: "#2e3440",
		Foreground: "#eceff4",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",

		Border:      "#3b4252",
		BorderFocus: "#88c0d0",
		Title:       "#d8dee9",

		StatusOK:    "#a3be8c",
		StatusSync:  "#81a1c1",
		StatusError: "#bf616a",

		ClockDigits:  "#88c0d0",
		ClockSeconds: "#81a1c1",
		Date:         "#d8dee9",

		Temperature: "#eceff4",
		WeatherIcon: "#ebcb8b",

		Badge:     "#3b4252",
		BadgeText: "#88c0d0",
		Link:      "#81a1c1",
		Selected:  "#ebcb8b",

		HelpKey:  "#88c0d0",
		HelpDesc: "#4c566a",
	}
}

// mono is greyscale, for e-ink style panels.
func mono() Theme {
	return Theme{
		Name:       "mono",
		Background: "#000000",
		Foreground: "#e0e0e0",
		Dim:        "#808080",
		Accent:     "#ffffff",

		Border:      "#404040",
		BorderFocus: "#ffffff",
		Title:       "#b0b0b0",

		StatusOK:    "#e0e0e0",
		StatusSync:  "#b0b0b0",
		StatusError: "#ffffff",

		ClockDigits:  "#ffffff",
		ClockSeconds: "#b0b0b0",
		Date:         "#e0e0e0",

		Temperature: "#ffffff",
		WeatherIcon: "#e0e0e0",

		Badge:     "#404040",
		BadgeText: "#ffffff",
		Link:      "#b0b0b0",
		Selected:  "#ffffff",

		HelpKey:  "#ffffff",
		HelpDesc: "#808080",
	}
}

package config

import "sort"

// DefaultPreset is used when no preset or rows are configured.
const DefaultPreset = "kiosk"

var presets = map[string]func() LayoutConfig{
	"kiosk":    kioskPreset,
	"portrait": portraitPreset,
	"headline": headlinePreset,
}

// PresetNames returns the known preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LayoutPreset returns the layout for a named preset. Unknown names fall
// back to the kiosk preset.
func LayoutPreset(name string) LayoutConfig {
	if p, ok := presets[name]; ok {
		return p()
	}
	return kioskPreset()
}

// kioskPreset is the landscape wall display.
//
//	Row 1 (ratio 2): [clock:3] [weather:2]
//	Row 2 (ratio 3): [news:1]
func kioskPreset() LayoutConfig {
	return LayoutConfig{
		Preset: "kiosk",
		Rows: []RowConfig{
			{
				Ratio: 2,
				Children: []ChildConfig{
					{Type: "clock", Ratio: 3},
					{Type: "weather", Ratio: 2},
				},
			},
			{
				Ratio: 3,
				Children: []ChildConfig{
					{Type: "news", Ratio: 1},
				},
			},
		},
	}
}

// portraitPreset stacks everything for tall screens.
//
//	Row 1 (ratio 2): [clock:1]
//	Row 2 (ratio 2): [weather:1]
//	Row 3 (ratio 5): [news:1]
func portraitPreset() LayoutConfig {
	return LayoutConfig{
		Preset: "portrait",
		Rows: []RowConfig{
			{Ratio: 2, Children: []ChildConfig{{Type: "clock", Ratio: 1}}},
			{Ratio: 2, Children: []ChildConfig{{Type: "weather", Ratio: 1}}},
			{Ratio: 5, Children: []ChildConfig{{Type: "news", Ratio: 1}}},
		},
	}
}

// headlinePreset gives the news feed most of the screen.
//
//	Row 1 (ratio 1): [clock:1] [weather:1]
//	Row 2 (ratio 4): [news:1]
func headlinePreset() LayoutConfig {
	return LayoutConfig{
		Preset: "headline",
		Rows: []RowConfig{
			{
				Ratio: 1,
				Children: []ChildConfig{
					{Type: "clock", Ratio: 1},
					{Type: "weather", Ratio: 1},
				},
			},
			{
				Ratio: 4,
				Children: []ChildConfig{
					{Type: "news", Ratio: 1},
				},
			},
		},
	}
}

package theme

// Default mirrors the stock Home Assistant light theme for the variables the
// card reads.
func Default() Theme {
	return New("default", map[string]string{
		PrimaryColor:  "#03a9f4",
		PrimaryText:   "#212121",
		SecondaryText: "#727272",
		DisabledColor: "#bdbdbd",

		OrangeColor:          "#ff9800",
		"--deep-orange-color": "#ff6f22",
		"--red-color":         "#f44336",
		"--green-color":       "#4caf50",
		"--light-green-color": "#8bc34a",
		"--blue-color":        "#2196f3",
		"--amber-color":       "#ffc107",

		ClimateHeating: "var(--deep-orange-color)",
		ClimateCooling: "var(--blue-color)",
		ClimateAuto:    "var(--green-color)",

		WaterHeaterEco:         "var(--light-green-color)",
		WaterHeaterElectric:    "var(--amber-color)",
		WaterHeaterPerformance: "var(--red-color)",
		WaterHeaterHeatPump:    "var(--orange-color)",
		WaterHeaterActive:      "var(--orange-color)",
	})
}

// Registry holds the host's named themes plus the base theme in effect.
type Registry struct {
	Base   Theme
	Themes map[string]Theme
}

// Resolve returns the base theme overlaid with the named theme. Unknown or
// empty names return the base theme unchanged.
func (r Registry) Resolve(name string) Theme {
	if name == "" || r.Themes == nil {
		return r.Base
	}
	named, ok := r.Themes[name]
	if !ok {
		return r.Base
	}
	return r.Base.Overlay(named)
}

// Named reports whether a theme with the given name is registered.
func (r Registry) Named(name string) (Theme, bool) {
	if r.Themes == nil {
		return Theme{}, false
	}
	t, ok := r.Themes[name]
	return t, ok
}

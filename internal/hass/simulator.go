package hass

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/thermocard/internal/entity"
	"github.com/alexisbeaulieu97/thermocard/internal/logger"
	"github.com/alexisbeaulieu97/thermocard/internal/theme"
)

// Entity ids published by the simulator.
const (
	SimulatedBoilerID     = "water_heater.thermowatt_boiler"
	SimulatedThermostatID = "climate.living_room"

	simulatorEndpoint = "simulator"
	ticksPerMode      = 6
)

// Thermowatt command codes as reported in the boiler's Cmd status field.
const (
	CmdEco     = 3
	CmdManual  = 9
	CmdOff     = 16
	CmdAuto    = 17
	CmdHoliday = 65
)

// ThermowattMode maps a Thermowatt command code to the water heater mode
// Home Assistant shows for it.
func ThermowattMode(cmd int) string {
	switch cmd {
	case CmdManual:
		return "Manual"
	case CmdEco:
		return "Eco"
	case CmdAuto:
		return "Auto"
	case CmdHoliday:
		return "Holiday"
	case CmdOff:
		return "off"
	default:
		return "Off"
	}
}

// HeatingFromStatus reports whether the boiler's resistance is on: bit 0 of
// WaterHeaterSts.
func HeatingFromStatus(sts int) bool {
	return sts&1 != 0
}

var boilerCycle = []struct {
	cmd      int
	setpoint float64
}{
	{cmd: CmdEco, setpoint: 45},
	{cmd: CmdManual, setpoint: 60},
	{cmd: CmdAuto, setpoint: 55},
	{cmd: CmdHoliday, setpoint: 20},
	{cmd: CmdOff, setpoint: 0},
}

var thermostatCycle = []struct {
	mode   string
	target float64
}{
	{mode: "heat", target: 21.5},
	{mode: "auto", target: 20},
	{mode: "cool", target: 19},
	{mode: entity.StateOff, target: 19},
}

// SimulatorOptions configures a Simulator.
type SimulatorOptions struct {
	Interval time.Duration
	Logger   *logger.Logger
	Clock    func() time.Time
}

// Simulator is a Source that emulates a Thermowatt boiler and a room
// thermostat so the card can run without Home Assistant.
type Simulator struct {
	interval time.Duration
	log      *logger.Logger
	clock    func() time.Time

	tick       int
	boilerTemp float64
	roomTemp   float64
	boiler     entity.Snapshot
	thermostat entity.Snapshot
}

// NewSimulator creates a Simulator in its initial state.
func NewSimulator(opts SimulatorOptions) *Simulator {
	interval := opts.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	s := &Simulator{
		interval:   interval,
		log:        log.With("run_id", uuid.NewString()),
		clock:      clock,
		boilerTemp: 38,
		roomTemp:   19,
	}
	s.boiler = s.boilerSnapshot()
	s.thermostat = s.thermostatSnapshot()
	return s
}

// States returns the current simulated entities.
func (s *Simulator) States() []entity.Snapshot {
	return []entity.Snapshot{s.boiler, s.thermostat}
}

// Step advances the simulation by one tick and returns the entities whose
// state or attributes changed.
func (s *Simulator) Step() []entity.Snapshot {
	s.tick++

	boilerPhase := boilerCycle[(s.tick/ticksPerMode)%len(boilerCycle)]
	if boilerPhase.cmd != CmdOff && s.boilerTemp < boilerPhase.setpoint-1 {
		s.boilerTemp += 1.5
	} else if s.boilerTemp > 15 {
		s.boilerTemp -= 0.5
	}

	thermoPhase := thermostatCycle[(s.tick/ticksPerMode)%len(thermostatCycle)]
	switch action := thermostatAction(thermoPhase.mode, s.roomTemp, thermoPhase.target); action {
	case "heating":
		s.roomTemp += 0.3
	case "cooling":
		s.roomTemp -= 0.3
	default:
		s.roomTemp += 0.05 * math.Copysign(1, 18-s.roomTemp)
	}

	var changed []entity.Snapshot
	if next := s.boilerSnapshot(); !next.Equal(s.boiler) {
		s.boiler = next
		changed = append(changed, next)
	}
	if next := s.thermostatSnapshot(); !next.Equal(s.thermostat) {
		s.thermostat = next
		changed = append(changed, next)
	}
	return changed
}

// Run implements Source.
func (s *Simulator) Run(ctx context.Context, sink Sink) error {
	sink.SetStatus(Status{Connected: true, Simulated: true, Endpoint: simulatorEndpoint})
	sink.ReplaceThemes(simulatedThemes())
	sink.ReplaceStates(s.States())
	s.log.With("interval", s.interval.String()).Info("simulator started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			sink.SetStatus(Status{Simulated: true, Endpoint: simulatorEndpoint})
			s.log.Info("simulator stopped")
			return nil
		case <-ticker.C:
			for _, snap := range s.Step() {
				s.log.WithFields(map[string]any{"entity_id": snap.EntityID, "state": snap.State}).Debug("simulated state change")
				sink.ApplyState(snap.EntityID, &snap)
			}
		}
	}
}

func (s *Simulator) boilerSnapshot() entity.Snapshot {
	phase := boilerCycle[(s.tick/ticksPerMode)%len(boilerCycle)]
	heating := phase.cmd != CmdOff && s.boilerTemp < phase.setpoint-1
	sts := 0
	if heating {
		sts |= 1
	}
	return s.stamp(s.boiler, entity.Snapshot{
		EntityID: SimulatedBoilerID,
		State:    ThermowattMode(phase.cmd),
		Attributes: map[string]any{
			entity.AttrFriendlyName:       "Boiler Thermowatt",
			entity.AttrCurrentTemperature: round1(s.boilerTemp),
			entity.AttrTemperature:        phase.setpoint,
			entity.AttrMinTemp:            20.0,
			entity.AttrMaxTemp:            75.0,
			entity.AttrHeating:            HeatingFromStatus(sts),
			"Cmd":                         phase.cmd,
			"T_Avg":                       round1(s.boilerTemp),
			"T_SetPoint":                  phase.setpoint,
			"WaterHeaterSts":              sts,
		},
	})
}

func (s *Simulator) thermostatSnapshot() entity.Snapshot {
	phase := thermostatCycle[(s.tick/ticksPerMode)%len(thermostatCycle)]
	action := thermostatAction(phase.mode, s.roomTemp, phase.target)
	return s.stamp(s.thermostat, entity.Snapshot{
		EntityID: SimulatedThermostatID,
		State:    phase.mode,
		Attributes: map[string]any{
			entity.AttrFriendlyName:       "Living Room",
			entity.AttrCurrentTemperature: round1(s.roomTemp),
			entity.AttrTemperature:        phase.target,
			entity.AttrMinTemp:            7.0,
			entity.AttrMaxTemp:            35.0,
			entity.AttrHVACAction:         action,
			entity.AttrHeating:            action == "heating",
		},
	})
}

// stamp sets timestamps: last_changed moves only with the state.
func (s *Simulator) stamp(prev, next entity.Snapshot) entity.Snapshot {
	now := s.clock().UTC()
	next.LastUpdated = now
	next.LastChanged = now
	if prev.EntityID != "" && prev.State == next.State {
		next.LastChanged = prev.LastChanged
	}
	return next
}

func thermostatAction(mode string, current, target float64) string {
	switch mode {
	case entity.StateOff:
		return entity.StateOff
	case "heat":
		if current < target-0.3 {
			return "heating"
		}
	case "cool":
		if current > target+0.3 {
			return "cooling"
		}
	case "auto":
		if current < target-0.3 {
			return "heating"
		}
		if current > target+0.3 {
			return "cooling"
		}
	}
	return "idle"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// simulatedThemes registers a dark theme next to the default one.
func simulatedThemes() theme.Registry {
	return theme.Registry{
		Base: theme.Default(),
		Themes: map[string]theme.Theme{
			"midnight": theme.New("midnight", map[string]string{
				theme.PrimaryColor:        "#7aa2f7",
				theme.PrimaryText:         "#c0caf5",
				theme.SecondaryText:       "#a9b1d6",
				theme.DisabledColor:       "#565f89",
				theme.ClimateHeating:      "#ff9e64",
				theme.ClimateCooling:      "#7dcfff",
				theme.ClimateAuto:         "#9ece6a",
				theme.WaterHeaterEco:      "#9ece6a",
				theme.WaterHeaterActive:   "#ff9e64",
				"--card-background-color": "#1a1b26",
			}),
		},
	}
}

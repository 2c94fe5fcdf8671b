package daterange

// Realign recomputes r for a new authoritative zone.
//
// If zone resolves to r.Zone, r is returned unchanged. Relative presets are
// recomputed from scratch in the new zone; near midnight "today" may differ
// between the zones, so the window can move by a day. Custom ranges keep their
// calendar labels (read in r.Zone) and rebuild them in the new zone, so the
// absolute instants shift by the offset difference.
func (e *Engine) Realign(r DateRange, zone string) (DateRange, error) {
	name, loc, err := e.location(zone)
	if err != nil {
		return DateRange{}, err
	}
	if name == r.Zone {
		return r, nil
	}

	e.logger.Debug("realigning date range",
		"preset", r.Preset.String(),
		"from_timezone", r.Zone,
		"to_timezone", name)

	if r.Preset != Custom {
		return e.Preset(r.Preset, name)
	}

	oldLoc := r.Location()
	if l, err := e.loader.Load(r.Zone); err == nil {
		oldLoc = l
	}
	return customRange(DateOf(r.Start, oldLoc), DateOf(r.End, oldLoc), name, loc), nil
}

package hal

// AnalogChannel reads one raw ADC code from a sensor input. Codes span
// 0..4095; the conditioner treats either rail as a disconnected probe.
type AnalogChannel interface {
	Read() (int, error)
}

// Display is a two-line character display with a switchable backlight.
type Display interface {
	Show(line1, line2 string)
	Backlight(on bool)
}

// ButtonState is one poll of the front panel. At most one pressed button
// is acted on per tick; the controller resolves priority.
type ButtonState struct {
	Up     bool
	Down   bool
	Select bool
	Back   bool
}

// ButtonInput polls the current state of the panel buttons.
type ButtonInput interface {
	Poll() ButtonState
}

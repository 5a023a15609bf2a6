package hardware

// NewDefaultBus builds the canonical device list (spec.md §4.4): eight
// thrusters, boot, display, keyboard, floppy, sensor, clock, sensor,
// antenna, antenna, docking clamp, door, laser.
func NewDefaultBus() []Device {
	devices := make([]Device, 0, 16)
	for i := 0; i < 8; i++ {
		devices = append(devices, NewThruster())
	}
	devices = append(devices,
		NewBoot(),
		NewDisplay(),
		NewKeyboard(),
		NewFloppy(),
		NewSensor(),
		NewClock(),
		NewSensor(),
		NewAntenna(),
		NewAntenna(),
		NewDockingClamp(),
		NewDoor(),
		NewLaser(),
	)
	return devices
}

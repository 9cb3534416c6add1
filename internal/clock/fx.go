package clock

import "go.uber.org/fx"

// Module wires the wall clock. Tests and the billing cron replace it with
// Fixed to pin a run to one instant.
var Module = fx.Module("clock",
	fx.Provide(func() Clock { return SystemClock{} }),
)

package service

// Observer receives synchronous status notifications at phase boundaries:
// search started, model thinking, tool dispatch, phase finished. Purely
// observational—implementations must not block for long and cannot affect
// control flow. done=true closes out the current phase.
type Observer interface {
	Notify(description string, done bool)
}

// notify is a nil-safe Observer call.
func notify(obs Observer, description string, done bool) {
	if obs != nil {
		obs.Notify(description, done)
	}
}

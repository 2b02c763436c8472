package vsok

// Boot delivers the initial RESET interrupt, loading cfg.InitImage at
// pid cfg.InitPID and arming the timer for the first quantum. It is a
// convenience wrapper around HandleInterrupt(Reset) for callers that
// have no real RESET line to assert (the common case outside of a CPU
// simulator driving the trampoline directly).
func (k *Kernel) Boot() int {
	return k.HandleInterrupt(Reset)
}

package stepper

// LedgerEntry is a snapshot of one motor's step-error ledger, exposed
// for status reporting and diagnostics (spec.md section 4.6).
type LedgerEntry struct {
	Position  int32
	Commanded int32
	Encoder   int32
	Error     int32
	Fault     FaultKind
}

// Ledger returns a snapshot of every motor's step-error state.
func (s *Scheduler) Ledger() []LedgerEntry {
	out := make([]LedgerEntry, len(s.motors))
	for i, m := range s.motors {
		if m == nil {
			continue
		}
		fault := FaultNone
		if m.Driver != nil {
			fault = m.Driver.Fault()
		}
		out[i] = LedgerEntry{
			Position:  m.Position(),
			Commanded: m.commanded,
			Encoder:   m.encoder,
			Error:     m.Error(),
			Fault:     fault,
		}
	}
	return out
}

package gcode

import "testing"

func TestNormalizeStripsLeadingZeros(t *testing.T) {
	nl := Normalize("g0x010")
	if nl.Block != "G0X10" {
		t.Errorf("Block = %q, want G0X10", nl.Block)
	}
}

func TestNormalizeFractionalLeadingZeroKept(t *testing.T) {
	nl := Normalize("G1X0.5")
	if nl.Block != "G1X0.5" {
		t.Errorf("Block = %q, want G1X0.5", nl.Block)
	}
}

func TestNormalizeComment(t *testing.T) {
	nl := Normalize("G1 X10 (MSG, hello there)")
	if nl.Block != "G1X10" {
		t.Errorf("Block = %q, want G1X10", nl.Block)
	}
	if nl.MSG != "hello there" {
		t.Errorf("MSG = %q, want %q", nl.MSG, "hello there")
	}
}

func TestNormalizeBlockDelete(t *testing.T) {
	nl := Normalize("/G1 X10")
	if !nl.Skip {
		t.Error("expected Skip = true for leading '/'")
	}
}

func TestParseWordsBasic(t *testing.T) {
	v, f, err := ParseWords("G1X10Y-5.5F600")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.G || v.G[0] != 1 {
		t.Errorf("expected G1, got %v", v.G)
	}
	if v.X != 10 || v.Y != -5.5 || v.F != 600 {
		t.Errorf("unexpected values: %+v", v)
	}
}

func TestParseWordsUnknownLetter(t *testing.T) {
	_, _, err := ParseWords("Q5")
	pe, ok := err.(*ParseError)
	if !ok || pe.Code != ErrUnknownCode {
		t.Fatalf("expected ErrUnknownCode, got %v", err)
	}
}

func TestModalGroupConflict(t *testing.T) {
	v, _, err := ParseWords("G17G18")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := ValidateModalGroups(v); err == nil {
		t.Error("expected modal group conflict for G17+G18")
	}
}

func TestNonModalAxisWinsOverMotion(t *testing.T) {
	v, _, err := ParseWords("G1G28X0")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	code, isNonModal, present := ResolveMotionWord(v)
	if !present || !isNonModal || code != 28 {
		t.Errorf("expected G28 to win, got code=%v isNonModal=%v present=%v", code, isNonModal, present)
	}
}

type fakeMachine struct {
	rapidCalled bool
	feedCalled  bool
	lastErr     error
}

func (f *fakeMachine) SetLineNumber(n float64)                                {}
func (f *fakeMachine) SetFeedMode(bool)                                       {}
func (f *fakeMachine) SetFeedRate(float64)                                    {}
func (f *fakeMachine) SetFeedOverride(float64, bool)                          {}
func (f *fakeMachine) SetSpindleSpeed(float64)                                {}
func (f *fakeMachine) SetSpindleOverride(float64, bool)                       {}
func (f *fakeMachine) SelectTool(float64)                                     {}
func (f *fakeMachine) ChangeTool()                                            {}
func (f *fakeMachine) SetSpindleMode(int)                                     {}
func (f *fakeMachine) SetCoolant(bool, bool)                                  {}
func (f *fakeMachine) SetOverrideEnable(bool, bool)                           {}
func (f *fakeMachine) Dwell(float64) error                                    { return nil }
func (f *fakeMachine) SetPlane(int)                                          {}
func (f *fakeMachine) SetUnits(bool)                                         {}
func (f *fakeMachine) SetCoordSystem(int) error                              { return nil }
func (f *fakeMachine) SetPathControl(int)                                   {}
func (f *fakeMachine) SetDistanceMode(bool)                                  {}
func (f *fakeMachine) SetArcDistanceMode(bool)                               {}
func (f *fakeMachine) SetG28Position()                                       {}
func (f *fakeMachine) GotoG28Position(Values, Flags, bool) error             { return nil }
func (f *fakeMachine) SetG30Position()                                      {}
func (f *fakeMachine) GotoG30Position(Values, Flags, bool) error            { return nil }
func (f *fakeMachine) SetCoordDataSet(int, float64, Values, Flags) error    { return nil }
func (f *fakeMachine) SetAbsoluteOrigin(Values, Flags) error                { return nil }
func (f *fakeMachine) SetOriginOffsets(Values, Flags) error                 { return nil }
func (f *fakeMachine) ResetOriginOffsets()                                  {}
func (f *fakeMachine) SuspendOriginOffsets()                                {}
func (f *fakeMachine) ResumeOriginOffsets()                                 {}
func (f *fakeMachine) Rapid(Values, Flags, bool) error                      { f.rapidCalled = true; return nil }
func (f *fakeMachine) Feed(Values, Flags, bool) error                       { f.feedCalled = true; return nil }
func (f *fakeMachine) ArcFeed(Values, Flags, bool) error                    { return nil }
func (f *fakeMachine) Probe(Values, Flags) error                            { return nil }
func (f *fakeMachine) ProgramStop(bool)                                     {}
func (f *fakeMachine) PalletChange()                                        {}
func (f *fakeMachine) ProgramEnd()                                          {}

func TestExecuteRapid(t *testing.T) {
	m := &fakeMachine{}
	if _, err := Parse("G0 X10", m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.rapidCalled {
		t.Error("expected Rapid to be called")
	}
}

func TestExecuteFeedWithoutFeedrateReachesMachine(t *testing.T) {
	// Dispatch no longer rejects a missing F word itself: whether a
	// feed move without prior or current F is an error is a machine
	// model question (modal state), exercised in machinemodel's tests.
	m := &fakeMachine{}
	if _, err := Parse("G1 X10", m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.feedCalled {
		t.Error("expected Feed to be called")
	}
}

func TestExecuteFeedWithFeedrate(t *testing.T) {
	m := &fakeMachine{}
	if _, err := Parse("G1 X20 F600", m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.feedCalled {
		t.Error("expected Feed to be called")
	}
}

func TestExecuteBlockDeleteSkipped(t *testing.T) {
	m := &fakeMachine{}
	if _, err := Parse("/G1 X10", m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.rapidCalled || m.feedCalled {
		t.Error("block-delete line must not dispatch motion")
	}
}

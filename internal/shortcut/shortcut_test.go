package shortcut

import "testing"

func TestEncodingsAgree(t *testing.T) {
	// The same physical chord reported through CGEvent flags and through
	// Carbon flags must produce the same canonical set.
	cases := []struct {
		name   string
		event  uint64
		carbon uint32
		want   Modifiers
	}{
		{"control", 1 << 18, 0x1000, ModControl},
		{"option", 1 << 19, 0x0800, ModOption},
		{"shift", 1 << 17, 0x0200, ModShift},
		{"command", 1 << 20, 0x0100, ModCommand},
		{"control+shift", 1<<18 | 1<<17, 0x1000 | 0x0200, ModControl | ModShift},
		{"all four", 1<<17 | 1<<18 | 1<<19 | 1<<20, 0x0100 | 0x0200 | 0x0800 | 0x1000,
			ModControl | ModOption | ModShift | ModCommand},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FromEventFlags(tc.event); got != tc.want {
				t.Errorf("FromEventFlags(%#x) = %v, want %v", tc.event, got, tc.want)
			}
			if got := FromCarbonFlags(tc.carbon); got != tc.want {
				t.Errorf("FromCarbonFlags(%#x) = %v, want %v", tc.carbon, got, tc.want)
			}
		})
	}
}

func TestFunctionIsNotAliased(t *testing.T) {
	m := FromEventFlags(1 << 23)
	if m != ModFunction {
		t.Fatalf("Fn flag mapped to %v, want ModFunction", m)
	}
	// Carbon cannot express Fn: converting back must not smuggle it into
	// another bit.
	if flags := m.CarbonFlags(); flags != 0 {
		t.Errorf("ModFunction.CarbonFlags() = %#x, want 0", flags)
	}
}

func TestCarbonRoundTrip(t *testing.T) {
	m := ModControl | ModShift | ModCommand
	if got := FromCarbonFlags(m.CarbonFlags()); got != m {
		t.Errorf("round trip = %v, want %v", got, m)
	}
}

func TestRequiresEventTap(t *testing.T) {
	cases := []struct {
		name string
		sc   Shortcut
		want bool
	}{
		{"plain key+modifier", Shortcut{KeyCode: 49, Modifiers: ModControl}, false},
		{"modifiers only", Shortcut{KeyCode: KeyModifiersOnly, Modifiers: ModCommand}, true},
		{"fn chord", Shortcut{KeyCode: 2, Modifiers: ModFunction | ModCommand}, true},
	}
	for _, tc := range cases {
		if got := tc.sc.RequiresEventTap(); got != tc.want {
			t.Errorf("%s: RequiresEventTap = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidate(t *testing.T) {
	bad := Shortcut{KeyCode: KeyModifiersOnly}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for modifiers-only shortcut with no modifiers")
	}
	good := Shortcut{KeyCode: KeyModifiersOnly, Modifiers: ModOption}
	if err := good.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		sc   Shortcut
		want string
	}{
		{Shortcut{KeyCode: 49, Modifiers: ModControl | ModShift}, "⌃⇧Space"},
		// Canonical order regardless of how the set was built up.
		{Shortcut{KeyCode: 0, Modifiers: ModCommand | ModControl}, "⌃⌘A"},
		{Shortcut{KeyCode: KeyModifiersOnly, Modifiers: ModOption | ModCommand}, "⌥⌘"},
		{Shortcut{KeyCode: 2, Modifiers: ModCommand | ModFunction}, "⌘+Fn+D"},
		{Shortcut{KeyCode: 122, Modifiers: 0}, "F1"},
	}
	for _, tc := range cases {
		if got := tc.sc.Describe(); got != tc.want {
			t.Errorf("Describe(%+v) = %q, want %q", tc.sc, got, tc.want)
		}
	}
}

func TestKeyNameFallback(t *testing.T) {
	if got := KeyName(49); got != "Space" {
		t.Errorf("KeyName(49) = %q, want Space", got)
	}
	if got := KeyName(90); got != "F20" {
		t.Errorf("KeyName(90) = %q, want F20", got)
	}
	if got := KeyName(200); got != "Key200" {
		t.Errorf("KeyName(200) = %q, want Key200", got)
	}
}

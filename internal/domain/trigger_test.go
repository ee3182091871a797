package domain

import "testing"

func TestTriggerString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		trig TriggerTime
		want string
	}{
		{TriggerTime{Hour: 0, Minute: 0}, "00:00"},
		{TriggerTime{Hour: 9, Minute: 5}, "09:05"},
		{TriggerTime{Hour: 23, Minute: 45}, "23:45"},
	}
	for _, tt := range tests {
		if got := tt.trig.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTriggerBefore(t *testing.T) {
	t.Parallel()
	a := TriggerTime{Hour: 8, Minute: 30}
	b := TriggerTime{Hour: 8, Minute: 45}
	c := TriggerTime{Hour: 9, Minute: 0}
	if !a.Before(b) || !b.Before(c) || !a.Before(c) {
		t.Fatal("expected 08:30 < 08:45 < 09:00")
	}
	if b.Before(a) || a.Before(a) {
		t.Fatal("Before is not a strict order")
	}
}

func TestTriggerValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		trig TriggerTime
		want bool
	}{
		{TriggerTime{Hour: 0, Minute: 0}, true},
		{TriggerTime{Hour: 23, Minute: 45}, true},
		{TriggerTime{Hour: 12, Minute: 15}, true},
		{TriggerTime{Hour: 12, Minute: 30}, true},
		{TriggerTime{Hour: 12, Minute: 7}, false},
		{TriggerTime{Hour: 24, Minute: 0}, false},
		{TriggerTime{Hour: -1, Minute: 15}, false},
	}
	for _, tt := range tests {
		if got := tt.trig.Valid(); got != tt.want {
			t.Fatalf("%s: Valid() = %v, want %v", tt.trig, got, tt.want)
		}
	}
}

func TestParseTrigger(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw     string
		want    TriggerTime
		wantErr bool
	}{
		{raw: "08:30", want: TriggerTime{Hour: 8, Minute: 30}},
		{raw: "00:00", want: TriggerTime{Hour: 0, Minute: 0}},
		{raw: "23:59", want: TriggerTime{Hour: 23, Minute: 59}}, // off-grid minutes load fine
		{raw: " 09:15 ", want: TriggerTime{Hour: 9, Minute: 15}},
		{raw: "24:00", wantErr: true},
		{raw: "12:60", wantErr: true},
		{raw: "noon", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTrigger(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseTrigger(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTrigger(%q) error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseTrigger(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

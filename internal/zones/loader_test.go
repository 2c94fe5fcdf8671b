package zones

import (
	"errors"
	"testing"
)

func TestLoader_Load(t *testing.T) {
	l := NewLoader(nil)

	loc, err := l.Load("America/Chicago")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loc.String() != "America/Chicago" {
		t.Errorf("Load() = %s, want America/Chicago", loc)
	}

	again, err := l.Load("America/Chicago")
	if err != nil {
		t.Fatalf("Load() second call error = %v", err)
	}
	if again != loc {
		t.Error("second Load() should return the cached location")
	}
}

func TestLoader_UnknownZone(t *testing.T) {
	l := NewLoader(nil)

	for _, name := range []string{"Invalid/Timezone", "", "   "} {
		_, err := l.Load(name)
		if !errors.Is(err, ErrUnknownZone) {
			t.Errorf("Load(%q) error = %v, want ErrUnknownZone", name, err)
		}
	}
}

func TestLoader_FilteredZone(t *testing.T) {
	l := NewLoader(NewFilter([]string{"America/*"}, nil))

	if _, err := l.Load("America/New_York"); err != nil {
		t.Errorf("Load(America/New_York) error = %v", err)
	}

	_, err := l.Load("Europe/London")
	if !errors.Is(err, ErrZoneNotAllowed) {
		t.Errorf("Load(Europe/London) error = %v, want ErrZoneNotAllowed", err)
	}
	if l.Valid("Europe/London") {
		t.Error("Valid(Europe/London) = true, want false")
	}
}

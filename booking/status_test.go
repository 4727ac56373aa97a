package booking

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	all := []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}
	legal := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			err := CanTransition(from, to)
			if legal[[2]Status{from, to}] {
				if err != nil {
					t.Fatalf("%s -> %s: expected success, got %v", from, to, err)
				}
				continue
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("%s -> %s: expected ErrInvalidTransition, got %v", from, to, err)
			}
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() || StatusConfirmed.IsTerminal() {
		t.Fatal("pending and confirmed must not be terminal")
	}
	if !StatusCompleted.IsTerminal() || !StatusCancelled.IsTerminal() {
		t.Fatal("completed and cancelled must be terminal")
	}
}

func TestParseServiceKind(t *testing.T) {
	for in, want := range map[string]ServiceKind{"Salon": ServiceSalon, "home": ServiceHome, " HOME ": ServiceHome} {
		got, err := ParseServiceKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseServiceKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseServiceKind("mobile"); !errors.Is(err, ErrInvalidServiceKind) {
		t.Fatalf("expected ErrInvalidServiceKind, got %v", err)
	}
}

func TestPriceFor(t *testing.T) {
	if p, _ := PriceFor(ServiceSalon, 25, 40); p != 25 {
		t.Fatalf("salon price: expected 25, got %v", p)
	}
	if p, _ := PriceFor(ServiceHome, 25, 40); p != 40 {
		t.Fatalf("home price: expected 40, got %v", p)
	}
	if _, err := PriceFor("", 25, 40); !errors.Is(err, ErrInvalidServiceKind) {
		t.Fatalf("expected ErrInvalidServiceKind, got %v", err)
	}
}

func TestParseSchedule(t *testing.T) {
	d, clock, err := ParseSchedule("2026-03-14", "9:05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 2026 || d.Month() != 3 || d.Day() != 14 {
		t.Fatalf("unexpected date %v", d)
	}
	if clock != "09:05" {
		t.Fatalf("expected normalized 09:05, got %q", clock)
	}

	for _, tc := range [][2]string{{"14/03/2026", "09:00"}, {"2026-03-14", "25:00"}, {"", ""}} {
		if _, _, err := ParseSchedule(tc[0], tc[1]); !errors.Is(err, ErrInvalidSchedule) {
			t.Fatalf("ParseSchedule(%q, %q): expected ErrInvalidSchedule, got %v", tc[0], tc[1], err)
		}
	}
}

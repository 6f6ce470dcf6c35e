package window

import "testing"

func TestStoreRecordsBothWindows(t *testing.T) {
	s := NewStore()
	avg := s.Record(50, 40)
	if avg.CPU != 50 || avg.Memory != 40 {
		t.Fatalf("first record: expected 50/40, got %+v", avg)
	}
	avg = s.Record(70, 60)
	if avg.CPU != 60 || avg.Memory != 50 {
		t.Fatalf("second record: expected 60/50, got %+v", avg)
	}
	if s.CPU.Len() != 2 || s.Memory.Len() != 2 {
		t.Fatalf("expected both windows to hold 2 samples, got cpu=%d mem=%d", s.CPU.Len(), s.Memory.Len())
	}
}

func TestStoreWindowsAreIndependent(t *testing.T) {
	s := NewStore()
	for i := 0; i < 12; i++ {
		s.Record(float64(i), 5)
	}
	if got := s.Memory.Average(); got != 5 {
		t.Fatalf("memory average should stay 5, got %v", got)
	}
	// last ten cpu samples are 2..11, mean 6.5
	if got := s.CPU.Average(); got != 6.5 {
		t.Fatalf("expected cpu average 6.5, got %v", got)
	}
}

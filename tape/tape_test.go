package tape

import "testing"

func TestMoveWraps(t *testing.T) {
	tests := []struct {
		name     string
		start, k int
		want     int
	}{
		{"forward within bounds", 10, 5, 15},
		{"forward past end wraps to 0", Size - 1, 1, 0},
		{"forward past end by more than one", Size - 1, 3, 2},
		{"backward within bounds", 10, -5, 5},
		{"backward past start wraps to end", 0, -1, Size - 1},
		{"backward past start by more than one", 0, -3, Size - 3},
		{"large magnitude forward", 0, Size * 3, 0},
		{"large magnitude backward", 0, -(Size*3 + 7), Size - 7},
	}
	for _, tc := range tests {
		tp := New()
		tp.Ptr = tc.start
		tp.Move(tc.k)
		if tp.Ptr != tc.want {
			t.Errorf("[%s] Ptr = %d, want %d", tc.name, tp.Ptr, tc.want)
		}
	}
}

func TestAddWrapsMod256(t *testing.T) {
	tests := []struct {
		name  string
		start byte
		delta int8
		want  byte
	}{
		{"no overflow", 10, 5, 15},
		{"overflow past 255", 250, 10, 4},
		{"underflow below 0", 5, -10, 251},
	}
	for _, tc := range tests {
		tp := New()
		tp.Set(tc.start)
		tp.Add(tc.delta)
		if got := tp.Cell(); got != tc.want {
			t.Errorf("[%s] Cell() = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestAddToZeroesSourceAndWraps(t *testing.T) {
	tp := New()
	tp.Ptr = Size - 1
	tp.Set(7)
	tp.Mem[1] = 3
	tp.AddTo(2) // Size-1 + 2 wraps to 1

	if tp.Cell() != 0 {
		t.Errorf("source cell not zeroed, got %d", tp.Cell())
	}
	if tp.Mem[1] != 10 {
		t.Errorf("destination cell = %d, want 10", tp.Mem[1])
	}
}

func TestMoveUntilStopsAtZero(t *testing.T) {
	tp := New()
	tp.Mem[0] = 1
	tp.Mem[2] = 1
	tp.Mem[4] = 0
	tp.MoveUntil(2)
	if tp.Ptr != 4 {
		t.Errorf("Ptr = %d, want 4", tp.Ptr)
	}
}

func TestMoveUntilNoopWhenAlreadyZero(t *testing.T) {
	tp := New()
	tp.MoveUntil(5)
	if tp.Ptr != 0 {
		t.Errorf("Ptr = %d, want 0 (already zero, no movement)", tp.Ptr)
	}
}

type fakeHost struct {
	written []byte
	toRead  []byte
	readPos int
}

func (f *fakeHost) WriteByte(b byte) error {
	if filterOutput(b) {
		return nil
	}
	f.written = append(f.written, b)
	return nil
}

func (f *fakeHost) ReadByte() (byte, error) {
	for {
		if f.readPos >= len(f.toRead) {
			return 0, nil
		}
		b := f.toRead[f.readPos]
		f.readPos++
		if filterInput(b) {
			continue
		}
		return b, nil
	}
}

func TestFakeHostEOFYieldsZero(t *testing.T) {
	h := &fakeHost{toRead: []byte{}}
	b, err := h.ReadByte()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != 0 {
		t.Errorf("ReadByte() at EOF = %d, want 0", b)
	}
}

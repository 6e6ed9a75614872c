package bytesize

import (
	"errors"
	"testing"
)

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ByteSize
		wantErr bool
	}{
		{"plain zero", "0", 0, false},
		{"one block", "512", 512, false},
		{"bytes suffix", "1024B", 1024, false},

		// Binary units (×1024)
		{"Ki", "1Ki", KiB, false},
		{"KiB", "4KiB", 4 * KiB, false},
		{"Mi", "64Mi", 64 * MiB, false},
		{"MiB", "64MiB", 64 * MiB, false},
		{"GiB", "8GiB", 8 * GiB, false},
		{"TiB", "2TiB", 2 * TiB, false},

		// Decimal units (×1000), as printed on SD card packaging
		{"KB", "1KB", KB, false},
		{"MB", "100MB", 100 * MB, false},
		{"GB", "32GB", 32 * GB, false},
		{"T", "1T", TB, false},

		{"lowercase", "64mib", 64 * MiB, false},
		{"spaces", " 1 Gi ", GiB, false},
		{"fraction", "1.5Mi", ByteSize(1.5 * float64(MiB)), false},

		{"empty", "", 0, true},
		{"whitespace only", "   ", 0, true},
		{"unknown unit", "1Xi", 0, true},
		{"negative", "-1Gi", 0, true},
		{"no number", "Gi", 0, true},
		{"overflow", "20000000TiB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseByteSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseByteSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseByteSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestByteSize_String(t *testing.T) {
	tests := []struct {
		input ByteSize
		want  string
	}{
		{0, "0B"},
		{512, "512B"},
		{1000, "1000B"},
		{2 * KiB, "2KiB"},
		{1536 * KiB, "1536KiB"},
		{64 * MiB, "64MiB"},
		{GiB, "1GiB"},
		{2 * TiB, "2TiB"},
		{32 * GB, "31250000KiB"},
	}

	for _, tt := range tests {
		if got := tt.input.String(); got != tt.want {
			t.Errorf("ByteSize(%d).String() = %q, want %q", uint64(tt.input), got, tt.want)
		}
	}
}

func TestByteSize_TextRoundTrip(t *testing.T) {
	for _, size := range []ByteSize{0, 1, 512, 1000, 1536 * KiB, 64 * MiB, 32 * GB, 3*TiB + 512} {
		text, err := size.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d) failed: %v", uint64(size), err)
		}

		var got ByteSize
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) failed: %v", text, err)
		}
		if got != size {
			t.Errorf("round trip of %d through %q gave %d", uint64(size), text, uint64(got))
		}
	}

	var b ByteSize
	if err := b.UnmarshalText([]byte("invalid")); err == nil {
		t.Error("expected error for invalid text")
	}
}

func TestByteSize_Blocks(t *testing.T) {
	tests := []struct {
		size    ByteSize
		want    uint64
		wantErr bool
	}{
		{0, 0, false},
		{512, 1, false},
		{MiB, 2048, false},
		{32 * GB, 62500000, false},
		{1000, 0, true},
		{MiB + 1, 0, true},
	}

	for _, tt := range tests {
		got, err := tt.size.Blocks(512)
		if tt.wantErr {
			if !errors.Is(err, ErrNotAligned) {
				t.Errorf("Blocks(%s) error = %v, want ErrNotAligned", tt.size, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Blocks(%s) unexpected error: %v", tt.size, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Blocks(%s) = %d, want %d", tt.size, got, tt.want)
		}
	}

	if _, err := ByteSize(512).Blocks(0); err == nil {
		t.Error("expected error for zero block size")
	}
}

func TestByteSize_Conversions(t *testing.T) {
	size := 8 * GiB

	if got := size.Uint64(); got != 8<<30 {
		t.Errorf("ByteSize.Uint64() = %d, want %d", got, uint64(8<<30))
	}
	if got := size.Int64(); got != 8<<30 {
		t.Errorf("ByteSize.Int64() = %d, want %d", got, int64(8<<30))
	}
}

package hash

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
)

func TestRecord(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty", "", 0xef46db3751d8e999},
		{"short", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, Record([]byte(tt.data)))
		})
	}
}

func TestLogical_IgnoresWrapping(t *testing.T) {
	flat := "C3376567064US44936"
	wrapped := "C3376567\n064US4\r\n4936\n"

	assert.Equal(t, xxhash.Sum64String(flat), Logical([]byte(flat)))
	assert.Equal(t, Logical([]byte(flat)), Logical([]byte(wrapped)))
	assert.NotEqual(t, Record([]byte(flat)), Record([]byte(wrapped)))
}

func BenchmarkRecord(b *testing.B) {
	raw := make([]byte, 400)
	for i := range raw {
		raw[i] = byte('0' + i%10)
	}
	b.ResetTimer()
	for b.Loop() {
		Record(raw)
	}
}

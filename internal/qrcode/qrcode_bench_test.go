package qrcode

import (
	"strings"
	"testing"
)

// Бенчмарки для кодирования адресов разной длины
func BenchmarkSVGEncoder_Encode(b *testing.B) {
	encoder := NewSVGEncoder()

	cases := []struct {
		name    string
		content string
	}{
		{"Short", "http://example.com/abc"},
		{"NearCapacity", "https://example.com/" + strings.Repeat("x", 50)},
	}

	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := encoder.Encode(c.content); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Бенчмарки для полного построения data URI
func BenchmarkAdapter_BuildImage(b *testing.B) {
	adapter := NewAdapter(NewSVGEncoder())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := adapter.BuildImage("http://example.com/ABC?redirect=always"); err != nil {
			b.Fatal(err)
		}
	}
}

package certificate

import (
	"fmt"
	"testing"
)

// Размеры документа в операциях
var benchSizes = []int{10, 100, 1000, 5000}

func benchContent(size int) Content {
	ops := make([]Op, 0, size)
	for i := 0; i < size; i++ {
		if i%10 == 9 {
			ops = append(ops, Op{Insert: ImageInsert("logo.png")})
			continue
		}
		ops = append(ops, Op{
			Insert:     TextInsert(fmt.Sprintf("Line %d for [certificate-name], [certificate-subject] on [certificate-date]\n", i)),
			Attributes: map[string]any{"bold": i%2 == 0},
		})
	}
	return Content{Ops: ops}
}

func BenchmarkSubstitute(b *testing.B) {
	data := PlaceholderData{
		PlaceholderName:    "Alice Smith",
		PlaceholderSubject: "Go",
		PlaceholderDate:    "2024-01-01",
	}
	for _, size := range benchSizes {
		content := benchContent(size)
		b.Run(fmt.Sprintf("Ops_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = Substitute(content, data)
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	for _, size := range benchSizes {
		doc := DefaultDocument()
		doc.Content = benchContent(size)
		raw, err := Marshal(doc)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(fmt.Sprintf("Ops_%d", size), func(b *testing.B) {
			b.SetBytes(int64(len(raw)))
			for i := 0; i < b.N; i++ {
				if _, err := Decode(raw); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

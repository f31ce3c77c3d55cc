package core

import (
	"fmt"
	"testing"

	"github.com/JonMunkholm/pmadmin/internal/core/reconcile"
)

// ============================================================================
// Conversion Benchmarks
// ============================================================================

// BenchmarkParseMoney runs on every amount field of every submitted form.
func BenchmarkParseMoney(b *testing.B) {
	testCases := []string{
		"123",
		"-456.78",
		"$1,234.56",
		"(123.45)",      // Accounting negative
		"1,234,567.89",  // Thousands separators
		"  999.99  ",    // Whitespace
		"€1234.56",      // Euro
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseMoney(tc)
		}
	}
}

func BenchmarkParseDate(b *testing.B) {
	testCases := []string{
		"2024-01-15",   // ISO format
		"01/15/2024",   // US format
		"Jan 15, 2024", // Text month
		"20240115",     // Compact
		"1/5/24",       // 2-digit year
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseDate(tc)
		}
	}
}

// BenchmarkParseDate_TwoDigitYear is the slowest path: every four-digit
// layout fails first.
func BenchmarkParseDate_TwoDigitYear(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseDate("1/5/24")
	}
}

// ============================================================================
// Reconcile Benchmarks
// ============================================================================

func benchmarkDiff(b *testing.B, n int) {
	current := make([]Document, n)
	ops := make([]reconcile.ChildOp[DocumentFields], 0, n+n/10)
	for i := range current {
		current[i] = Document{ID: int64(i + 1), ProjectID: 1, Title: fmt.Sprintf("Doc %d", i), Kind: "report"}
		f := documentBinding.Fields(current[i])
		switch i % 10 {
		case 0:
			continue // deleted
		case 1:
			f.Title += " (rev)"
		}
		ops = append(ops, reconcile.Keep(current[i].ID, f))
	}
	for i := 0; i < n/10; i++ {
		ops = append(ops, reconcile.Insert(DocumentFields{Title: fmt.Sprintf("New %d", i), Kind: "other"}))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reconcile.Diff(documentBinding, 1, current, ops); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDiff_10(b *testing.B)   { benchmarkDiff(b, 10) }
func BenchmarkDiff_100(b *testing.B)  { benchmarkDiff(b, 100) }
func BenchmarkDiff_1000(b *testing.B) { benchmarkDiff(b, 1000) }

// ============================================================================
// Paging Benchmarks
// ============================================================================

func BenchmarkWindow(b *testing.B) {
	policy := PagingPolicy{PageSize: 25}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Window(i%50, DefaultSort, 1000, policy)
	}
}

func BenchmarkPages(b *testing.B) {
	info := ComputePage(17, 25, 10000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		info.Pages(7)
	}
}

// ============================================================================
// Parallel Benchmarks
// ============================================================================

func BenchmarkParseMoneyParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			ParseMoney("$1,234.56")
		}
	})
}

func BenchmarkParseDateParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			ParseDate("01/15/2024")
		}
	})
}

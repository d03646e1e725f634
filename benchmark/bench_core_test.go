package benchmark_test

import (
	"io"
	"testing"

	"github.com/dzonerzy/go-cliq/cliq"
)

// Micro-benchmarks for the individual pipeline stages, so a regression in
// one stage does not hide behind the others in the end-to-end numbers.

func BenchmarkTokenize(b *testing.B) {
	input := `deploy staging --replicas=3 --tags=[web, "batch jobs", cron] --no-dry-run extra`
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = cliq.Tokenize(input)
	}
}

func BenchmarkParse(b *testing.B) {
	app := cliq.NewCLI(benchTree()).Output(io.Discard)
	input := "run --port=9000 --verbose"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = app.Parse(input)
	}
}

func BenchmarkStringify(b *testing.B) {
	app := cliq.NewCLI(benchTree()).Output(io.Discard)
	options := map[string]any{"port": 9000, "verbose": true}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = app.Stringify("run", options)
	}
}

func BenchmarkCandidates(b *testing.B) {
	app := cliq.NewCLI(benchTree()).Output(io.Discard)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = app.Candidates("ru")
	}
}

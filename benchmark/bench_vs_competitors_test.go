package benchmark_test

import (
	"io"
	"testing"

	"github.com/dzonerzy/go-cliq/cliq"
	"github.com/spf13/cobra"
	"github.com/urfave/cli/v2"
)

// Benchmark a simple CLI with basic flags.
// All three frameworks execute a command with flags for fair comparison.

func benchTree() *cliq.Command {
	schema := cliq.NewObjectSchema().
		Field("port", cliq.Field{Type: cliq.FieldInt, Default: 8080}).
		Field("verbose", cliq.Field{Type: cliq.FieldBool, Default: false})
	return cliq.New("bench", "benchmark app").
		Command(cliq.New("run", "Run benchmark").
			Options(schema).
			Action(func(_ *cliq.Context) (any, error) { return nil, nil })).
		MustBuild()
}

func BenchmarkSimpleCLI_Cliq(b *testing.B) {
	app := cliq.NewCLI(benchTree()).Output(io.Discard)
	input := "run --port=9000 --verbose"
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = app.Cli(input)
	}
}

func BenchmarkSimpleCLI_Cobra(b *testing.B) {
	args := []string{"run", "--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		runCmd := &cobra.Command{
			Use: "run",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		runCmd.Flags().IntP("port", "p", 8080, "Server port")
		runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
		rootCmd.AddCommand(runCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkSimpleCLI_Urfave(b *testing.B) {
	args := []string{"bench", "run", "--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "run",
					Flags: []cli.Flag{
						&cli.IntFlag{Name: "port", Value: 8080, Usage: "Server port"},
						&cli.BoolFlag{Name: "verbose", Usage: "Verbose output"},
					},
					Action: func(_ *cli.Context) error { return nil },
				},
			},
		}
		_ = app.Run(args)
	}
}

// Benchmark nested sub-commands.
// Tests command routing plus flag parsing below the root.

func BenchmarkSubcommands_Cliq(b *testing.B) {
	schema := cliq.NewObjectSchema().
		Field("port", cliq.Field{Type: cliq.FieldInt, Default: 8080}).
		Field("host", cliq.Field{Type: cliq.FieldString, Default: "localhost"})
	app := cliq.NewCLI(cliq.New("bench", "benchmark app").
		Command(cliq.New("server", "Server commands").
			Command(cliq.New("start", "Start server").
				Options(schema).
				Action(func(_ *cliq.Context) (any, error) { return nil, nil }))).
		MustBuild()).Output(io.Discard)

	input := "server start --port=9000 --host=0.0.0.0"
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = app.Cli(input)
	}
}

func BenchmarkSubcommands_Cobra(b *testing.B) {
	args := []string{"server", "start", "--port", "9000", "--host", "0.0.0.0"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		serverCmd := &cobra.Command{Use: "server"}
		startCmd := &cobra.Command{
			Use: "start",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		startCmd.Flags().IntP("port", "p", 8080, "Server port")
		startCmd.Flags().String("host", "localhost", "Server host")
		serverCmd.AddCommand(startCmd)
		rootCmd.AddCommand(serverCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkSubcommands_Urfave(b *testing.B) {
	args := []string{"bench", "server", "start", "--port", "9000", "--host", "0.0.0.0"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "server",
					Subcommands: []*cli.Command{
						{
							Name: "start",
							Flags: []cli.Flag{
								&cli.IntFlag{Name: "port", Value: 8080},
								&cli.StringFlag{Name: "host", Value: "localhost"},
							},
							Action: func(_ *cli.Context) error { return nil },
						},
					},
				},
			},
		}
		_ = app.Run(args)
	}
}

// Benchmark construction: how much it costs to declare the tree itself.
// Cobra and urfave rebuild per iteration above, so this isolates the same
// cost for cliq's immutable builder.

func BenchmarkTreeConstruction_Cliq(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = benchTree()
	}
}

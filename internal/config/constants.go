package config

// FixtureFileExtensions are all recognized fixture file extensions.
var FixtureFileExtensions = []string{".yaml", ".yml"}

// Analysis limits. The CLI may override these from matchck.yaml before any
// checking starts; they are not read concurrently with mutation.
var (
	// MaxCheckDepth bounds the usefulness recursion. Exceeding it aborts
	// the analysis of one match with an M002 diagnostic.
	MaxCheckDepth = 10000

	// MaxWitnesses caps how many counterexamples a non-exhaustive match
	// reports.
	MaxWitnesses = 16
)

// Well-known module path for declarations local to the checking context.
// Fixtures that omit a module default to it.
const LocalModule = "main"

// Config file name for the CLI harness.
const ConfigFileName = "matchck.yaml"

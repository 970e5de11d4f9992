package diff

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"

	"github.com/input-output-hk/cookbook-status/checksum"
)

var (
	propPaths = []string{
		"metadata.json", ".gitignore", "metadata.rb", "README.md",
		"recipes/default.rb", "recipes/server.rb", "attributes/default.rb",
		"templates/default/httpd.conf.erb", "files/default/key.pem",
	}
	propSums = []string{"aaa", "bbb", "ccc"}
)

// genChecksumMap draws maps from a small path pool so that generated maps
// overlap often.
func genChecksumMap() gopter.Gen {
	return func(params *gopter.GenParameters) *gopter.GenResult {
		n := params.Rng.Intn(len(propPaths) + 1)
		m := make(checksum.Map, n)
		for i := 0; i < n; i++ {
			m[propPaths[params.Rng.Intn(len(propPaths))]] = propSums[params.Rng.Intn(len(propSums))]
		}
		return gopter.NewGenResult(m, gopter.NoShrinker)
	}
}

func genIgnoreEntries() gopter.Gen {
	return func(params *gopter.GenParameters) *gopter.GenResult {
		var entries []string
		for _, p := range propPaths {
			if params.NextBool() {
				entries = append(entries, p)
			}
		}
		return gopter.NewGenResult(entries, gopter.NoShrinker)
	}
}

func TestDiffProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("diff of a map with itself is empty", prop.ForAll(
		func(a checksum.Map, entries []string) bool {
			ignore, err := NewIgnoreSet(entries...)
			if err != nil {
				return false
			}
			return Diff(a, a, ignore).Empty()
		},
		genChecksumMap(), genIgnoreEntries(),
	))

	properties.Property("detection is symmetric with swapped sides", prop.ForAll(
		func(a, b checksum.Map) bool {
			ab := Diff(a, b, IgnoreSet{})
			ba := Diff(b, a, IgnoreSet{})
			if ab.Count() != ba.Count() {
				return false
			}
			for p, pair := range ab {
				other, ok := ba[p]
				if !ok || other.A != pair.B || other.B != pair.A {
					return false
				}
			}
			return true
		},
		genChecksumMap(), genChecksumMap(),
	))

	properties.Property("ignored paths never appear", prop.ForAll(
		func(a, b checksum.Map, entries []string) bool {
			ignore, err := NewIgnoreSet(entries...)
			if err != nil {
				return false
			}
			r := Diff(a, b, ignore)
			for _, e := range entries {
				if _, ok := r[e]; ok {
					return false
				}
			}
			return true
		},
		genChecksumMap(), genChecksumMap(), genIgnoreEntries(),
	))

	properties.Property("no pair is empty or equal", prop.ForAll(
		func(a, b checksum.Map) bool {
			for _, pair := range Diff(a, b, DefaultIgnore()) {
				if !pair.A.Present && !pair.B.Present {
					return false
				}
				if pair.A.Present && pair.B.Present && pair.A.Checksum == pair.B.Checksum {
					return false
				}
			}
			return true
		},
		genChecksumMap(), genChecksumMap(),
	))

	properties.Property("Count agrees with Diff", prop.ForAll(
		func(a, b checksum.Map) bool {
			ignore := DefaultIgnore()
			return Count(a, b, ignore) == Diff(a, b, ignore).Count()
		},
		genChecksumMap(), genChecksumMap(),
	))

	properties.TestingRun(t)
}

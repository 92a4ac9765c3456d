package recon

import (
	"github.com/rs/zerolog/log"

	"github.com/boltline/purchasing-dash/internal/domain"
)

// Classify inspects a file's header row and scores it against every record
// type's signature. A type is a candidate only when all of its required field
// groups resolve in the header and at least MinOptional of its optional groups
// do; the score is the number of matched groups. The highest-scoring candidate
// wins; ties resolve by schema declaration order and are logged, since a tie
// on real data means two signatures are ambiguous and the schema should be
// tightened rather than the winner relied on.
func Classify(headers []string) (domain.RecordType, bool) {
	idx := newHeaderIndex(headers)

	var (
		best      domain.RecordType
		bestScore = -1
		found     bool
	)

	for _, schema := range Schemas {
		score, ok := scoreSchema(idx, schema)
		if !ok {
			continue
		}
		if score > bestScore {
			best = schema.Type
			bestScore = score
			found = true
		} else if score == bestScore {
			log.Warn().
				Str("kept", string(best)).
				Str("tied", string(schema.Type)).
				Int("score", score).
				Msg("ambiguous file classification, keeping first declared type")
		}
	}

	return best, found
}

// scoreSchema gates on the required groups and MinOptional threshold, then
// returns the total matched-group count.
func scoreSchema(idx headerIndex, schema Schema) (int, bool) {
	aliases := make(map[string][]string, len(schema.Fields))
	for _, f := range schema.Fields {
		aliases[f.Name] = f.Aliases
	}

	for _, name := range schema.Required {
		if _, ok := idx.resolve(aliases[name]); !ok {
			return 0, false
		}
	}

	optional := 0
	for _, name := range schema.Optional {
		if _, ok := idx.resolve(aliases[name]); ok {
			optional++
		}
	}
	if optional < schema.MinOptional {
		return 0, false
	}

	return len(schema.Required) + optional, true
}

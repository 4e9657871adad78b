// Package repair turns near-valid JSON object text into parseable JSON.
//
// The extractor only depends on the Repairer interface, so the backing
// implementation can be swapped or stubbed out in tests.
package repair

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/kaptinlin/jsonrepair"

	"github.com/mcncl/jsonify/internal/errors"
)

// ErrUnrepairable is returned when the repaired text still does not parse.
var ErrUnrepairable = stderrors.New("repaired text is not valid JSON")

// Repairer normalizes raw event text into JSON text.
type Repairer interface {
	Repair(raw string) (string, error)
}

// Func adapts a plain function to the Repairer interface.
type Func func(raw string) (string, error)

// Repair calls f(raw).
func (f Func) Repair(raw string) (string, error) {
	return f(raw)
}

// Nop returns its input unchanged. Used when repair is disabled.
var Nop Repairer = Func(func(raw string) (string, error) { return raw, nil })

// JSONRepairer fixes unescaped control characters, trailing commas, missing
// quotes and similar defects, then checks that the result parses.
type JSONRepairer struct{}

// NewJSONRepairer creates a new JSONRepairer instance
func NewJSONRepairer() *JSONRepairer {
	return &JSONRepairer{}
}

// Repair implements Repairer
func (r *JSONRepairer) Repair(raw string) (string, error) {
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return "", errors.NewRepairError("best-effort repair failed", fmt.Errorf("%w: %w", errors.ErrRepairFailed, err))
	}
	if !json.Valid([]byte(repaired)) {
		return "", errors.NewRepairError("best-effort repair produced invalid JSON", fmt.Errorf("%w: %w", errors.ErrRepairFailed, ErrUnrepairable))
	}
	return repaired, nil
}

// Chain runs repairers in order, feeding each one the previous output.
// The first failure stops the chain.
func Chain(repairers ...Repairer) Repairer {
	return Func(func(raw string) (string, error) {
		out := raw
		for _, r := range repairers {
			var err error
			out, err = r.Repair(out)
			if err != nil {
				return "", err
			}
		}
		return out, nil
	})
}

package parser

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alecthomas/participle/v2/lexer"
)

// Diagnostic is a recoverable problem found while parsing. The registry
// returned alongside it is still usable but may be partial.
type Diagnostic struct {
	Pos     lexer.Position
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Pos.String(), d.Message)
}

// Diagnostics lists recoverable problems in source order.
type Diagnostics []Diagnostic

func (d *Diagnostics) add(pos lexer.Position, format string, args ...interface{}) {
	if d == nil {
		return
	}
	*d = append(*d, Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (d Diagnostics) sort() {
	sort.SliceStable(d, func(i, j int) bool {
		return d[i].Pos.Offset < d[j].Pos.Offset
	})
}

// Err joins all diagnostics into one error, or returns nil when there are none.
func (d Diagnostics) Err() error {
	if len(d) == 0 {
		return nil
	}
	errs := make([]error, len(d))
	for i := range d {
		errs[i] = d[i]
	}
	return errors.Join(errs...)
}

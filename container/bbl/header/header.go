// Package header parses a blackbox log's line-oriented text preamble into a
// per-log configuration: scalar settings, and per-frame-type field schemas
// (name, signed?, predictor, encoding).
package header

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FrameKind identifies one of the field-schema-bearing frame types. P frames
// reuse the I-frame name list, so FrameP only identifies the P predictor and
// encoding lines and never keys Config.Fields.
type FrameKind byte

// Frame-schema kinds, matching the wire frame-type bytes they configure.
const (
	FrameI FrameKind = 'I'
	FrameP FrameKind = 'P'
	FrameS FrameKind = 'S'
	FrameG FrameKind = 'G'
	FrameH FrameKind = 'H'
)

// FieldDef is one entry of a frame type's ordered field list: a name paired
// with whether it is signed, its predictor kind, and its encoding kind, all
// as declared by the header.
type FieldDef struct {
	Name      string
	Signed    bool
	Predictor int
	Encoding  int
}

// Config is the parsed configuration for a single log: its field schemas
// and its scalar settings.
type Config struct {
	// Fields holds the field list for each schema-bearing frame type. P
	// frames are not a key here: callers build a P field list by pairing
	// Fields[FrameI]'s names with the P-specific predictor/encoding lists,
	// which are parsed into PPredictors/PEncodings below.
	Fields map[FrameKind][]FieldDef

	// PPredictors and PEncodings are the P-frame predictor/encoding lists,
	// aligned by index with Fields[FrameI]: P frames reuse the I-frame name
	// list, so only predictor/encoding differ.
	PPredictors []int
	PEncodings  []int

	// Scalars holds every "H Key:Value" line that isn't a field-schema
	// line, keyed by Key, including keys this package does not itself
	// interpret — callers may still need them.
	Scalars map[string]string
}

// SplitLine splits one header text line of the form "H <Key>:<Value>" into
// its key and value, trimming the trailing newline and the whitespace around
// the key; the value is returned as written. ok is false if line does not start with the "H " header
// marker or has no ':' separator.
func SplitLine(line string) (key, value string, ok bool) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "H ") {
		return "", "", false
	}
	rest := line[2:]
	i := strings.IndexByte(rest, ':')
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(rest[:i]), rest[i+1:], true
}

// Int returns the Scalars[key] value parsed as an int, and whether the key
// was present and parsed successfully.
func (c *Config) Int(key string) (int, bool) {
	v, ok := c.Scalars[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// schemaBuilder accumulates the per-field-type raw lists (name/signed/
// predictor/encoding) as header lines are parsed, in whatever order they
// appear, then reconciles them once the header is complete.
type schemaBuilder struct {
	names      map[FrameKind][]string
	signed     map[FrameKind][]string
	predictors map[FrameKind][]string
	encodings  map[FrameKind][]string

	pPredictors []string
	pEncodings  []string

	scalars map[string]string
}

func newSchemaBuilder() *schemaBuilder {
	return &schemaBuilder{
		names:      make(map[FrameKind][]string),
		signed:     make(map[FrameKind][]string),
		predictors: make(map[FrameKind][]string),
		encodings:  make(map[FrameKind][]string),
		scalars:    make(map[string]string),
	}
}

// ErrInconsistent reports a header whose field-schema lists for one frame
// type disagree in length, or whose signed/predictor/encoding entries are not
// integers. Whether a predictor/encoding code is recognised is not checked
// here; the frame package reports that (frame.ErrUnknownCode).
var ErrInconsistent = errors.New("header: inconsistent field schema")

// Parse consumes "H <Key>:<Value>\n" lines from lines and returns the
// reconciled Config. lines yields one decoded header line per call (key,
// value, ok); ok is false once the header region ends, at which point the
// byte that ended it has not been consumed by the caller's source.
func Parse(lines func() (key, value string, ok bool, err error)) (*Config, error) {
	b := newSchemaBuilder()

	for {
		key, value, ok, err := lines()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if err := b.ingest(key, value); err != nil {
			return nil, err
		}
	}

	return b.build()
}

func (b *schemaBuilder) ingest(key, value string) error {
	kind, field, ok := splitFieldKey(key)
	if !ok {
		b.scalars[key] = value
		return nil
	}

	items := splitCSV(value)
	switch field {
	case "name":
		if kind == FrameP {
			return errors.Wrapf(ErrInconsistent, "P frames do not declare their own name list (key %q)", key)
		}
		b.names[kind] = items
	case "signed":
		b.signed[kind] = items
	case "predictor":
		if kind == FrameP {
			b.pPredictors = items
		} else {
			b.predictors[kind] = items
		}
	case "encoding":
		if kind == FrameP {
			b.pEncodings = items
		} else {
			b.encodings[kind] = items
		}
	default:
		b.scalars[key] = value
	}
	return nil
}

func (b *schemaBuilder) build() (*Config, error) {
	cfg := &Config{
		Fields:  make(map[FrameKind][]FieldDef),
		Scalars: b.scalars,
	}

	for _, kind := range []FrameKind{FrameI, FrameS, FrameG, FrameH} {
		defs, err := b.buildFields(kind)
		if err != nil {
			return nil, err
		}
		if defs != nil {
			cfg.Fields[kind] = defs
		}
	}

	if len(b.pPredictors) > 0 || len(b.pEncodings) > 0 {
		iFields := cfg.Fields[FrameI]
		if len(b.pPredictors) != len(iFields) || len(b.pEncodings) != len(iFields) {
			return nil, errors.Wrap(ErrInconsistent, "P predictor/encoding list length does not match I field count")
		}
		preds, err := atoiAll(b.pPredictors)
		if err != nil {
			return nil, errors.Wrap(ErrInconsistent, "P predictor list")
		}
		encs, err := atoiAll(b.pEncodings)
		if err != nil {
			return nil, errors.Wrap(ErrInconsistent, "P encoding list")
		}
		cfg.PPredictors = preds
		cfg.PEncodings = encs
	}

	return cfg, nil
}

func (b *schemaBuilder) buildFields(kind FrameKind) ([]FieldDef, error) {
	names, hasNames := b.names[kind]
	signed := b.signed[kind]
	predictors := b.predictors[kind]
	encodings := b.encodings[kind]
	if !hasNames {
		if len(signed) != 0 || len(predictors) != 0 || len(encodings) != 0 {
			return nil, errors.Wrapf(ErrInconsistent, "frame type %q has schema lines without a name list", string(kind))
		}
		return nil, nil
	}
	n := len(names)
	if len(signed) != n || len(predictors) != n || len(encodings) != n {
		return nil, errors.Wrapf(ErrInconsistent, "frame type %q field lists disagree in length", string(kind))
	}

	defs := make([]FieldDef, n)
	for i := range names {
		s, err := strconv.Atoi(strings.TrimSpace(signed[i]))
		if err != nil {
			return nil, errors.Wrapf(ErrInconsistent, "frame type %q signed flag %q", string(kind), signed[i])
		}
		p, err := strconv.Atoi(strings.TrimSpace(predictors[i]))
		if err != nil {
			return nil, errors.Wrapf(ErrInconsistent, "frame type %q predictor %q", string(kind), predictors[i])
		}
		e, err := strconv.Atoi(strings.TrimSpace(encodings[i]))
		if err != nil {
			return nil, errors.Wrapf(ErrInconsistent, "frame type %q encoding %q", string(kind), encodings[i])
		}
		defs[i] = FieldDef{
			Name:      strings.TrimSpace(names[i]),
			Signed:    s != 0,
			Predictor: p,
			Encoding:  e,
		}
	}
	return defs, nil
}

func atoiAll(items []string) ([]int, error) {
	out := make([]int, len(items))
	for i, s := range items {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// splitFieldKey recognises "Field <T> <attr>" keys, returning the frame
// kind, the attribute name (lowercased: name/signed/predictor/encoding),
// and whether key matched that shape at all.
func splitFieldKey(key string) (FrameKind, string, bool) {
	const prefix = "Field "
	if !strings.HasPrefix(key, prefix) {
		return 0, "", false
	}
	rest := key[len(prefix):]
	sp := strings.IndexByte(rest, ' ')
	if sp < 0 || sp != 1 {
		return 0, "", false
	}
	kind := FrameKind(rest[0])
	switch kind {
	case FrameI, FrameP, FrameS, FrameG, FrameH:
	default:
		return 0, "", false
	}
	return kind, strings.ToLower(strings.TrimSpace(rest[sp+1:])), true
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

package header

import "testing"

func linesOf(raw ...string) func() (string, string, bool, error) {
	i := 0
	return func() (string, string, bool, error) {
		for i < len(raw) {
			line := raw[i]
			i++
			key, value, ok := SplitLine(line)
			if ok {
				return key, value, true, nil
			}
		}
		return "", "", false, nil
	}
}

func TestParseBasicSchemaAndScalars(t *testing.T) {
	cfg, err := Parse(linesOf(
		"H Product:Blackbox flight data recorder by Nicholas Sherlock\n",
		"H Firmware revision:Betaflight 4.3.0\n",
		"H Field I name:loopIteration,time,x\n",
		"H Field I signed:0,0,1\n",
		"H Field I predictor:0,0,0\n",
		"H Field I encoding:1,1,0\n",
		"H Field P predictor:0,9,1\n",
		"H Field P encoding:0,0,0\n",
		"H minthrottle:1070\n",
	))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := cfg.Scalars["Firmware revision"]; got != "Betaflight 4.3.0" {
		t.Errorf("Scalars[Firmware revision] = %q", got)
	}
	if got, ok := cfg.Int("minthrottle"); !ok || got != 1070 {
		t.Errorf("Int(minthrottle) = %d, %v", got, ok)
	}

	iFields := cfg.Fields[FrameI]
	if len(iFields) != 3 {
		t.Fatalf("len(Fields[I]) = %d, want 3", len(iFields))
	}
	if iFields[2].Name != "x" || !iFields[2].Signed {
		t.Errorf("iFields[2] = %+v", iFields[2])
	}

	if len(cfg.PPredictors) != 3 || cfg.PPredictors[1] != 9 {
		t.Errorf("PPredictors = %v", cfg.PPredictors)
	}
}

func TestParseMismatchedLengthsFails(t *testing.T) {
	_, err := Parse(linesOf(
		"H Field I name:a,b,c\n",
		"H Field I signed:0,0\n",
		"H Field I predictor:0,0,0\n",
		"H Field I encoding:0,0,0\n",
	))
	if err == nil {
		t.Fatal("expected error for mismatched field list lengths")
	}
}

func TestParsePFrameCannotDeclareNames(t *testing.T) {
	_, err := Parse(linesOf("H Field P name:a,b\n"))
	if err == nil {
		t.Fatal("expected error for P frame declaring its own name list")
	}
}

func TestParseUnknownKeyRetainedOpaque(t *testing.T) {
	cfg, err := Parse(linesOf("H Some Unknown Thing:42\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Scalars["Some Unknown Thing"] != "42" {
		t.Errorf("unknown key not retained: %+v", cfg.Scalars)
	}
}

func TestSplitLine(t *testing.T) {
	key, value, ok := SplitLine("H looptime:500\n")
	if !ok || key != "looptime" || value != "500" {
		t.Errorf("SplitLine = %q, %q, %v", key, value, ok)
	}

	if _, _, ok := SplitLine("I\x00\x01"); ok {
		t.Errorf("SplitLine should reject non-header lines")
	}
}

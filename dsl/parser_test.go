package dsl_test

import (
	"reflect"
	"testing"

	"github.com/grahamwills/sheet/dsl"
)

func TestParseLineCheckboxes(t *testing.T) {
	g := dsl.NewGrammar(dsl.SeparatorEquals)
	line := g.ParseLine("[X][O][Z]")
	if line.Kind != dsl.LineCheckboxes {
		t.Fatalf("expected checkbox line, got %+v", line)
	}
	if got := line.Fragments[0].Boxes; !reflect.DeepEqual(got, []string{"X", "O", "Z"}) {
		t.Fatalf("unexpected tokens: %v", got)
	}
}

func TestParseLineCheckboxFallbacks(t *testing.T) {
	g := dsl.NewGrammar(dsl.SeparatorEquals)
	for _, in := range []string{"[XY]", "[X] [O]", "[X][O] rest", "[X"} {
		line := g.ParseLine(in)
		if line.Kind != dsl.LineText {
			t.Fatalf("%q should fall back to plain text, got %+v", in, line)
		}
		if line.Fragments[0].Text != in {
			t.Fatalf("%q text changed to %q", in, line.Fragments[0].Text)
		}
	}
}

func TestParseLineTextField(t *testing.T) {
	g := dsl.NewGrammar(dsl.SeparatorEquals)
	for _, in := range []string{"[ ]", "[]", "[     ]", "  [\t]  "} {
		line := g.ParseLine(in)
		if line.Kind != dsl.LineField || len(line.Fragments) != 1 || line.Fragments[0].Kind != dsl.FragmentField {
			t.Fatalf("%q should be a single text field, got %+v", in, line)
		}
	}
}

func TestParseLinePairs(t *testing.T) {
	g := dsl.NewGrammar(dsl.SeparatorEquals)
	cases := []struct {
		in         string
		key, value string
	}{
		{`"key" = "value"`, "key", "value"},
		{"HP=10", "HP", "10"},
		{"  Armor Class =  'fifteen'  ", "Armor Class", "fifteen"},
		{`'mixed" = x`, `'mixed"`, "x"},
	}
	for _, tc := range cases {
		line := g.ParseLine(tc.in)
		if line.Kind != dsl.LinePair || len(line.Fragments) != 2 {
			t.Fatalf("%q should be a pair, got %+v", tc.in, line)
		}
		if line.Fragments[0].Text != tc.key || line.Fragments[1].Text != tc.value {
			t.Fatalf("%q parsed to %q / %q", tc.in, line.Fragments[0].Text, line.Fragments[1].Text)
		}
	}
}

func TestParseLinePairFallbacks(t *testing.T) {
	g := dsl.NewGrammar(dsl.SeparatorEquals)
	for _, in := range []string{"no separator here", "a=b=c", "=value", "key="} {
		if line := g.ParseLine(in); line.Kind != dsl.LineText {
			t.Fatalf("%q should be plain text, got %+v", in, line)
		}
	}
}

func TestParseLinePairSidesAreClassified(t *testing.T) {
	g := dsl.NewGrammar(dsl.SeparatorEquals)
	line := g.ParseLine("Death Saves = [O][O][!]")
	if line.Kind != dsl.LinePair {
		t.Fatalf("expected pair, got %+v", line)
	}
	if v := line.Fragments[1]; v.Kind != dsl.FragmentCheckboxes || !reflect.DeepEqual(v.Boxes, []string{"O", "O", "!"}) {
		t.Fatalf("value should be checkboxes, got %+v", v)
	}
	line = g.ParseLine("Name = [ ]")
	if v := line.Fragments[1]; v.Kind != dsl.FragmentField {
		t.Fatalf("value should be a text field, got %+v", v)
	}
}

func TestArrowSeparator(t *testing.T) {
	g := dsl.NewGrammar(dsl.SeparatorArrow)
	line := g.ParseLine("Speed -> 30 ft")
	if line.Kind != dsl.LinePair || line.Fragments[0].Text != "Speed" || line.Fragments[1].Text != "30 ft" {
		t.Fatalf("unexpected arrow pair: %+v", line)
	}
	if line := g.ParseLine("HP=10"); line.Kind != dsl.LineText {
		t.Fatalf("= is plain text under the arrow grammar, got %+v", line)
	}
	if line := g.ParseLine("half-elf"); line.Kind != dsl.LineText {
		t.Fatalf("a lone dash is not a separator, got %+v", line)
	}

	eq := dsl.NewGrammar(dsl.SeparatorEquals)
	if line := eq.ParseLine("Speed -> 30"); line.Kind != dsl.LineText {
		t.Fatalf("-> is plain text under the equals grammar, got %+v", line)
	}
}

func TestParseContentSkipsBlankLines(t *testing.T) {
	g := dsl.NewGrammar(dsl.SeparatorEquals)
	lines := g.ParseContent("STR=10\r\n\n   \nnotes\n[X]")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %+v", len(lines), lines)
	}
	kinds := []dsl.LineKind{lines[0].Kind, lines[1].Kind, lines[2].Kind}
	want := []dsl.LineKind{dsl.LinePair, dsl.LineText, dsl.LineCheckboxes}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	if lines[0].Fragments[1].Text != "10" {
		t.Fatalf("carriage return should be stripped, got %q", lines[0].Fragments[1].Text)
	}
}

func TestParseSeparator(t *testing.T) {
	if s, err := dsl.ParseSeparator("arrow"); err != nil || s != dsl.SeparatorArrow {
		t.Fatalf("arrow: %v %v", s, err)
	}
	if s, err := dsl.ParseSeparator("="); err != nil || s != dsl.SeparatorEquals {
		t.Fatalf("equals: %v %v", s, err)
	}
	if _, err := dsl.ParseSeparator(":"); err == nil {
		t.Fatalf("colon should be rejected")
	}
}

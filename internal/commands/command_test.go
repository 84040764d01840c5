package commands

import (
	"errors"
	"testing"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add buy milk", TypeAdd},
		{"toggle 2", TypeToggle},
		{"done #1700000000000", TypeToggle},
		{"/rm 1", TypeDelete},
		{"filter pending", TypeFilter},
		{"export out.pdf", TypeExport},
		{"?", TypeHelp},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddKeepsText(t *testing.T) {
	cmd, err := Parse("/add   pay   rent ")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Text != "pay rent" {
		t.Fatalf("unexpected text: %q", cmd.Add.Text)
	}
}

func TestParseTargets(t *testing.T) {
	cmd, err := Parse("toggle 3")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Toggle.Target.Row != 3 || cmd.Toggle.Target.IsID() {
		t.Fatalf("unexpected row target: %+v", cmd.Toggle.Target)
	}

	cmd, err = Parse("delete #42")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Delete.Target.ID != 42 || !cmd.Delete.Target.IsID() {
		t.Fatalf("unexpected id target: %+v", cmd.Delete.Target)
	}

	cmd, err = Parse("toggle #0")
	if err != nil {
		t.Fatalf("parse #0 failed: %v", err)
	}
	if cmd.Toggle.Target.ID != 0 || !cmd.Toggle.Target.IsID() {
		t.Fatalf("expected id target 0, got %+v", cmd.Toggle.Target)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{"add", "toggle", "toggle 0", "delete abc", "delete #x", "filter", "export", "toggle 1 2"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseExportFormat(t *testing.T) {
	cmd, err := Parse("export list.txt format:MD")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Export.Path != "list.txt" || cmd.Export.Format != "md" {
		t.Fatalf("unexpected export args: %+v", cmd.Export)
	}
}

func TestParseEmptyAndUnknown(t *testing.T) {
	for _, in := range []string{"", "  /  "} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input, got %v", in, err)
		}
	}

	_, err := Parse("/unknown do x")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Text != "write docs" {
				t.Fatalf("unexpected text: %q", a.Text)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("filter completed")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}

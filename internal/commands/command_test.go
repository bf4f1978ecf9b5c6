package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add buy milk", TypeAdd},
		{"filter completed", TypeFilter},
		{"/page 2", TypePage},
		{"toggle 1", TypeToggle},
		{"DELETE 3", TypeDelete},
		{"/export", TypeExport},
		{"clear", TypeClear},
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

func TestParseAddPriority(t *testing.T) {
	cmd, err := Parse("/add !HIGH file taxes")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Name != "file taxes" || cmd.Add.Priority != model.PriorityHigh {
		t.Fatalf("unexpected add args: %+v", cmd.Add)
	}

	cmd, err = Parse("add water plants")
	if err != nil || cmd.Add.Priority != model.PriorityMedium {
		t.Fatalf("expected medium default, got %+v err=%v", cmd.Add, err)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{"/add", "/add !urgent x", "/add !low", "filter", "filter all high", "page zero", "page 0", "toggle", "delete -1"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseEmptyAndUnknown(t *testing.T) {
	var ce *CommandError
	if _, err := Parse(" / "); !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}
	if _, err := Parse("/snooze overdue"); !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/filter high")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Filter: func(a FilterArgs) (Result, error) {
			called = true
			if a.Name != "high" {
				t.Fatalf("unexpected filter: %q", a.Name)
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

func TestExecuteRowCommands(t *testing.T) {
	var toggled, deleted int
	h := Handlers{
		Toggle: func(a RowArgs) (Result, error) { toggled = a.Row; return Result{}, nil },
		Delete: func(a RowArgs) (Result, error) { deleted = a.Row; return Result{}, nil },
	}
	for _, in := range []string{"toggle 2", "delete 3"} {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", in, err)
		}
		if _, err := Execute(cmd, h); err != nil {
			t.Fatalf("execute %q failed: %v", in, err)
		}
	}
	if toggled != 2 || deleted != 3 {
		t.Fatalf("unexpected rows: toggled=%d deleted=%d", toggled, deleted)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("export")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}

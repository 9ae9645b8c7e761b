package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseGenerate,
				Kind:    KindTypeMismatch,
				Path:    []string{"sensor", "accumulate"},
				GoType:  "string",
				WitType: "s32",
				Detail:  "cannot adapt",
			},
			contains: []string{"[generate]", "type_mismatch", "sensor.accumulate", "string", "s32", "cannot adapt"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseInvoke,
				Kind:  KindInvalidHandle,
			},
			contains: []string{"[invoke]", "invalid_handle"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseBind,
				Kind:   KindRegistration,
				Detail: "module install failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[bind]", "registration", "module install failed", "caused by", "underlying error"},
		},
		{
			name: "go type without wit type",
			err: &Error{
				Phase:  PhaseDescribe,
				Kind:   KindUnsupported,
				GoType: "func(...string)",
			},
			contains: []string{"[describe]", "unsupported", "Go type func(...string)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLink,
		Kind:  KindRegistration,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach the cause through Unwrap")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseInvoke,
		Kind:  KindTypeMismatch,
		Path:  []string{"foo"},
	}

	// Same phase and kind; path and detail are ignored.
	if !err.Is(&Error{Phase: PhaseInvoke, Kind: KindTypeMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseGenerate, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseInvoke, Kind: KindInvalidHandle}) {
		t.Error("Is should not match different kind")
	}
	if err.Is(errors.New("plain")) {
		t.Error("Is should not match a non-structured error")
	}

	target := &Error{Phase: PhaseInvoke, Kind: KindTypeMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseGenerate, KindTypeMismatch).
		Path("counter", "add").
		GoType("string").
		WitType("s32").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "int32", "string").
		Build()

	if err.Phase != PhaseGenerate {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseGenerate)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "counter" || err.Path[1] != "add" {
		t.Errorf("Path = %v, want [counter add]", err.Path)
	}
	if err.GoType != "string" {
		t.Errorf("GoType = %v, want 'string'", err.GoType)
	}
	if err.WitType != "s32" {
		t.Errorf("WitType = %v, want 's32'", err.WitType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected int32, got string" {
		t.Errorf("Detail = %v, want 'expected int32, got string'", err.Detail)
	}
}

func TestBuilderDetailWithoutArgs(t *testing.T) {
	// A bare detail string passes through unformatted: the %% stays two
	// characters, where the Sprintf path would collapse it to one.
	err := New(PhaseInvoke, KindInvalidInput).Detail("raw 100%% literal").Build()
	if err.Detail != "raw 100%% literal" {
		t.Errorf("Detail = %q, want the verbatim string", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseGenerate, []string{"field"}, "int32", "f64")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if err.GoType != "int32" || err.WitType != "f64" {
			t.Errorf("GoType=%v WitType=%v", err.GoType, err.WitType)
		}
	})

	t.Run("ArityMismatch", func(t *testing.T) {
		err := ArityMismatch(PhaseInvoke, []string{"add"}, 3, 1)
		if err.Kind != KindArityMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindArityMismatch)
		}
		if !strings.Contains(err.Detail, "3") || !strings.Contains(err.Detail, "1") {
			t.Errorf("Detail = %v, should contain both counts", err.Detail)
		}
		if err.Value != 1 {
			t.Errorf("Value = %v, want 1", err.Value)
		}
	})

	t.Run("InvalidHandle", func(t *testing.T) {
		err := InvalidHandle(PhaseInvoke, []string{"ping"}, 0xdead, "no live instance")
		if err.Kind != KindInvalidHandle {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidHandle)
		}
		if !strings.Contains(err.Detail, "0xdead") {
			t.Errorf("Detail = %v, should contain the handle in hex", err.Detail)
		}
		if err.Value != uint64(0xdead) {
			t.Errorf("Value = %v, want 0xdead", err.Value)
		}
	})

	t.Run("DuplicateID", func(t *testing.T) {
		err := DuplicateID(PhaseLink, "interface", 7)
		if err.Kind != KindDuplicateID {
			t.Errorf("Kind = %v, want %v", err.Kind, KindDuplicateID)
		}
		if !strings.Contains(err.Detail, "interface") || !strings.Contains(err.Detail, "7") {
			t.Errorf("Detail = %v, should name what and which id", err.Detail)
		}
	})

	t.Run("ChecksumMismatch", func(t *testing.T) {
		err := ChecksumMismatch(PhaseLink, "descriptor", 0xa, 0xb)
		if err.Kind != KindChecksumMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindChecksumMismatch)
		}
		if err.Value != uint64(0xb) {
			t.Errorf("Value = %v, want the got checksum", err.Value)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseLink, "interface", "wasi:http/types")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !strings.Contains(err.Detail, "wasi:http/types") {
			t.Errorf("Detail = %v, should contain the name", err.Detail)
		}
	})

	t.Run("NotInstalled", func(t *testing.T) {
		err := NotInstalled("export linker")
		if err.Kind != KindNotInstalled {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotInstalled)
		}
		if err.Phase != PhaseLink {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseLink)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseDescribe, "host cannot be nil")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
		if err.Detail != "host cannot be nil" {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("Registration", func(t *testing.T) {
		cause := errors.New("duplicate module")
		err := Registration(PhaseBind, "demo:metrics/counter@1.0.0", "add", cause)
		if err.Kind != KindRegistration {
			t.Errorf("Kind = %v, want %v", err.Kind, KindRegistration)
		}
		if !strings.Contains(err.Detail, "demo:metrics/counter@1.0.0#add") {
			t.Errorf("Detail = %v, should contain namespace#name", err.Detail)
		}
		if !errors.Is(err, cause) {
			t.Error("cause not reachable through errors.Is")
		}
	})

	t.Run("Registration without function name", func(t *testing.T) {
		err := Registration(PhaseBind, "demo:metrics/counter@1.0.0", "", nil)
		if strings.Contains(err.Detail, "#") {
			t.Errorf("Detail = %v, should not contain a dangling separator", err.Detail)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseDescribe, "variadic methods")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("io failure")
		err := Wrap(PhaseBind, KindRegistration, cause, "attaching host module")
		if err.Phase != PhaseBind || err.Kind != KindRegistration {
			t.Errorf("got %s/%s", err.Phase, err.Kind)
		}
		if !errors.Is(err, cause) {
			t.Error("cause not reachable through errors.Is")
		}
	})
}

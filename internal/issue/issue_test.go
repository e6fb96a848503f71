// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "operation only",
			err:  Context("load catalog").Err(),
			want: "failed to load catalog",
		},
		{
			name: "operation and resource",
			err:  Context("load catalog").Resource("https://depot.example/api").Err(),
			want: "failed to load catalog: https://depot.example/api",
		},
		{
			name: "with cause",
			err:  Context("merge archive").Wrap(errors.New("disk full")),
			want: "failed to merge archive: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Context("fetch components").Wrap(fmt.Errorf("request: %w", cause))
	if !errors.Is(err, cause) {
		t.Error("errors.Is must reach the wrapped cause")
	}

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As must find the ActionableError")
	}
	if ae.Operation != "fetch components" {
		t.Errorf("Operation = %q, want %q", ae.Operation, "fetch components")
	}
}

func TestFormatSuggestionsAndChain(t *testing.T) {
	err := Context("load configuration").
		Resource("config.cue").
		Suggest("Check the CUE syntax").
		Suggest("Run 'depot config path' to find the file").
		Wrap(fmt.Errorf("parse: %w", errors.New("unexpected token")))

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("expected ActionableError")
	}

	plain := ae.Format(false)
	if !strings.Contains(plain, "• Check the CUE syntax") {
		t.Errorf("plain format missing suggestion bullet:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain:") {
		t.Errorf("plain format must not include the chain:\n%s", plain)
	}

	verbose := ae.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "2. unexpected token") {
		t.Errorf("verbose format missing cause chain:\n%s", verbose)
	}
}

// SPDX-License-Identifier: MPL-2.0

package catalog

import "testing"

func TestParseComponentID(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    ComponentID
		wantErr bool
	}{
		{
			name: "valid spec",
			spec: "Table:td:ext:0010m000",
			want: ComponentID{Type: "Table", Package: "td", Module: "ext", Code: "0010m000"},
		},
		{
			name:    "too few segments",
			spec:    "Table:td:ext",
			wantErr: true,
		},
		{
			name:    "too many segments",
			spec:    "Table:td:ext:0010m000:extra",
			wantErr: true,
		},
		{
			name:    "empty segment",
			spec:    "Table::ext:0010m000",
			wantErr: true,
		},
		{
			name:    "whitespace segment",
			spec:    "Table: :ext:0010m000",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseComponentID(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseComponentID(%q) succeeded, want error", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseComponentID(%q) failed: %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("ParseComponentID(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestComponentIDFileName(t *testing.T) {
	tests := []struct {
		name string
		id   ComponentID
		want string
	}{
		{
			name: "script gets .bc",
			id:   ComponentID{Type: "Script", Package: "td", Module: "ext", Code: "proc01"},
			want: "tdextproc01.bc",
		},
		{
			name: "table gets .txt",
			id:   ComponentID{Type: "Table", Package: "td", Module: "ext", Code: "0010m000"},
			want: "tdext0010m000.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.FileName(); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComponentIDStructuralEquality(t *testing.T) {
	a := ComponentID{Type: "Table", Package: "td", Module: "ext", Code: "0010m000"}
	b := ComponentID{Type: "Table", Package: "td", Module: "ext", Code: "0010m000"}
	if a != b {
		t.Error("identical field values must compare equal")
	}

	c := b
	c.Code = "0020m000"
	if a == c {
		t.Error("differing codes must not compare equal")
	}
}

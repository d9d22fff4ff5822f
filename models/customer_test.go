package models

import "testing"

func TestMergeIdentity(t *testing.T) {
	tests := []struct {
		name     string
		existing CustomerIdentity
		incoming CustomerIdentity
		wantLast string
		wantFrst string
	}{
		{
			name:     "full last name replaces initial",
			existing: CustomerIdentity{FirstName: "Maria", LastName: "Silva"},
			incoming: CustomerIdentity{FirstName: "Maria", LastName: "S"},
			wantLast: "Silva",
			wantFrst: "Maria",
		},
		{
			name:     "dotted initial kept out",
			existing: CustomerIdentity{FirstName: "Maria", LastName: "Silva"},
			incoming: CustomerIdentity{FirstName: "Maria", LastName: "S."},
			wantLast: "Silva",
			wantFrst: "Maria",
		},
		{
			name:     "new full last name wins",
			existing: CustomerIdentity{FirstName: "Maria", LastName: "Silva"},
			incoming: CustomerIdentity{FirstName: "Maria", LastName: "Souza"},
			wantLast: "Souza",
			wantFrst: "Maria",
		},
		{
			name:     "empty first name preserved from existing",
			existing: CustomerIdentity{FirstName: "Maria", LastName: "Silva"},
			incoming: CustomerIdentity{FirstName: "", LastName: "Silva"},
			wantLast: "Silva",
			wantFrst: "Maria",
		},
		{
			name:     "initial accepted when nothing better exists",
			existing: CustomerIdentity{FirstName: "Maria", LastName: ""},
			incoming: CustomerIdentity{FirstName: "Maria", LastName: "S"},
			wantLast: "S",
			wantFrst: "Maria",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeIdentity(tt.existing, tt.incoming)
			if got.LastName != tt.wantLast {
				t.Errorf("LastName = %q, want %q", got.LastName, tt.wantLast)
			}
			if got.FirstName != tt.wantFrst {
				t.Errorf("FirstName = %q, want %q", got.FirstName, tt.wantFrst)
			}
		})
	}
}

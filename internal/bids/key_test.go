package bids_test

import (
	"testing"

	"fwbids/internal/bids"
)

func TestKeyExpand(t *testing.T) {
	key := bids.Key("sub-{subject}/{session}/func/sub-{subject}_{session}_task-rest_run-{item}_bold")
	got := key.Expand("01", "ses-1", 2)
	want := "sub-01/ses-1/func/sub-01_ses-1_task-rest_run-02_bold"
	if got != want {
		t.Fatalf("Expand = %q, want %q", got, want)
	}
}

func TestKeyValidate(t *testing.T) {
	cases := []struct {
		name    string
		key     bids.Key
		wantErr bool
	}{
		{"valid", "sub-{subject}/{session}/anat/sub-{subject}_{session}_T1w", false},
		{"empty", "   ", true},
		{"absolute", "/sub-{subject}/anat/T1w", true},
		{"unknown placeholder", "sub-{subj}/anat/T1w", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.key.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate(%q) err = %v, wantErr %v", tc.key, err, tc.wantErr)
			}
		})
	}
}

func TestKeyDatatypeAndSuffix(t *testing.T) {
	key := bids.Key("sub-{subject}/{session}/func/sub-{subject}_{session}_task-rest_bold")
	if got := key.Datatype(); got != "func" {
		t.Fatalf("Datatype = %q", got)
	}
	if got := key.Suffix(); got != "bold" {
		t.Fatalf("Suffix = %q", got)
	}

	flat := bids.Key("T1w")
	if got := flat.Datatype(); got != "" {
		t.Fatalf("Datatype of flat key = %q", got)
	}
	if got := flat.Suffix(); got != "T1w" {
		t.Fatalf("Suffix of flat key = %q", got)
	}
}

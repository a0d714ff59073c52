package analysis

import "testing"

func TestEvaluateGuard(t *testing.T) {
	cases := []struct {
		name          string
		meta          map[string]any
		wantApplies   bool
		wantSeparated bool
		wantMapping   string
	}{
		{
			name:        "no_mapping_locator",
			meta:        map[string]any{},
			wantApplies: false,
		},
		{
			name:        "nil_meta",
			meta:        nil,
			wantApplies: false,
		},
		{
			name: "separated_by_account",
			meta: map[string]any{
				"mapping_locator": "loc1",
				"separated_by":    map[string]any{"different_account": true},
			},
			wantApplies:   true,
			wantSeparated: true,
			wantMapping:   "loc1",
		},
		{
			name: "separated_by_kms_key",
			meta: map[string]any{
				"mapping_locator": "loc1",
				"separated_by":    map[string]any{"different_kms_key": true},
			},
			wantApplies:   true,
			wantSeparated: true,
			wantMapping:   "loc1",
		},
		{
			name: "separated_by_network_boundary",
			meta: map[string]any{
				"mapping_locator": "loc1",
				"separated_by":    map[string]any{"network_boundary": true},
			},
			wantApplies:   true,
			wantSeparated: true,
			wantMapping:   "loc1",
		},
		{
			name: "numeric_mapping_locator_still_declares",
			meta: map[string]any{
				"mapping_locator": float64(7),
				"separated_by":    map[string]any{"different_account": true},
			},
			wantApplies:   true,
			wantSeparated: true,
			wantMapping:   "7",
		},
		{
			name: "empty_separated_by",
			meta: map[string]any{
				"mapping_locator": "loc1",
				"separated_by":    map[string]any{},
			},
			wantApplies:   true,
			wantSeparated: false,
			wantMapping:   "loc1",
		},
		{
			name: "missing_separated_by",
			meta: map[string]any{
				"mapping_locator": "loc1",
			},
			wantApplies:   true,
			wantSeparated: false,
			wantMapping:   "loc1",
		},
		{
			name: "ill_typed_signals_coerce_to_false",
			meta: map[string]any{
				"mapping_locator": "loc1",
				"separated_by": map[string]any{
					"different_account": "yes",
					"different_kms_key": 1,
					"network_boundary":  nil,
				},
			},
			wantApplies:   true,
			wantSeparated: false,
			wantMapping:   "loc1",
		},
		{
			name: "ill_typed_separated_by_treated_as_empty",
			meta: map[string]any{
				"mapping_locator": "loc1",
				"separated_by":    "not a map",
			},
			wantApplies:   true,
			wantSeparated: false,
			wantMapping:   "loc1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateGuard(ParseExtra(tc.meta))
			if got.Applicable != tc.wantApplies {
				t.Fatalf("Applicable = %v, want %v", got.Applicable, tc.wantApplies)
			}
			if !tc.wantApplies {
				return
			}
			if got.MappingLocator != tc.wantMapping {
				t.Fatalf("MappingLocator = %q, want %q", got.MappingLocator, tc.wantMapping)
			}
			if got.Separated != tc.wantSeparated {
				t.Fatalf("Separated = %v, want %v", got.Separated, tc.wantSeparated)
			}
			wantReason := ReasonInsufficient
			if tc.wantSeparated {
				wantReason = ReasonSeparated
			}
			if got.Reason != wantReason {
				t.Fatalf("Reason = %q, want %q", got.Reason, wantReason)
			}
		})
	}
}

package fields

import (
	"testing"

	v1 "github.com/jupyterhub/prboard/pkg/apis/github/v1"
)

func TestCIStatus(t *testing.T) {
	tests := []struct {
		name   string
		rollup v1.CheckRollupState
		want   string // empty means nil
	}{
		{name: "success", rollup: v1.CheckRollupSuccess, want: OptionTestsPassing},
		{name: "failure", rollup: v1.CheckRollupFailure, want: OptionTestsFailing},
		{name: "pending", rollup: v1.CheckRollupPending},
		{name: "error", rollup: v1.CheckRollupError},
		{name: "expected", rollup: v1.CheckRollupExpected},
		{name: "no rollup reported", rollup: v1.CheckRollupNone},
		{name: "state the api grows later", rollup: v1.CheckRollupState("STARTUP_FAILURE")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := ciStatus(nil, &v1.PullRequest{CheckRollup: tt.rollup})
			if err != nil {
				t.Fatalf("ciStatus() unexpected error: %v", err)
			}
			if tt.want == "" {
				if value != nil {
					t.Errorf("ciStatus() = %s, want nil", value)
				}
				return
			}
			if value == nil || value.Option != tt.want {
				t.Errorf("ciStatus() = %s, want %s", value, tt.want)
			}
		})
	}
}

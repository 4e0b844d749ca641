package capengine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestComputeDeadMoney(t *testing.T) {
	p := mustPolicy(t, testLeague())

	tests := []struct {
		name   string
		salary int64
		years  int
		want   DeadMoneyCharge
	}{
		{
			name:   "two years remaining",
			salary: 10_000_000,
			years:  2,
			want:   DeadMoneyCharge{CurrentSeasonCharge: 10_000_000, ProjectedNextSalary: 11_500_000, NextSeasonCharge: 5_750_000},
		},
		{
			name:   "one year remaining",
			salary: 10_000_000,
			years:  1,
			want:   DeadMoneyCharge{CurrentSeasonCharge: 10_000_000, ProjectedNextSalary: 11_500_000, NextSeasonCharge: 2_875_000},
		},
		{
			name:   "beyond table clamps to four",
			salary: 4_000_000,
			years:  6,
			want:   DeadMoneyCharge{CurrentSeasonCharge: 4_000_000, ProjectedNextSalary: 4_600_000, NextSeasonCharge: 3_450_000},
		},
		{
			name:   "expiring contract has no next season charge",
			salary: 10_000_000,
			years:  0,
			want:   DeadMoneyCharge{CurrentSeasonCharge: 10_000_000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDeadMoney(p, testContract(uuid.New(), tt.salary, tt.years))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeDeadMoney() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeadMoneyChargeTotal(t *testing.T) {
	charge := DeadMoneyCharge{CurrentSeasonCharge: 10_000_000, NextSeasonCharge: 5_750_000}
	if got := charge.Total(); got != 15_750_000 {
		t.Errorf("Total() = %d, want 15750000", got)
	}
}

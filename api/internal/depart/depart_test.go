package depart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"potholes", "Public Works Department (PWD)"},
		{"pot holes", "Public Works Department (PWD)"},
		{"garbage", "Urban Development Department (Municipal Sanitation Wing)"},
		{"DamagedElectricalPoles", "State Electricity Board"},
		{"Damaged-Electrical-Poles", "State Electricity Board"},
		{"WaterLogging", "Municipal Drainage Department"},
		{"Water Logging", "Municipal Drainage Department"},
		{"FallenTrees", "Municipal Horticulture Department / Disaster Management Cell"},
		{"fallenTrees", "Municipal Horticulture Department / Disaster Management Cell"},
		{"unknown-garbage-xyz", Default},
		{"Unknown", Default},
		{"", Default},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Resolve(tc.label), "label %q", tc.label)
	}
}

func TestResolveIsPure(t *testing.T) {
	// same input, same output, no state between calls
	for i := 0; i < 3; i++ {
		assert.Equal(t, "Public Works Department (PWD)", Resolve("potholes"))
	}
}

package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
)

func TestParseDomain(t *testing.T) {
	d, err := ParseDomain("dof", false)
	require.NoError(t, err)
	assert.Equal(t, DomainCorrectiveAction, d)

	_, err = ParseDomain("all", false)
	assert.True(t, errors.Is(err, errors.ErrUnknownDomain))

	d, err = ParseDomain("all", true)
	require.NoError(t, err)
	assert.Equal(t, DomainAll, d)

	_, err = ParseDomain("ncr", true)
	assert.Error(t, err)
}

func TestVehicleInspection_AllDefectsResolved(t *testing.T) {
	assert.True(t, VehicleInspection{}.AllDefectsResolved())
	assert.True(t, VehicleInspection{Defects: []Defect{{Resolved: true}}}.AllDefectsResolved())
	assert.False(t, VehicleInspection{Defects: []Defect{{Resolved: true}, {Resolved: false}}}.AllDefectsResolved())
}

func TestEightDSteps_CompletedCount(t *testing.T) {
	s := EightDSteps{}
	s.Completed[0], s.Completed[3], s.Completed[7] = true, true, true
	assert.Equal(t, 3, s.CompletedCount())
}

package particle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jkkdy/april/pkg/particle"
)

func TestResolve_DefaultsStateToAlive(t *testing.T) {
	r := particle.Record[struct{}]{}
	s := particle.Resolve(r, 3)
	assert.Equal(t, particle.Alive, s.State)
	assert.Equal(t, particle.ID(3), s.ID)
}

func TestResolve_DefaultsOldPositionToPosition(t *testing.T) {
	r := particle.Record[struct{}]{}.At(particle.Vec3{1, 2, 3})
	s := particle.Resolve(r, 0)
	assert.Equal(t, s.Position, s.OldPosition)
}

func TestResolve_PreservesExplicitOldPosition(t *testing.T) {
	old := particle.Vec3{9, 9, 9}
	r := particle.Record[struct{}]{}.At(particle.Vec3{1, 2, 3}).WithOldPosition(old)
	s := particle.Resolve(r, 0)
	assert.Equal(t, old, s.OldPosition)
}

func TestResolve_PreservesExplicitState(t *testing.T) {
	r := particle.Record[struct{}]{}.WithState(particle.Passive)
	s := particle.Resolve(r, 0)
	assert.Equal(t, particle.Passive, s.State)
}

func TestField_Has(t *testing.T) {
	m := particle.FieldPosition | particle.FieldMass
	assert.True(t, m.Has(particle.FieldPosition))
	assert.False(t, m.Has(particle.FieldVelocity))
}

func TestField_Contains(t *testing.T) {
	assert.True(t, particle.Contains(particle.FieldAll, particle.FieldUserData))
	assert.False(t, particle.Contains(particle.FieldPosition, particle.FieldMass))
}

func TestState_Has(t *testing.T) {
	assert.True(t, particle.Exerting.Has(particle.Alive))
	assert.True(t, particle.Exerting.Has(particle.Stationary))
	assert.False(t, particle.Exerting.Has(particle.Passive))
	assert.True(t, particle.Movable.Has(particle.Passive))
}

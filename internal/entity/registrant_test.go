package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistrantHasEvent(t *testing.T) {
	r := &Registrant{SelectedEvents: []int64{1, 5, 9}}

	assert.True(t, r.HasEvent(5))
	assert.False(t, r.HasEvent(2))

	vacio := &Registrant{}
	assert.False(t, vacio.HasEvent(1))
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateActive, StateOf(false))
	assert.Equal(t, StateSoftDeleted, StateOf(true))
}

func TestLifecycleState_CanPurge(t *testing.T) {
	tests := []struct {
		state LifecycleState
		want  bool
	}{
		{StateActive, false},
		{StateSoftDeleted, true},
		{LifecycleState("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.CanPurge())
		})
	}
}

func TestHive_State(t *testing.T) {
	hive := Hive{ID: 1, Code: "hive1"}
	assert.Equal(t, StateActive, hive.State())

	hive.IsDeleted = true
	assert.Equal(t, StateSoftDeleted, hive.State())
}

func TestHiveSection_BelongsTo(t *testing.T) {
	section := HiveSection{ID: 3, Code: "sect3", HiveID: 2}

	assert.True(t, section.BelongsTo(2))
	assert.False(t, section.BelongsTo(1))
	assert.Equal(t, StateActive, section.State())
}

func TestProduct_State(t *testing.T) {
	product := Product{ID: 1, Code: "P1", IsDeleted: true}
	assert.True(t, product.State().CanPurge())
}

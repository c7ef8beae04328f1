package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlexFloatUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want FlexFloat
	}{
		{`3.5`, 3.5},
		{`"3.5"`, 3.5},
		{`" 2 "`, 2},
		{`"abc"`, 0},
		{`""`, 0},
		{`null`, 0},
		{`true`, 0},
	}
	for _, tc := range cases {
		var f FlexFloat
		err := json.Unmarshal([]byte(tc.in), &f)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, f, tc.in)
	}
}

func TestFlexIntUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want FlexInt
	}{
		{`4`, 4},
		{`"4"`, 4},
		{`4.9`, 4},
		{`"abc"`, 0},
		{`null`, 0},
	}
	for _, tc := range cases {
		var i FlexInt
		err := json.Unmarshal([]byte(tc.in), &i)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, i, tc.in)
	}
}

func TestValidServiceLevel(t *testing.T) {
	assert.True(t, ValidServiceLevel(LevelGround))
	assert.True(t, ValidServiceLevel(LevelExpress))
	assert.True(t, ValidServiceLevel(LevelPriority))
	assert.False(t, ValidServiceLevel("overnight"))
	assert.False(t, ValidServiceLevel(""))
}

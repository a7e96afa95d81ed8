package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProdModeFromArgs(t *testing.T) {
	assert.False(t, prodModeFromArgs(nil))
	assert.False(t, prodModeFromArgs([]string{"test"}))
	assert.False(t, prodModeFromArgs([]string{"staging"}))
	assert.False(t, prodModeFromArgs([]string{"PROD"}))
	assert.True(t, prodModeFromArgs([]string{"prod"}))
}

func TestModeName(t *testing.T) {
	assert.Equal(t, "prod", modeName(true))
	assert.Equal(t, "test", modeName(false))
}

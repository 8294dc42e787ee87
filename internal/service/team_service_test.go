package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstNamesNamer(t *testing.T) {
	namer := FirstNamesNamer{}

	assert.Equal(t, "Ann & Bob", namer.TeamName([]string{"Bob Dylan", "Ann Smith"}))
	assert.Equal(t, "Ann & Bob & Cid", namer.TeamName([]string{"Cid", "Ann", "Bob"}))
	assert.Equal(t, "Ann", namer.TeamName([]string{"Ann", " "}))
}

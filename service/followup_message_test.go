package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderFollowUpMessage(t *testing.T) {
	msg := RenderFollowUpMessage(CompanyProfile{
		Name:    "SunCo",
		Phone:   "+1 555 0100",
		Website: "sunco.example",
	})

	assert.Contains(t, msg, "SunCo - Your Solar Energy Partner")
	assert.Contains(t, msg, "Call us: +1 555 0100")
	assert.Contains(t, msg, "Website: sunco.example")
	assert.NotContains(t, msg, "{{")
}

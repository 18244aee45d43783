package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnvExpr(t *testing.T) {
	testCases := []struct {
		description string
		env         map[string]string
		input       string
		expect      string
	}{
		{description: "no expressions", input: "processes: 3", expect: "processes: 3"},
		{description: "single expression", env: map[string]string{"PROCSIM_N": "7"}, input: "processes: ${env.PROCSIM_N}", expect: "processes: 7"},
		{description: "multiple expressions", env: map[string]string{"PROCSIM_A": "1", "PROCSIM_B": "2"}, input: "${env.PROCSIM_A}-${env.PROCSIM_B}-${env.PROCSIM_A}", expect: "1-2-1"},
		{description: "unset variable", input: "url: ${env.PROCSIM_UNSET}/x", expect: "url: /x"},
		{description: "unterminated", env: map[string]string{"PROCSIM_A": "1"}, input: "a ${env.PROCSIM_A and ${env.PROCSIM_B", expect: "a ${env.PROCSIM_A and ${env.PROCSIM_B"},
		{description: "invalid key then valid", env: map[string]string{"PROCSIM_B": "b"}, input: "x ${env.a-${env.PROCSIM_B}}", expect: "x ${env.a-b}"},
		{description: "empty key", input: "oops ${env.} done", expect: "oops  done"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, testCase.expect, expandEnvExpr(testCase.input))
		})
	}
}

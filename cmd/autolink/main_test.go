package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFactoryScene(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run("testdata/autolink.yaml", "testdata/factory.yaml", "", &out))

	got := out.String()
	for _, line := range []string{
		"#1 skipped\n",
		"belt  #20 in -> #10 output0\n",
		"belt  #20 out -> #21 in\n",
		"belt  #30 in -> #21 out\n",
		"belt  #40 input0 -> #30 out\n",
		"fluid #50 b -> #10 coolant_in\n",
		"track #61 end -> #60 end\n",
		"track #62 end -> #60 end\n",
		"conveyor chains: 1\n",
		"[20 21 30]\n",
		"fluid networks: 1\n",
		"track graph merges: 2\n",
		"events: published=9 handlers=9 errors=0\n",
	} {
		assert.Contains(t, got, line)
	}
	assert.NotContains(t, got, "#62 end -> #61")
}

func TestRunRequiresScene(t *testing.T) {
	assert.Error(t, run("", "", "", &bytes.Buffer{}))
	assert.Error(t, run("", "testdata/missing.yaml", "", &bytes.Buffer{}))
}

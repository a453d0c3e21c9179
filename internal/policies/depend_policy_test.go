package policies

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDependPolicyExternalOnly(t *testing.T) {
	policy := DefaultDependPolicy()
	require.True(t, policy.ExternalOnly("dev-util/gperf"))
	require.True(t, policy.ExternalOnly("app-doc/doxygen"))
	require.True(t, policy.ExternalOnly("virtual/pkgconfig"))
	require.False(t, policy.ExternalOnly("roscpp"))
}

func TestDependPolicyExtension(t *testing.T) {
	policy := NewDependPolicy([]string{"dev-util/cmake"})
	require.True(t, policy.ExternalOnly("dev-util/cmake"))
	require.False(t, policy.ExternalOnly("dev-util/gperf"))
}

func TestPythonPolicy(t *testing.T) {
	policy := DefaultPythonPolicy()
	require.False(t, policy.SupportsPython3("tf"))
	require.True(t, policy.SupportsPython3("roscpp"))

	extended := NewPythonPolicy([]string{"tf", "old_pkg"})
	require.False(t, extended.SupportsPython3("old_pkg"))
}

//go:build e2e && unix

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startSearch(t *testing.T, tf *TUITestFramework, env ...string) {
	t.Helper()
	require.NoError(t, tf.StartApp(env), "Failed to start app")
	require.True(t, tf.Ready(), "Should show the idle dashboard")
	require.NoError(t, tf.OpenSearch())
	require.True(t, tf.SeePlain("Type at least 2 characters"), "Should show the empty hint")
}

func TestSearchShowsGroupedResults(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	startSearch(t, tf, "DASHSEARCH_TOKEN="+serverToken)

	tf.Type("m")
	require.True(t, tf.SeePlain("Keep typing"), "One character should not search")

	tf.Type("ilk")
	if err := tf.WaitForE(func(s string) bool {
		plain := ansiRe.ReplaceAllString(s, "")
		return strings.Contains(plain, "Tasks (2)") && strings.Contains(plain, "Notes (2)")
	}, 3*time.Second, "Grouped results should render"); err != nil {
		t.Fatal(err)
	}
	require.True(t, tf.SeePlain("Buy milk"))
	require.True(t, tf.SeePlain("Milk brands"))
}

func TestSearchNoResults(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	startSearch(t, tf, "DASHSEARCH_TOKEN="+serverToken)

	tf.Type("zebra")
	require.True(t, tf.SeePlain(`No tasks or notes match "zebra".`))
}

func TestEscapeClosesSearch(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	startSearch(t, tf, "DASHSEARCH_TOKEN="+serverToken)
	tf.Type("milk")
	require.True(t, tf.SeePlain("Tasks (2)"))

	before := len(tf.Snapshot())
	tf.Escape()
	require.NoError(t, tf.WaitForE(func(s string) bool {
		return len(s) > before && strings.Contains(ansiRe.ReplaceAllString(s[before:], ""), "Press ctrl+k")
	}, 3*time.Second, "Escape should return to the idle dashboard"))
}

func TestEnterOpensDetailPager(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	startSearch(t, tf, "DASHSEARCH_TOKEN="+serverToken)
	tf.Type("pancake")
	require.True(t, tf.SeePlain("Notes (1)"))

	tf.Enter()
	require.True(t, tf.SeePlain("Category"), "Pager should show the note fields")

	before := len(tf.Snapshot())
	tf.Quit()
	require.NoError(t, tf.WaitForE(func(s string) bool {
		return len(s) > before && strings.Contains(ansiRe.ReplaceAllString(s[before:], ""), "Pancake recipe")
	}, 3*time.Second, "Should return to the search surface after the pager"))
}

func TestExpiredTokenThenReload(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	tf.CreateWorkspace()
	tokenFile := tf.WriteTokenFile("stale-token")

	startSearch(t, tf, "DASHSEARCH_TOKEN_FILE="+tokenFile)
	tf.Type("milk")
	require.True(t, tf.SeePlain("Your session has expired"), "Wrong token should show the sign-in banner")

	// the auth flow rewrites the token file
	tf.WriteTokenFile(serverToken)
	require.True(t, tf.WaitForStatusMessage("Credentials reloaded", 3*time.Second))
	require.True(t, tf.SeePlain("Tasks (2)"), "Search should be retried with the new token")
}

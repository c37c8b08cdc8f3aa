//go:build e2e && unix

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartsWithQueryFromArgs(t *testing.T) {
	t.Parallel()
	api := newOMDBFixture(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(append(api.Args(), "alien")...))
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("movieseeker"), "Should show title")
	require.True(t, tf.SeePlain("Alien 01"), "Should show first result")
	require.True(t, tf.SeePlain("10 of 15 results"), "Should show result count")
}

func TestStartsFromLocation(t *testing.T) {
	t.Parallel()
	api := newOMDBFixture(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(append(api.Args(), "--url", "?q=heat")...))
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("Heat"), "Should show the result for the location term")
	require.True(t, tf.SeePlain("1 of 1 results"), "Should show result count")
}

func TestTypingShowsSuggestions(t *testing.T) {
	t.Parallel()
	api := newOMDBFixture(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(api.Args()...))
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("Press / to search"), "Should start in search mode")

	require.NoError(t, tf.Type("alien"))
	require.True(t, tf.OutputContainsPlain("Alien 02 (1980)", 3*time.Second), "Should show suggestions")

	// choose the second suggestion
	require.NoError(t, tf.Down())
	require.NoError(t, tf.Down())
	require.NoError(t, tf.Enter())
	require.NoError(t, tf.WaitForE(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), `No results for "Alien 02"`)
	}, 3*time.Second, "Choosing a suggestion should commit its title"))
}

func TestSubmitSearchShowsGallery(t *testing.T) {
	t.Parallel()
	api := newOMDBFixture(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(api.Args()...))
	require.True(t, tf.Ready(), "Should receive ready signal")

	require.NoError(t, tf.Type("heat"))
	require.NoError(t, tf.Enter())
	require.True(t, tf.SeePlain("1 of 1 results"), "Should show gallery for submitted term")
	require.True(t, tf.SeePlain("end of results"), "Single page should be exhausted")

	var sawSearch bool
	for _, q := range api.Requests() {
		if strings.Contains(q, "s=heat") && strings.Contains(q, "page=1") {
			sawSearch = true
		}
	}
	require.True(t, sawSearch, "Gallery should request the first page of the committed term")
}

func TestInvalidTermShowsFieldError(t *testing.T) {
	t.Parallel()
	api := newOMDBFixture(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(api.Args()...))
	require.True(t, tf.Ready(), "Should receive ready signal")

	require.NoError(t, tf.Type("Movie@Title!"))
	require.NoError(t, tf.Enter())
	require.True(t, tf.SeePlain("letters, numbers and spaces"), "Should explain the allowed characters")
	require.False(t, strings.Contains(tf.SnapshotPlain(), "results"), "Invalid term must not be committed")
}

func TestScrollingLoadsNextPage(t *testing.T) {
	t.Parallel()
	api := newOMDBFixture(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(append(api.Args(), "alien")...))
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("10 of 15 results"), "Should show first page")

	require.NoError(t, tf.SendKeys("G"))
	require.True(t, tf.OutputContainsPlain("15 of 15 results", 3*time.Second), "Should append the second page")
	require.True(t, tf.SeePlain("Alien 15"), "Should show last item")
}

func TestHistoryBack(t *testing.T) {
	t.Parallel()
	api := newOMDBFixture(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(append(api.Args(), "alien")...))
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("10 of 15 results"), "Should show first term")

	require.NoError(t, tf.Search("heat"))
	require.True(t, tf.SeePlain("1 of 1 results"), "Should show second term")

	require.NoError(t, tf.SendKeys(KeyBack))
	require.True(t, tf.SeePlain("→ forward"), "Forward should become available")
	require.True(t, tf.SeePlain("10 of 15 results"), "Should restore first term")
}

func TestFailedSearchOffersRetry(t *testing.T) {
	t.Parallel()
	api := newOMDBFixture(t)
	api.SetFailing(true)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(append(api.Args(), "alien")...))
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.OutputContainsPlain("Search failed. Press r to retry.", 15*time.Second), "Should show failure")

	api.SetFailing(false)
	require.NoError(t, tf.SendKeys("r"))
	require.True(t, tf.SeePlain("10 of 15 results"), "Retry should load results")
}

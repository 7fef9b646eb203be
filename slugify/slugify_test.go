package slugify

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"React Summit 2024!", "react-summit-2024"},
		{"  Go  Conference  ", "go-conference"},
		{"hello_world", "hello-world"},
		{"--already--slugged--", "already-slugged"},
		{"Café & Croissants @ Dawn", "caf-croissants-dawn"},
		{"UPPER lower 123", "upper-lower-123"},
		{"!!!", ""},
	}

	shape := regexp.MustCompile(`^$|^[a-z0-9]+(-[a-z0-9]+)*$`)
	for _, tt := range tests {
		got := Slugify(tt.in)
		require.Equal(t, tt.want, got, "Slugify(%q)", tt.in)
		require.Regexp(t, shape, got)
	}
}

// mapOracle backs the resolver with a fixed slug -> owner table.
func mapOracle(owned map[string]string) Oracle {
	return func(_ context.Context, slug string) (string, bool, error) {
		owner, ok := owned[slug]
		return owner, ok, nil
	}
}

func TestResolveFreshTitle(t *testing.T) {
	slug, err := Resolve(context.Background(), "React Summit 2024", "ev-new", mapOracle(nil))
	require.NoError(t, err)
	require.Equal(t, "react-summit-2024", slug)
}

func TestResolveCollisionSuffixes(t *testing.T) {
	owned := map[string]string{
		"react-summit-2024": "ev-1",
	}
	slug, err := Resolve(context.Background(), "React Summit 2024", "ev-2", mapOracle(owned))
	require.NoError(t, err)
	require.Equal(t, "react-summit-2024-1", slug)

	owned[slug] = "ev-2"
	slug, err = Resolve(context.Background(), "React Summit 2024", "ev-3", mapOracle(owned))
	require.NoError(t, err)
	require.Equal(t, "react-summit-2024-2", slug)
}

func TestResolveSelfMatchKeepsSlug(t *testing.T) {
	owned := map[string]string{
		"react-summit-2024": "ev-1",
	}
	// re-saving the record that already owns the slug accepts immediately
	slug, err := Resolve(context.Background(), "React Summit 2024", "ev-1", mapOracle(owned))
	require.NoError(t, err)
	require.Equal(t, "react-summit-2024", slug)
}

func TestResolveOracleError(t *testing.T) {
	boom := errors.New("store down")
	_, err := Resolve(context.Background(), "Anything", "x", func(context.Context, string) (string, bool, error) {
		return "", false, boom
	})
	require.ErrorIs(t, err, boom)
}

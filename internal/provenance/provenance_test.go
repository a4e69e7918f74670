package provenance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mohans/taskwatch/internal/taskdef"
)

func TestResolve_NilDefinition(t *testing.T) {
	require.Equal(t, Unknown(), Resolve(nil))
}

func TestRouteStrategy_SingleRoute(t *testing.T) {
	def := &taskdef.Definition{
		Routes: []string{
			"index.gecko.v2.autoland.latest",
			"tc-treeherder.v2.autoland.abcdef0123.42",
		},
		Metadata: taskdef.Metadata{Owner: "dev@example.com"},
	}
	p := Resolve(def)
	require.True(t, p.Known)
	require.Equal(t, "hg.mozilla.org", p.Origin)
	require.Equal(t, "autoland", p.Project)
	require.Equal(t, "abcdef0123", p.Revision)
	require.Equal(t, "42", p.PushID)
	// Route carries no owner; the metadata owner backfills it.
	require.Equal(t, "dev@example.com", p.Owner)
}

func TestRouteStrategy_GithubProjectSpec(t *testing.T) {
	def := &taskdef.Definition{
		Routes: []string{"tc-treeherder.v2.octocat/hello-world.abcdef0123.7"},
	}
	p := Resolve(def)
	require.True(t, p.Known)
	require.Equal(t, "github.com", p.Origin)
	require.Equal(t, "octocat", p.Owner)
	require.Equal(t, "hello-world", p.Project)
}

func TestRouteStrategy_WithoutVersionSegment(t *testing.T) {
	def := &taskdef.Definition{
		Routes: []string{"tc-treeherder.autoland.abcdef0123.42"},
	}
	p := Resolve(def)
	require.True(t, p.Known)
	require.Equal(t, "autoland", p.Project)
}

func TestRouteStrategy_NoMatchingRoute(t *testing.T) {
	def := &taskdef.Definition{Routes: []string{"index.gecko.v2.autoland.latest"}}
	require.Equal(t, Unknown(), Resolve(def))
}

func TestRouteStrategy_AmbiguousRoutes(t *testing.T) {
	def := &taskdef.Definition{
		Routes: []string{
			"tc-treeherder.v2.autoland.abc.1",
			"tc-treeherder.v2.try.def.2",
		},
	}
	require.Equal(t, Unknown(), Resolve(def))
}

func TestRouteStrategy_MalformedRoute(t *testing.T) {
	def := &taskdef.Definition{Routes: []string{"tc-treeherder.v2.autoland"}}
	require.Equal(t, Unknown(), Resolve(def))
}

func TestEnvStrategy_HeadRepo(t *testing.T) {
	def := &taskdef.Definition{
		SchedulerID: "taskcluster-github",
		Payload: map[string]any{
			"env": map[string]any{
				"GITHUB_HEAD_REPO_URL": "https://github.com/octocat/hello-world.git",
				"GITHUB_HEAD_SHA":      "abcdef0123456789",
				"GITHUB_PULL_REQUEST":  "99",
			},
		},
	}
	p := Resolve(def)
	require.True(t, p.Known)
	require.Equal(t, "github.com", p.Origin)
	require.Equal(t, "octocat", p.Owner)
	require.Equal(t, "hello-world", p.Project)
	require.Equal(t, "abcdef0123456789", p.Revision)
	require.Equal(t, "99", p.PushID)
}

func TestEnvStrategy_PullRequestOptional(t *testing.T) {
	def := &taskdef.Definition{
		SchedulerID: "taskcluster-github",
		Payload: map[string]any{
			"env": map[string]any{
				"GITHUB_HEAD_REPO_URL": "https://github.com/octocat/hello-world",
				"GITHUB_HEAD_SHA":      "abcdef",
			},
		},
	}
	p := Resolve(def)
	require.True(t, p.Known)
	require.Empty(t, p.PushID)
}

func TestEnvStrategy_MissingFields(t *testing.T) {
	for name, env := range map[string]map[string]any{
		"no env":     nil,
		"no url":     {"GITHUB_HEAD_SHA": "abc"},
		"no sha":     {"GITHUB_HEAD_REPO_URL": "https://github.com/a/b"},
		"bad url":    {"GITHUB_HEAD_REPO_URL": "://nope", "GITHUB_HEAD_SHA": "abc"},
		"short path": {"GITHUB_HEAD_REPO_URL": "https://github.com/justowner", "GITHUB_HEAD_SHA": "abc"},
	} {
		t.Run(name, func(t *testing.T) {
			def := &taskdef.Definition{SchedulerID: "taskcluster-github"}
			if env != nil {
				def.Payload = map[string]any{"env": env}
			}
			require.Equal(t, Unknown(), Resolve(def))
		})
	}
}

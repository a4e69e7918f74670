// Package provenance derives source-control origin facts for a task from its
// definition. Derivation never fails: anything ambiguous, missing, or
// malformed resolves to the Unknown value.
package provenance

import (
	"net/url"
	"strings"

	"github.com/spf13/cast"

	"github.com/mohans/taskwatch/internal/taskdef"
)

const (
	// Scheduler id used by the github CI integration; tasks it schedules
	// carry provenance in their payload environment instead of routes.
	githubSchedulerID = "taskcluster-github"

	// Leading segment of routes carrying CI-report provenance.
	reportRouteTag = "tc-treeherder"

	hgOrigin = "hg.mozilla.org"
)

// Provenance describes what code a task operated on. The zero value is the
// Unknown variant; Known is true only when a derivation strategy produced a
// complete result.
type Provenance struct {
	Known    bool
	Origin   string
	Owner    string
	Project  string
	Revision string
	PushID   string
}

// Unknown is the all-absent provenance. It is a valid terminal state, not an
// error.
func Unknown() Provenance {
	return Provenance{}
}

// Resolve derives provenance from a task definition. Tasks scheduled by the
// github integration use the environment strategy; everything else uses the
// report-route strategy.
func Resolve(def *taskdef.Definition) Provenance {
	if def == nil {
		return Unknown()
	}
	if def.SchedulerID == githubSchedulerID {
		return fromEnvironment(def)
	}
	return fromRoutes(def)
}

// fromRoutes selects the single route tagged for CI reporting and parses it
// positionally: <tag>[.v2].<project>.<revision>.<pushId>, where a project
// segment of the form owner/repo marks a github origin. Zero or multiple
// matching routes mean the provenance cannot be trusted.
func fromRoutes(def *taskdef.Definition) Provenance {
	var matched []string
	for _, r := range def.Routes {
		if strings.SplitN(r, ".", 2)[0] == reportRouteTag {
			matched = append(matched, r)
		}
	}
	if len(matched) != 1 {
		return Unknown()
	}

	parts := strings.Split(matched[0], ".")
	idx := 1
	if idx < len(parts) && parts[idx] == "v2" {
		idx = 2
	}
	if len(parts)-idx != 3 {
		return Unknown()
	}
	projectSpec, revision, pushID := parts[idx], parts[idx+1], parts[idx+2]
	if projectSpec == "" || revision == "" {
		return Unknown()
	}

	p := Provenance{
		Known:    true,
		Origin:   hgOrigin,
		Project:  projectSpec,
		Revision: revision,
		PushID:   pushID,
	}
	if owner, project, ok := strings.Cut(projectSpec, "/"); ok {
		p.Origin = "github.com"
		p.Owner = owner
		p.Project = project
	}
	if p.Owner == "" {
		p.Owner = def.Metadata.Owner
	}
	return p
}

// fromEnvironment reads the github integration's provenance out of the task
// payload's env block: the head repository URL names origin/owner/project,
// the head SHA is the revision, and the pull request number (when present)
// becomes the push id.
func fromEnvironment(def *taskdef.Definition) Provenance {
	env := cast.ToStringMapString(def.Payload["env"])
	repoURL := env["GITHUB_HEAD_REPO_URL"]
	revision := env["GITHUB_HEAD_SHA"]
	if repoURL == "" || revision == "" {
		return Unknown()
	}

	u, err := url.Parse(repoURL)
	if err != nil || u.Host == "" {
		return Unknown()
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) != 2 || segs[0] == "" || segs[1] == "" {
		return Unknown()
	}

	return Provenance{
		Known:    true,
		Origin:   u.Host,
		Owner:    segs[0],
		Project:  strings.TrimSuffix(segs[1], ".git"),
		Revision: revision,
		PushID:   env["GITHUB_PULL_REQUEST"],
	}
}

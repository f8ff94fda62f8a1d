package domain

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

var comparators = []string{">=", "<=", "!=", "==", ">", "<", "="}

// MatchVersion reports whether version satisfies constraint, a comma
// separated list of comparisons such as ">=v0.8.0, <v10". Versions may omit
// the leading v. An empty constraint always matches.
func MatchVersion(constraint, version string) (bool, error) {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return true, nil
	}

	current, err := canonicalVersion(version)
	if err != nil {
		return false, fmt.Errorf("host version: %w", err)
	}

	for _, clause := range strings.Split(constraint, ",") {
		ok, err := matchClause(strings.TrimSpace(clause), current)
		if err != nil {
			return false, fmt.Errorf("constraint %q: %w", constraint, err)
		}

		if !ok {
			return false, nil
		}
	}

	return true, nil
}

func matchClause(clause, current string) (bool, error) {
	op := "="

	for _, candidate := range comparators {
		if rest, ok := strings.CutPrefix(clause, candidate); ok {
			op = candidate
			clause = strings.TrimSpace(rest)

			break
		}
	}

	want, err := canonicalVersion(clause)
	if err != nil {
		return false, err
	}

	cmp := semver.Compare(current, want)

	switch op {
	case ">=":
		return cmp >= 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	case "<":
		return cmp < 0, nil
	case "!=":
		return cmp != 0, nil
	default:
		return cmp == 0, nil
	}
}

func canonicalVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("empty version")
	}

	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}

	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid version %q", v)
	}

	return semver.Canonical(v), nil
}

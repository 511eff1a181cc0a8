// Package model defines the data structures for optimization-problem labeling.
package model

import "strings"

// Label represents a semantic tag family assigned to a word.
type Label string

const (
	// LabelOutside marks a general word.
	LabelOutside Label = "O"
	// LabelConstraintDir marks words describing a constraint.
	LabelConstraintDir Label = "B/I-CONST_DIR"
	// LabelLimit marks numerical limits.
	LabelLimit Label = "B/I-LIMIT"
	// LabelVariable marks decision variables.
	LabelVariable Label = "B/I-VAR"
	// LabelParameter marks measurable parameters.
	LabelParameter Label = "B/I-PARAM"
	// LabelObjectiveName marks the objective.
	LabelObjectiveName Label = "B/I-OBJ_NAME"
	// LabelObjectiveDir marks the action towards the objective.
	LabelObjectiveDir Label = "B-OBJ_DIR"
)

var labelDescriptions = map[Label]string{
	LabelOutside:       "general word",
	LabelConstraintDir: "optimization_problem_constraint_description",
	LabelLimit:         "numerical_limit",
	LabelVariable:      "variable",
	LabelParameter:     "measurable_parameter",
	LabelObjectiveName: "objective",
	LabelObjectiveDir:  "action_towards_objective",
}

// Labels returns the closed label set in declaration order.
func Labels() []Label {
	return []Label{
		LabelOutside,
		LabelConstraintDir,
		LabelLimit,
		LabelVariable,
		LabelParameter,
		LabelObjectiveName,
		LabelObjectiveDir,
	}
}

// Description returns the human readable meaning of the label.
func (l Label) Description() string {
	return labelDescriptions[l]
}

// IsKnownLabel reports whether s names a member of the label set.
func IsKnownLabel(s string) bool {
	_, ok := labelDescriptions[Label(s)]

	return ok
}

// Family maps a concrete BIO tag (B-VAR, I-LIMIT, O) to its label family.
// The second return value is false when the tag belongs to no family.
func Family(tag string) (Label, bool) {
	if IsKnownLabel(tag) {
		return Label(tag), true
	}

	prefix, kind, found := strings.Cut(tag, "-")
	if !found || (prefix != "B" && prefix != "I") {
		return "", false
	}

	for _, label := range Labels() {
		_, labelKind, ok := strings.Cut(string(label), "-")
		if !ok || labelKind != kind {
			continue
		}

		if prefix == "I" && !strings.HasPrefix(string(label), "B/I-") {
			return "", false
		}

		return label, true
	}

	return "", false
}

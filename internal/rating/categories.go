// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package rating

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned for a categorical value outside its vocabulary.
var ErrUnknownCategory = errors.New("unknown category")

// VocabularyVersion identifies the code tables the regressor was trained with.
const VocabularyVersion = "v1"

// Vocabulary is a closed mapping from category label to integer code.
type Vocabulary struct {
	name  string
	codes map[string]int
}

func newVocabulary(name string, labels ...string) Vocabulary {
	v := Vocabulary{name: name, codes: make(map[string]int, len(labels))}
	for i, label := range labels {
		v.codes[label] = i + 1
	}
	return v
}

// Code returns the code of label. Surrounding whitespace is ignored; case is not.
func (v Vocabulary) Code(label string) (int, error) {
	code, ok := v.codes[strings.TrimSpace(label)]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q (vocabulary %s)", ErrUnknownCategory, v.name, label, VocabularyVersion)
	}
	return code, nil
}

// Len returns the number of categories.
func (v Vocabulary) Len() int {
	return len(v.codes)
}

var (
	// Acidity codes: Low=1, Medium=2, High=3.
	Acidity = newVocabulary("acidity", "Low", "Medium", "High")

	// Body codes: Light-bodied=1 through Very full-bodied=4.
	Body = newVocabulary("body", "Light-bodied", "Medium-bodied", "Full-bodied", "Very full-bodied")

	// Elaboration codes 1..15.
	Elaboration = newVocabulary("elaboration",
		"Varietal/100%",
		"Varietal/>75%",
		"Assemblage/Blend",
		"Assemblage/Bordeaux Red Blend",
		"Assemblage/Champagne Blend",
		"Assemblage/Port Blend",
		"Assemblage/Portuguese Red Blend",
		"Assemblage/Portuguese White Blend",
		"Assemblage/Rhône Red Blend",
		"Assemblage/Meritage Red Blend",
		"Assemblage/Rioja Red Blend",
		"Assemblage/Tuscan Red Blend",
		"Assemblage/Valpolicella Red Blend",
		"Assemblage/Provence Rosé Blend",
		"Assemblage/Cava Blend",
	)
)

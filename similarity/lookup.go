// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package similarity

import (
	"math"
	"strings"

	"github.com/gorse-io/cfeval/dataset"
	"github.com/juju/errors"
)

const (
	NameCosine             = "cosine"
	NamePearson            = "pearson"
	NamePearsonScaled      = "pearson_scaled"
	NameConstrainedPearson = "constrained_pearson"
	NameMSD                = "msd"
	NameJaccard            = "jaccard"
	NameJMSD               = "jmsd"
	NameSpearman           = "spearman"
	NameSingularities      = "singularities"
)

// Names lists all supported similarity names.
var Names = []string{
	NameCosine,
	NamePearson,
	NamePearsonScaled,
	NameConstrainedPearson,
	NameMSD,
	NameJaccard,
	NameJMSD,
	NameSpearman,
	NameSingularities,
}

// Options holds arguments of similarities built from the data.
type Options struct {
	// Median of the rating scale for constrained Pearson. NaN means the middle of
	// the observed scale.
	Median float64
	// RelevanceThreshold for singularities. NaN means the middle of the observed scale.
	RelevanceThreshold float64
}

// Lookup creates a similarity by name.
func Lookup(name string, view *dataset.View, opts Options) (Similarity, error) {
	middle := (view.MinRating + view.MaxRating) / 2
	switch strings.ToLower(name) {
	case NameCosine:
		return Cosine, nil
	case NamePearson:
		return Pearson, nil
	case NamePearsonScaled:
		return PearsonScaled, nil
	case NameConstrainedPearson:
		if math.IsNaN(opts.Median) {
			return NewConstrainedPearson(middle), nil
		}
		return NewConstrainedPearson(opts.Median), nil
	case NameMSD:
		return NewMSD(view.MinRating, view.MaxRating), nil
	case NameJaccard:
		return Jaccard, nil
	case NameJMSD:
		return NewJMSD(view.MinRating, view.MaxRating), nil
	case NameSpearman:
		return Spearman, nil
	case NameSingularities:
		if math.IsNaN(opts.RelevanceThreshold) {
			return NewSingularities(view, middle).Similarity, nil
		}
		return NewSingularities(view, opts.RelevanceThreshold).Similarity, nil
	default:
		return nil, errors.NotValidf("similarity %s", name)
	}
}

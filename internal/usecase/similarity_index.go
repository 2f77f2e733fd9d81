package usecase

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/ecorec/backend/internal/domain"
)

// tokenPattern matches runs of two or more word characters
var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// englishStopWords are common function words that carry no product signal
var englishStopWords = toSet(strings.Fields(`
a about above across after afterwards again against all almost alone along
already also although always am among amongst amoungst amount an and another
any anyhow anyone anything anyway anywhere are around as at back be became
because become becomes becoming been before beforehand behind being below
beside besides between beyond bill both bottom but by call can cannot cant co
con could couldnt cry de describe detail do done down due during each eg eight
either eleven else elsewhere empty enough etc even ever every everyone
everything everywhere except few fifteen fifty fill find fire first five for
former formerly forty found four from front full further get give go had has
hasnt have he hence her here hereafter hereby herein hereupon hers herself him
himself his how however hundred i ie if in inc indeed interest into is it its
itself keep last latter latterly least less ltd made many may me meanwhile
might mill mine more moreover most mostly move much must my myself name namely
neither never nevertheless next nine no nobody none noone nor not nothing now
nowhere of off often on once one only onto or other others otherwise our ours
ourselves out over own part per perhaps please put rather re same see seem
seemed seeming seems serious several she should show side since sincere six
sixty so some somehow someone something sometime sometimes somewhere still
such system take ten than that the their them themselves then thence there
thereafter thereby therefore therein thereupon these they thick thin third
this those though three through throughout thru thus to together too top
toward towards twelve twenty two un under until up upon us very via was we
well were what whatever when whence whenever where whereafter whereas whereby
wherein whereupon wherever whether which while whither who whoever whole whom
whose why will with within without would yet you your yours yourself
yourselves`))

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// SimilarityConfig controls which fields feed the similarity text
type SimilarityConfig struct {
	IncludeMaterial bool
}

// termWeight is one non-zero entry of a sparse document vector
type termWeight struct {
	term   int
	weight float64
}

// SimilarityIndex holds the all-pairs cosine similarity of a catalog.
// Rows and columns follow catalog order. Read-only once built.
type SimilarityIndex struct {
	n         int
	scores    []float64
	vocabSize int
}

// CompositeText is the text a product contributes to the similarity index
func CompositeText(p domain.Product, includeMaterial bool) string {
	text := p.Name + " " + p.Category
	if includeMaterial {
		text += " " + p.Material
	}
	return text
}

// TokenizeText lowercases text and returns its tokens minus English stop words
func TokenizeText(text string) []string {
	var tokens []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if englishStopWords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// BuildSimilarityIndex vectorizes every product with TF-IDF over a vocabulary
// drawn from this catalog only and computes the pairwise cosine matrix.
//
// Weights are raw term counts times idf = ln((1+N)/(1+df)) + 1, L2-normalized,
// so cosine similarity is a plain dot product.
func BuildSimilarityIndex(catalog []domain.Product, cfg SimilarityConfig) *SimilarityIndex {
	n := len(catalog)
	vocab := make(map[string]int)
	docTerms := make([]map[int]float64, n)
	df := make(map[int]int)

	for i, p := range catalog {
		counts := make(map[int]float64)
		for _, tok := range TokenizeText(CompositeText(p, cfg.IncludeMaterial)) {
			id, ok := vocab[tok]
			if !ok {
				id = len(vocab)
				vocab[tok] = id
			}
			counts[id]++
		}
		for id := range counts {
			df[id]++
		}
		docTerms[i] = counts
	}

	vectors := make([][]termWeight, n)
	for i, counts := range docTerms {
		vec := make([]termWeight, 0, len(counts))
		var norm float64
		for id, tf := range counts {
			idf := math.Log(float64(1+n)/float64(1+df[id])) + 1
			w := tf * idf
			norm += w * w
			vec = append(vec, termWeight{term: id, weight: w})
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for k := range vec {
				vec[k].weight /= norm
			}
		}
		sort.Slice(vec, func(a, b int) bool { return vec[a].term < vec[b].term })
		vectors[i] = vec
	}

	scores := make([]float64, n*n)
	for i := 0; i < n; i++ {
		// Self-similarity is 1 even for items whose text is all stop words
		scores[i*n+i] = 1
		for j := i + 1; j < n; j++ {
			s := clampUnit(dot(vectors[i], vectors[j]))
			scores[i*n+j] = s
			scores[j*n+i] = s
		}
	}

	return &SimilarityIndex{n: n, scores: scores, vocabSize: len(vocab)}
}

// dot multiplies two term-sorted sparse vectors
func dot(a, b []termWeight) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].term == b[j].term:
			sum += a[i].weight * b[j].weight
			i++
			j++
		case a[i].term < b[j].term:
			i++
		default:
			j++
		}
	}
	return sum
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Len returns the number of products indexed
func (s *SimilarityIndex) Len() int {
	if s == nil {
		return 0
	}
	return s.n
}

// VocabularySize returns the number of distinct terms in the catalog text
func (s *SimilarityIndex) VocabularySize() int {
	if s == nil {
		return 0
	}
	return s.vocabSize
}

// Score returns the similarity of products i and j, or 0 when out of range
func (s *SimilarityIndex) Score(i, j int) float64 {
	if i < 0 || j < 0 || i >= s.Len() || j >= s.Len() {
		return 0
	}
	return s.scores[i*s.n+j]
}

// Row returns a copy of the similarity row of product i, or nil when out of range
func (s *SimilarityIndex) Row(i int) []float64 {
	if i < 0 || i >= s.Len() {
		return nil
	}
	row := make([]float64, s.n)
	copy(row, s.scores[i*s.n:(i+1)*s.n])
	return row
}

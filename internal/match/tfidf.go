package match

import (
	"math"
	"sort"
)

// DefaultMaxFeatures caps the vocabulary size
const DefaultMaxFeatures = 5000

// term is one non-zero weight of a sparse vector
type term struct {
	index  int
	weight float64
}

// Vector is an L2-normalized sparse TF-IDF vector sorted by term index
type Vector []term

// Index is a TF-IDF vector space fitted once over the snippet corpus.
// It is read-only after BuildIndex and safe for concurrent use.
type Index struct {
	vocab   map[string]int
	idf     []float64
	vectors []Vector
}

// BuildIndex fits the vocabulary and idf weights over texts and vectorizes
// each of them. The vocabulary keeps the maxFeatures most frequent terms
// across the corpus, ties broken alphabetically.
func BuildIndex(texts []string, maxFeatures int) *Index {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	docs := make([][]string, len(texts))
	freq := make(map[string]int)
	df := make(map[string]int)
	for i, text := range texts {
		docs[i] = Tokenize(text)
		seen := make(map[string]bool)
		for _, tok := range docs[i] {
			freq[tok]++
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	terms := make([]string, 0, len(freq))
	for tok := range freq {
		terms = append(terms, tok)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(texts))
	idx := &Index{
		vocab: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	for i, tok := range terms {
		idx.vocab[tok] = i
		// Smoothed idf, as if one extra document held every term
		idx.idf[i] = math.Log((1+n)/(1+float64(df[tok]))) + 1
	}

	idx.vectors = make([]Vector, len(docs))
	for i, doc := range docs {
		idx.vectors[i] = idx.vectorize(doc)
	}
	return idx
}

// Len returns the number of indexed documents
func (idx *Index) Len() int {
	return len(idx.vectors)
}

// VocabularySize returns the number of retained terms
func (idx *Index) VocabularySize() int {
	return len(idx.vocab)
}

// Vectorize projects text into the fitted space. Unknown terms are ignored.
func (idx *Index) Vectorize(text string) Vector {
	return idx.vectorize(Tokenize(text))
}

func (idx *Index) vectorize(tokens []string) Vector {
	counts := make(map[int]float64)
	for _, tok := range tokens {
		if i, ok := idx.vocab[tok]; ok {
			counts[i]++
		}
	}

	vec := make(Vector, 0, len(counts))
	for i, tf := range counts {
		vec = append(vec, term{index: i, weight: tf * idx.idf[i]})
	}
	sort.Slice(vec, func(a, b int) bool { return vec[a].index < vec[b].index })

	var norm float64
	for _, t := range vec {
		norm += t.weight * t.weight
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].weight /= norm
	}
	return vec
}

// Cosine returns the cosine similarity of two normalized vectors in [0,1]
func Cosine(a, b Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].index == b[j].index:
			dot += a[i].weight * b[j].weight
			i++
			j++
		case a[i].index < b[j].index:
			i++
		default:
			j++
		}
	}
	return math.Max(0, math.Min(1, dot))
}

// Similarities scores q against every indexed document, in corpus order
func (idx *Index) Similarities(q Vector) []float64 {
	sims := make([]float64, len(idx.vectors))
	for i, v := range idx.vectors {
		sims[i] = Cosine(q, v)
	}
	return sims
}

// Ranked is a document position with its similarity
type Ranked struct {
	Doc   int
	Score float64
}

// TopK returns the k highest scores, descending. Equal scores keep corpus
// order.
func TopK(sims []float64, k int) []Ranked {
	ranked := make([]Ranked, len(sims))
	for i, s := range sims {
		ranked[i] = Ranked{Doc: i, Score: s}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Score > ranked[b].Score })
	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

package services

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultTopK is the number of transcripts used as grounding context.
const DefaultTopK = 5

// RankedCandidate is a candidate's position in the input and its similarity to the query.
type RankedCandidate struct {
	Index int
	Score float64
}

// RankByTFIDF ranks texts by cosine similarity to the query and returns the top k.
//
// Term weights are computed over the query plus all texts: raw term counts
// scaled by a smoothed inverse document frequency, ln((1+n)/(1+df)) + 1,
// then L2-normalised. Ties keep the original order.
func RankByTFIDF(query string, texts []string, k int) []RankedCandidate {
	if len(texts) == 0 || k <= 0 {
		return nil
	}

	corpus := make([]map[string]float64, 0, len(texts)+1)
	for _, t := range texts {
		corpus = append(corpus, termCounts(t))
	}
	queryCounts := termCounts(query)
	corpus = append(corpus, queryCounts)

	df := make(map[string]int)
	for _, counts := range corpus {
		for term := range counts {
			df[term]++
		}
	}

	n := float64(len(corpus))
	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}

	queryVec := weigh(queryCounts, idf)

	ranked := make([]RankedCandidate, len(texts))
	for i := range texts {
		ranked[i] = RankedCandidate{
			Index: i,
			Score: dot(queryVec, weigh(corpus[i], idf)),
		}
	}

	slices.SortStableFunc(ranked, func(a, b RankedCandidate) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// termCounts lowercases text and counts word tokens of two or more characters.
func termCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	for _, w := range words {
		if utf8.RuneCountInString(w) >= 2 {
			counts[w]++
		}
	}
	return counts
}

// weigh applies idf to term counts and normalises the result to unit length.
func weigh(counts map[string]float64, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(counts))
	var norm float64
	for _, term := range sortedTerms(counts) {
		w := counts[term] * idf[term]
		vec[term] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for term := range vec {
		vec[term] /= norm
	}
	return vec
}

// dot sums in term order so equal inputs always produce equal scores.
func dot(query, doc map[string]float64) float64 {
	var sum float64
	for _, term := range sortedTerms(query) {
		sum += query[term] * doc[term]
	}
	return sum
}

func sortedTerms(m map[string]float64) []string {
	terms := make([]string, 0, len(m))
	for term := range m {
		terms = append(terms, term)
	}
	slices.Sort(terms)
	return terms
}

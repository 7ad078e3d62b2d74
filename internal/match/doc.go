// Package match suggests member names for destination members that found no source.
//
// Names are split into lower-case words and compared three ways: edit distance of the joined
// words, the same with a trailing noise word such as "ID" or "At" dropped, and the share of
// words in common. Candidates are ranked together with the compatibility of their types.
package match

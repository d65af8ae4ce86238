// Package normalisers turns policy documents into plain text.
//
// Each subpackage handles one format and implements driven.Normaliser.
// A Registry picks the normaliser for a file by extension and falls back
// to plain text for anything it does not recognise.
package normalisers

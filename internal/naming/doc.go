// Package naming builds file names for linked documents from a layout
// pattern and an entry's fields.
//
// A pattern is literal text mixed with commands:
//
//	\field                     value of field ("\bibtexkey", "\year", ...)
//	\begin{field}...\end{field} rendered only when field is set
//	\format[F1,F2]{\field}      field piped through formatters
//	\\                         a literal backslash
//
// For example `\bibtexkey\begin{title} - \format[RemoveBrackets]{\title}\end{title}`
// yields "Smith2019 - On Things" for an entry with a title and just
// "Smith2019" without one.
package naming
